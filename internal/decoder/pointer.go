package decoder

import (
	"reflect"

	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// PointerDecoder decodes null to a nil pointer, anything else to a
// pointer to a newly allocated element.
type PointerDecoder struct{}

func (PointerDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if types.IsNull(v) {
		return reflect.Zero(gt), nil
	}

	ev, err := s.DecodeTo(v, typedesc.Cached(gt.Elem()), gt.Elem())
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(gt.Elem())
	p.Elem().Set(ev)
	return p, nil
}
