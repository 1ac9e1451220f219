package decoder

import (
	"reflect"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// CollectionDecoder decodes arrays into slices and Go arrays.
// The type of each element is resolved from the container descriptor,
// unless the element carries a known #class tag. A tag on the array
// wrapper itself must name the target type or List.
// The first element that fails aborts the whole decoding.
type CollectionDecoder struct{}

func (CollectionDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if types.IsNull(v) {
		return reflect.Zero(gt), nil
	}

	if err := checkTag(s, v, t, typedesc.List.Go); err != nil {
		return reflect.Value{}, err
	}

	arr, ok := unwrap(v).(*types.ArrayValue)
	if !ok {
		return reflect.Value{}, s.mismatch(v, t, nil)
	}

	// a nominal descriptor carries no argument, use the Go element type
	if _, ok := t.(typedesc.Nominal); ok {
		t = typedesc.Cached(gt)
	}

	var rv reflect.Value
	switch gt.Kind() {
	case reflect.Slice:
		rv = reflect.MakeSlice(gt, arr.Len(), arr.Len())
	case reflect.Array:
		if arr.Len() > gt.Len() {
			return reflect.Value{}, errors.NewDecoderError(errors.TypeMismatch, render(v), t.String(), nil,
				"too many elements for %s", gt)
		}
		rv = reflect.New(gt).Elem()
	default:
		return reflect.Value{}, s.mismatch(v, t, nil)
	}

	err := arr.Iterate(func(i int, e types.Value) error {
		s.enterIndex(i)
		defer s.leave()

		et, err := s.Resolver.ResolveComponentFromValue(e, t, 0)
		if err != nil {
			return s.annotate(err)
		}

		ev, err := s.DecodeTo(e, et, gt.Elem())
		if err != nil {
			return err
		}
		rv.Index(i).Set(ev)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}

	return rv, nil
}
