package decoder

import (
	"reflect"

	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// ObjectDecoder decodes objects into structs.
// A #class tag designating another type redirects the decoding to that
// type. Fields are matched by name, exactly then ignoring case, and
// decoded using their declared type. Unknown fields are ignored.
type ObjectDecoder struct{}

func (ObjectDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if types.IsNull(v) {
		return reflect.Zero(gt), nil
	}

	obj, ok := v.(*types.ObjectValue)
	if !ok {
		return reflect.Value{}, s.mismatch(v, t, nil)
	}

	if tag, ok := obj.Class(); ok {
		rt, err := s.Resolver.ResolveClass(tag, t)
		if err != nil {
			return reflect.Value{}, err
		}
		if rt != gt && !implements(gt, rt) {
			return s.DecodeTo(v, typedesc.Cached(rt), gt)
		}
	}

	rv := reflect.New(gt).Elem()
	plan := s.Resolver.Fields(gt)

	err := obj.Iterate(func(name string, e types.Value) error {
		if types.IsReserved(name) {
			return nil
		}

		f, ok := plan.Lookup(name)
		if !ok {
			return nil
		}

		s.enterField(name)
		defer s.leave()

		dst := rv.FieldByIndex(f.Index)
		fv, err := s.DecodeTo(e, f.Type, dst.Type())
		if err != nil {
			return err
		}
		dst.Set(fv)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}

	return rv, nil
}

// implements reports whether t or *t implements the interface iface.
func implements(t, iface reflect.Type) bool {
	if iface.Kind() != reflect.Interface {
		return false
	}
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}
