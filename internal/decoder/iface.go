package decoder

import (
	"reflect"

	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// InterfaceDecoder decodes values into interface types.
// A #class tag designates the concrete type. Without tag, interface{}
// receives the natural Go value of the node (nested tags are honored),
// other interfaces get their registered default implementation.
type InterfaceDecoder struct{}

func (InterfaceDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if types.IsNull(v) {
		return reflect.Zero(gt), nil
	}

	if obj, ok := v.(*types.ObjectValue); ok {
		if tag, ok := obj.Class(); ok {
			rt, err := s.Resolver.ResolveClass(tag, t)
			if err != nil {
				return reflect.Value{}, err
			}
			if rt.Kind() != reflect.Interface {
				return s.DecodeTo(v, typedesc.Cached(rt), gt)
			}
			// the tag names an interface, use its default implementation
			t, gt = typedesc.Cached(rt), rt
		}
	}

	if isEmptyInterface(gt) {
		return decodeNatural(s, v)
	}

	impl, err := s.Resolver.ConcreteType(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return s.DecodeTo(v, typedesc.Cached(impl), gt)
}

// decodeNatural decodes v to nil, bool, int64, float64, string,
// []any or map[string]any.
func decodeNatural(s *State, v types.Value) (reflect.Value, error) {
	switch x := v.(type) {
	case types.NullValue:
		return reflect.Zero(anyType), nil
	case types.BooleanValue, types.TextValue:
		return reflect.ValueOf(types.Natural(x)), nil
	case types.NumberValue:
		if x.IsInteger() {
			if i, err := x.Int64(); err == nil {
				return reflect.ValueOf(i), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return reflect.Value{}, s.mismatch(v, typedesc.Any, err)
		}
		return reflect.ValueOf(f), nil
	case *types.ArrayValue:
		out := make([]any, x.Len())
		err := x.Iterate(func(i int, e types.Value) error {
			s.enterIndex(i)
			defer s.leave()

			ev, err := s.DecodeTo(e, typedesc.Any, anyType)
			if err != nil {
				return err
			}
			if ev.IsValid() {
				out[i] = ev.Interface()
			}
			return nil
		})
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(out), nil
	case *types.ObjectValue:
		if w, ok := x.Wrapped(); ok {
			return s.Decode(w, typedesc.Any)
		}

		out := make(map[string]any, x.Len())
		err := x.Iterate(func(name string, e types.Value) error {
			if types.IsReserved(name) {
				return nil
			}

			s.enterField(name)
			defer s.leave()

			ev, err := s.DecodeTo(e, typedesc.Any, anyType)
			if err != nil {
				return err
			}
			if ev.IsValid() {
				out[name] = ev.Interface()
			}
			return nil
		})
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(out), nil
	}

	return reflect.Value{}, s.mismatch(v, typedesc.Any, nil)
}
