package decoder

import (
	"reflect"

	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// MapDecoder decodes objects into Go maps and ordered maps.
// Keys are converted to the key type of the descriptor, values are
// decoded using its value type. The #class key is not part of the entries,
// a #class tag must name the target type or Map.
// Under the fallback descriptor, values that are not objects decode to
// their natural Go value.
type MapDecoder struct{}

func (MapDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if types.IsNull(v) {
		return reflect.Zero(gt), nil
	}

	if t == typedesc.Fallback {
		if _, ok := v.(*types.ObjectValue); !ok {
			return s.Decode(v, typedesc.Any)
		}
	}

	obj, ok := v.(*types.ObjectValue)
	if !ok {
		return reflect.Value{}, s.mismatch(v, t, nil)
	}
	if err := checkTag(s, v, t, typedesc.Fallback.Go, typedesc.OrderedMap.Go); err != nil {
		return reflect.Value{}, err
	}
	if w, ok := obj.Wrapped(); ok {
		if wo, ok := w.(*types.ObjectValue); ok {
			obj = wo
		}
	}

	if _, ok := t.(typedesc.Nominal); ok && gt != typedesc.OrderedMap.Go {
		t = typedesc.Cached(gt)
	}

	kt, err := s.Resolver.ResolveComponent(t, 0)
	if err != nil {
		return reflect.Value{}, err
	}

	ordered := gt == typedesc.OrderedMap.Go
	var om *types.Map
	var rv reflect.Value
	if ordered {
		om = types.NewMap()
		rv = reflect.ValueOf(om)
	} else {
		rv = reflect.MakeMapWithSize(gt, obj.Len())
	}

	err = obj.Iterate(func(name string, e types.Value) error {
		if name == types.ClassKey {
			return nil
		}

		s.enterField(name)
		defer s.leave()

		k, err := decodeKey(s, name, kt, gt, ordered)
		if err != nil {
			return err
		}

		vt, err := s.Resolver.ResolveComponentFromValue(e, t, 1)
		if err != nil {
			return s.annotate(err)
		}

		if ordered {
			ev, err := s.DecodeTo(e, vt, typedesc.SlotType(vt))
			if err != nil {
				return err
			}
			om.Set(k.Interface(), ev.Interface())
			return nil
		}

		ev, err := s.DecodeTo(e, vt, gt.Elem())
		if err != nil {
			return err
		}
		rv.SetMapIndex(k, ev)
		return nil
	})
	if err != nil {
		return reflect.Value{}, err
	}

	return rv, nil
}

// decodeKey converts an object key to the key type of the map.
// Keys of unknown or interface type are kept as strings.
func decodeKey(s *State, name string, kt typedesc.Type, gt reflect.Type, ordered bool) (reflect.Value, error) {
	key := types.NewTextValue(name)

	if kt == typedesc.Fallback || kt == typedesc.Any || typedesc.GoType(kt).Kind() == reflect.Interface {
		if ordered {
			return reflect.ValueOf(name), nil
		}
		return s.DecodeTo(key, typedesc.String, gt.Key())
	}

	if typedesc.CategoryOf(typedesc.GoType(kt)) != typedesc.CategoryScalar {
		return reflect.Value{}, s.annotate(s.mismatch(key, kt, nil))
	}

	if ordered {
		return s.Decode(key, kt)
	}
	return s.DecodeTo(key, kt, gt.Key())
}
