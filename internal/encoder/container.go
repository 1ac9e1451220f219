package encoder

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/internal/types"
)

// PointerEncoder encodes pointers and interfaces as the value they
// refer to. Nil encodes to null. Reference cycles are reported.
type PointerEncoder struct{}

func (PointerEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	if v.IsNil() {
		return types.NewNullValue(), nil
	}

	if v.Kind() == reflect.Interface {
		return s.Encode(v.Elem())
	}

	ptr := v.Pointer()
	if !s.enter(ptr) {
		return nil, s.cycle(v.Type())
	}
	defer s.exit(ptr)

	return s.Encode(v.Elem())
}

// CollectionEncoder encodes slices and arrays as arrays.
// A nil slice encodes to null.
type CollectionEncoder struct{}

func (CollectionEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			return types.NewNullValue(), nil
		}
		if v.Len() > 0 {
			ptr := v.Pointer()
			if !s.enter(ptr) {
				return nil, s.cycle(v.Type())
			}
			defer s.exit(ptr)
		}
	}

	values := make([]types.Value, v.Len())
	for i := range values {
		s.enterIndex(i)
		ev, err := s.Encode(v.Index(i))
		s.leave()
		if err != nil {
			return nil, err
		}
		values[i] = ev
	}

	return types.NewArrayValue(values...), nil
}

// MapEncoder encodes Go maps as objects. Keys are written in sorted order
// so that the output is stable.
type MapEncoder struct{}

func (MapEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	if v.IsNil() {
		return types.NewNullValue(), nil
	}

	ptr := v.Pointer()
	if !s.enter(ptr) {
		return nil, s.cycle(v.Type())
	}
	defer s.exit(ptr)

	type entry struct {
		key string
		v   reflect.Value
	}

	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := keyString(iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: k, v: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	fb := types.NewFieldBuffer()
	for _, e := range entries {
		if err := s.addField(fb, e.key, e.v, false); err != nil {
			return nil, err
		}
	}

	return types.NewObjectValue(fb), nil
}

// OrderedMapEncoder encodes *types.Map as an object, keeping the
// insertion order.
type OrderedMapEncoder struct{}

func (OrderedMapEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	m, ok := v.Interface().(*types.Map)
	if !ok {
		return nil, s.unsupported(v.Type())
	}
	if m == nil {
		return types.NewNullValue(), nil
	}

	fb := types.NewFieldBuffer()
	err := m.Iterate(func(k, val any) error {
		key, err := keyString(reflect.ValueOf(k))
		if err != nil {
			return err
		}
		return s.addField(fb, key, reflect.ValueOf(val), false)
	})
	if err != nil {
		return nil, err
	}

	return types.NewObjectValue(fb), nil
}

// ObjectEncoder encodes structs as objects. Unless OmitClassTag is set,
// the class name of the struct is written first under #class. Fields
// follow in declaration order.
type ObjectEncoder struct{}

func (ObjectEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	fb := types.NewFieldBuffer()
	if !s.Features.Enabled(feature.OmitClassTag) {
		fb.Add(types.ClassKey, types.NewTextValue(s.Catalog().NameOf(v.Type())))
	}

	plan := s.Resolver.Fields(v.Type())
	for _, f := range plan.Fields {
		fv := v.FieldByIndex(f.Index)
		if f.OmitEmpty && fv.IsZero() {
			continue
		}
		if err := s.addField(fb, f.Name, fv, true); err != nil {
			return nil, err
		}
	}

	return types.NewObjectValue(fb), nil
}

// addField encodes v and adds it to fb under name. Null values of
// struct fields are dropped when OmitNullFields is set.
func (s *State) addField(fb *types.FieldBuffer, name string, v reflect.Value, omitNull bool) error {
	s.enterField(name)
	defer s.leave()

	ev, err := s.Encode(v)
	if err != nil {
		return err
	}
	if omitNull && types.IsNull(ev) && s.Features.Enabled(feature.OmitNullFields) {
		return nil
	}
	fb.Add(name, ev)
	return nil
}

// keyString returns the text of a map key. Only scalar keys are supported.
func keyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return string(types.NewNumberValue(k.Float())), nil
	}

	var typ string
	if k.IsValid() {
		typ = k.Type().String()
	} else {
		typ = "nil"
	}
	return "", errors.NewEncoderError(errors.UnsupportedValueType, typ, "cannot encode map key of type %s", typ)
}

func (s *State) cycle(t reflect.Type) error {
	return errors.NewEncoderError(errors.UnsupportedValueType, t.String(), "cycle detected through %s", t)
}
