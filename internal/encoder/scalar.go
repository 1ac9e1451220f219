package encoder

import (
	"math"
	"reflect"
	"time"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/internal/types"
)

// ScalarEncoder encodes booleans, numbers and strings.
type ScalarEncoder struct{}

func (ScalarEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	switch v.Kind() {
	case reflect.Bool:
		return types.NewBooleanValue(v.Bool()), nil
	case reflect.String:
		return types.NewTextValue(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.NewNumberValue(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return types.NewNumberValue(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.NewEncoderError(errors.UnsupportedValueType, v.Type().String(), "cannot encode %v", f)
		}
		if v.Kind() == reflect.Float32 {
			return types.NewNumberValue(float32(f)), nil
		}
		return types.NewNumberValue(f), nil
	}

	return nil, s.unsupported(v.Type())
}

var timeType = reflect.TypeOf(time.Time{})

// DateEncoder encodes time.Time and the types defined over it as
// {#class: 'Date', #value: 'yyyy-MM-dd HH:mm:ss'} in the location of the
// state. With OmitClassTag, time.Time values are written as bare text;
// other date types keep their tag so they can be told apart.
type DateEncoder struct{}

func (DateEncoder) Encode(s *State, v reflect.Value) (types.Value, error) {
	if !v.Type().ConvertibleTo(timeType) {
		return nil, s.unsupported(v.Type())
	}

	tm := v.Convert(timeType).Interface().(time.Time)
	text := types.NewTextValue(tm.In(s.Location).Format(types.DateLayout))

	if v.Type() == timeType {
		if s.Features.Enabled(feature.OmitClassTag) {
			return text, nil
		}
		return wrap(catalog.DateName, text), nil
	}

	return wrap(s.Catalog().NameOf(v.Type()), text), nil
}

// wrap returns {#class: class, #value: v}.
func wrap(class string, v types.Value) *types.ObjectValue {
	fb := types.NewFieldBuffer().
		Add(types.ClassKey, types.NewTextValue(class)).
		Add(types.ValueKey, v)
	return types.NewObjectValue(fb)
}
