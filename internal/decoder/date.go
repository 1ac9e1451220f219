package decoder

import (
	"reflect"
	"time"

	"github.com/dromara/carbon/v2"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

var timeType = reflect.TypeOf(time.Time{})

// DateDecoder decodes time.Time and the types defined over it.
// It accepts the tagged form {#class:'Date',#value:'2020-01-01 10:00:00'},
// the untagged wrapper {#value:...}, bare text, and a number of
// milliseconds since the Unix epoch.
type DateDecoder struct{}

func (DateDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	gt := typedesc.GoType(t)
	if !gt.ConvertibleTo(timeType) {
		return reflect.Value{}, s.mismatch(v, t, nil)
	}

	if obj, ok := v.(*types.ObjectValue); ok {
		if err := checkTag(s, v, t); err != nil {
			return reflect.Value{}, err
		}

		w, ok := obj.Lookup(types.ValueKey)
		if !ok {
			return reflect.Value{}, errors.NewDecoderError(errors.BadDateFormat, render(v), t.String(), nil,
				"date object without %s", types.ValueKey)
		}
		v = w
	}

	var tm time.Time
	switch x := v.(type) {
	case types.NullValue:
		return reflect.Zero(gt), nil
	case types.TextValue:
		var err error
		tm, err = parseDate(s, string(x))
		if err != nil {
			return reflect.Value{}, errors.NewDecoderError(errors.BadDateFormat, render(v), t.String(), err, "")
		}
	case types.NumberValue:
		ms, err := x.Int64()
		if err != nil {
			return reflect.Value{}, errors.NewDecoderError(errors.BadDateFormat, render(v), t.String(), err, "")
		}
		tm = carbon.CreateFromTimestampMilli(ms, s.Timezone).StdTime()
	default:
		return reflect.Value{}, s.mismatch(v, t, nil)
	}

	return reflect.ValueOf(tm).Convert(gt), nil
}

// parseDate parses text written with the canonical date layout,
// in the time zone of the state.
func parseDate(s *State, text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, errors.New("empty date")
	}

	c := carbon.ParseByLayout(text, types.DateLayout, s.Timezone)
	if c.Error != nil {
		return time.Time{}, c.Error
	}
	return c.StdTime(), nil
}
