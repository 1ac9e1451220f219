package decoder

import (
	"reflect"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/chaisql/typedjson/internal/scanner"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// ScalarDecoder decodes booleans, numbers and strings.
// Text holding a number is accepted for numeric types and text holding
// a boolean for booleans. Null decodes to the zero value.
type ScalarDecoder struct{}

func (ScalarDecoder) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	if err := checkTag(s, v, t); err != nil {
		return reflect.Value{}, err
	}
	v = unwrap(v)

	gt := typedesc.GoType(t)
	rv := reflect.New(gt).Elem()
	if types.IsNull(v) {
		return rv, nil
	}

	switch gt.Kind() {
	case reflect.Bool:
		switch x := v.(type) {
		case types.BooleanValue:
			rv.SetBool(bool(x))
			return rv, nil
		case types.TextValue:
			b, err := jsonparser.ParseBoolean([]byte(strings.TrimSpace(string(x))))
			if err != nil {
				return reflect.Value{}, s.mismatch(v, t, err)
			}
			rv.SetBool(b)
			return rv, nil
		}
	case reflect.String:
		switch x := v.(type) {
		case types.TextValue:
			rv.SetString(string(x))
			return rv, nil
		case types.NumberValue, types.BooleanValue:
			rv.SetString(x.String())
			return rv, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := numberOf(v)
		if !ok {
			break
		}
		i, err := n.Int64()
		if err != nil {
			return reflect.Value{}, s.mismatch(v, t, err)
		}
		if rv.OverflowInt(i) {
			return reflect.Value{}, s.mismatch(v, t, nil)
		}
		rv.SetInt(i)
		return rv, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := numberOf(v)
		if !ok {
			break
		}
		u, err := n.Uint64()
		if err != nil {
			return reflect.Value{}, s.mismatch(v, t, err)
		}
		if rv.OverflowUint(u) {
			return reflect.Value{}, s.mismatch(v, t, nil)
		}
		rv.SetUint(u)
		return rv, nil
	case reflect.Float32, reflect.Float64:
		n, ok := numberOf(v)
		if !ok {
			break
		}
		f, err := n.Float64()
		if err != nil {
			return reflect.Value{}, s.mismatch(v, t, err)
		}
		if rv.OverflowFloat(f) {
			return reflect.Value{}, s.mismatch(v, t, nil)
		}
		rv.SetFloat(f)
		return rv, nil
	}

	return reflect.Value{}, s.mismatch(v, t, nil)
}

// numberOf returns v as a number. Text is accepted only if, once
// trimmed, it is written like a number literal of the document.
func numberOf(v types.Value) (types.NumberValue, bool) {
	switch x := v.(type) {
	case types.NumberValue:
		return x, true
	case types.TextValue:
		text := strings.TrimSpace(string(x))
		if !scanner.IsNumber(text) {
			return "", false
		}
		return types.NumberValue(text), true
	}
	return "", false
}
