package types

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/exp/constraints"
)

var _ Value = NewNullValue()

// NullValue is the JSON null.
type NullValue struct{}

// NewNullValue returns a null value.
func NewNullValue() NullValue {
	return NullValue{}
}

func (NullValue) Type() Type     { return TypeNull }
func (NullValue) String() string { return "null" }

var _ Value = NewBooleanValue(false)

// BooleanValue is true or false.
type BooleanValue bool

// NewBooleanValue returns a boolean value.
func NewBooleanValue(x bool) BooleanValue {
	return BooleanValue(x)
}

func (v BooleanValue) Type() Type { return TypeBoolean }

func (v BooleanValue) String() string {
	return strconv.FormatBool(bool(v))
}

// NumberValue holds the decimal text of a number as it appeared in the source.
// It is only converted when a decoder consumes it.
type NumberValue string

// NewNumberValue formats x using the shortest representation that
// parses back to the same value.
func NewNumberValue[T constraints.Integer | constraints.Float](x T) NumberValue {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Float32:
		return NumberValue(strconv.FormatFloat(rv.Float(), 'g', -1, 32))
	case reflect.Float64:
		return NumberValue(strconv.FormatFloat(rv.Float(), 'g', -1, 64))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberValue(strconv.FormatInt(rv.Int(), 10))
	default:
		return NumberValue(strconv.FormatUint(rv.Uint(), 10))
	}
}

func (v NumberValue) Type() Type { return TypeNumber }

func (v NumberValue) String() string {
	return string(v)
}

// IsInteger returns true if the text has no fraction nor exponent.
func (v NumberValue) IsInteger() bool {
	return !strings.ContainsAny(string(v), ".eE")
}

// Int64 converts the number to an int64. Integral numbers written with
// a fraction or an exponent, like 2.0 or 1e3, are accepted.
func (v NumberValue) Int64() (int64, error) {
	i, err := jsonparser.ParseInt([]byte(v))
	if err == nil {
		return i, nil
	}
	if v.IsInteger() {
		return 0, err
	}

	f, ferr := v.Float64()
	if ferr != nil || f != float64(int64(f)) {
		return 0, err
	}
	return int64(f), nil
}

// Uint64 converts the number to an uint64.
func (v NumberValue) Uint64() (uint64, error) {
	// jsonparser only handles signed integers.
	u, err := strconv.ParseUint(string(v), 10, 64)
	if err == nil {
		return u, nil
	}

	i, ierr := v.Int64()
	if ierr != nil || i < 0 {
		return 0, err
	}
	return uint64(i), nil
}

// Float64 converts the number to a float64.
func (v NumberValue) Float64() (float64, error) {
	return jsonparser.ParseFloat([]byte(v))
}

var _ Value = NewTextValue("")

// TextValue is a JSON string.
type TextValue string

// NewTextValue returns a text value.
func NewTextValue(x string) TextValue {
	return TextValue(x)
}

func (v TextValue) Type() Type { return TypeText }

func (v TextValue) String() string {
	var sb strings.Builder
	writeQuoted(&sb, string(v), '"')
	return sb.String()
}
