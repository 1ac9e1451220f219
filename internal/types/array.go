package types

import "strings"

var _ Value = NewArrayValue()

// ArrayValue is an ordered sequence of values.
type ArrayValue struct {
	values []Value
}

// NewArrayValue returns an array holding a copy of values.
func NewArrayValue(values ...Value) *ArrayValue {
	vs := make([]Value, len(values))
	copy(vs, values)
	return &ArrayValue{values: vs}
}

func (a *ArrayValue) Type() Type { return TypeArray }

func (a *ArrayValue) String() string {
	var sb strings.Builder
	writeValue(&sb, a, '"')
	return sb.String()
}

// Len returns the number of elements.
func (a *ArrayValue) Len() int {
	return len(a.values)
}

// At returns the element at index i. It panics if i is out of range.
func (a *ArrayValue) At(i int) Value {
	return a.values[i]
}

// Iterate goes through all the elements in order.
func (a *ArrayValue) Iterate(fn func(i int, v Value) error) error {
	for i, v := range a.values {
		if err := fn(i, v); err != nil {
			return err
		}
	}
	return nil
}
