package types

import (
	"strings"

	"github.com/chaisql/typedjson/errors"
)

// Field is a named value of an object.
type Field struct {
	Name  string
	Value Value
}

// FieldBuffer accumulates fields before an object is built.
// The zero value is ready to use.
type FieldBuffer struct {
	fields []Field
}

// NewFieldBuffer creates a FieldBuffer.
func NewFieldBuffer() *FieldBuffer {
	return new(FieldBuffer)
}

// Add a field to the buffer. If the field already exists, its value is
// replaced and it keeps its original position.
func (fb *FieldBuffer) Add(name string, v Value) *FieldBuffer {
	for i := range fb.fields {
		if fb.fields[i].Name == name {
			fb.fields[i].Value = v
			return fb
		}
	}

	fb.fields = append(fb.fields, Field{Name: name, Value: v})
	return fb
}

// Len returns the number of fields in the buffer.
func (fb *FieldBuffer) Len() int {
	return len(fb.fields)
}

var _ Value = NewObjectValue(nil)

// ObjectValue is an ordered mapping of keys to values.
// Fields are kept in insertion order.
type ObjectValue struct {
	fields []Field
}

// NewObjectValue returns an object holding a copy of the buffered fields.
// fb can be nil.
func NewObjectValue(fb *FieldBuffer) *ObjectValue {
	if fb == nil {
		return &ObjectValue{}
	}

	fields := make([]Field, len(fb.fields))
	copy(fields, fb.fields)
	return &ObjectValue{fields: fields}
}

func (o *ObjectValue) Type() Type { return TypeObject }

func (o *ObjectValue) String() string {
	var sb strings.Builder
	writeValue(&sb, o, '"')
	return sb.String()
}

// Len returns the number of fields.
func (o *ObjectValue) Len() int {
	return len(o.fields)
}

// Get returns the value of the given field.
// If the field does not exist, it returns ErrFieldNotFound.
func (o *ObjectValue) Get(name string) (Value, error) {
	v, ok := o.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrFieldNotFound, "%s not found", name)
	}
	return v, nil
}

// Lookup returns the value of the given field and whether it exists.
func (o *ObjectValue) Lookup(name string) (Value, bool) {
	for _, f := range o.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Iterate goes through all the fields of the object in insertion order.
func (o *ObjectValue) Iterate(fn func(field string, v Value) error) error {
	for _, f := range o.fields {
		if err := fn(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the field names in insertion order.
func (o *ObjectValue) Fields() []string {
	names := make([]string, len(o.fields))
	for i, f := range o.fields {
		names[i] = f.Name
	}
	return names
}

// Class returns the content of the #class field, if it is present and a text.
func (o *ObjectValue) Class() (string, bool) {
	v, ok := o.Lookup(ClassKey)
	if !ok {
		return "", false
	}
	tv, ok := v.(TextValue)
	if !ok {
		return "", false
	}
	return string(tv), true
}

// Wrapped returns the content of the #value field when the object only
// carries type metadata, i.e. #value and optionally #class.
func (o *ObjectValue) Wrapped() (Value, bool) {
	v, ok := o.Lookup(ValueKey)
	if !ok {
		return nil, false
	}
	for _, f := range o.fields {
		if f.Name != ClassKey && f.Name != ValueKey {
			return nil, false
		}
	}
	return v, true
}

// IsReserved reports whether name is one of the metadata keys.
func IsReserved(name string) bool {
	return name == ClassKey || name == ValueKey
}
