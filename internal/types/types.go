// Package types defines the value tree: the parsed, untyped representation of a
// tagged JSON document. Values are never mutated once built.
package types

import (
	"fmt"

	"github.com/chaisql/typedjson/errors"
)

var (
	// ErrFieldNotFound must be returned by object lookups when the field doesn't exist.
	ErrFieldNotFound = errors.New("field not found")
)

// Reserved object keys carrying type metadata.
const (
	ClassKey = "#class"
	ValueKey = "#value"
)

// DateLayout is the canonical text form of dates.
const DateLayout = "2006-01-02 15:04:05"

// Type represents the kind of a node of the value tree.
type Type uint8

// List of supported types.
const (
	TypeNull Type = iota + 1
	TypeBoolean
	TypeNumber
	TypeText
	TypeArray
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeText:
		return "text"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}

	panic(fmt.Sprintf("unsupported type %#v", t))
}

// Value is a node of the value tree.
type Value interface {
	Type() Type
	// String renders the value as double quoted JSON.
	String() string
}

// IsNull returns true if v is nil or a null value.
func IsNull(v Value) bool {
	return v == nil || v.Type() == TypeNull
}
