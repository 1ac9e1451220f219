// Package errors defines the failures reported by the codec and thin helpers
// over github.com/cockroachdb/errors, so that callers only need one import to
// create, wrap and inspect them.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies a decoder or encoder failure.
type Kind uint8

// List of failure kinds.
const (
	TypeMismatch Kind = iota + 1
	BadDateFormat
	NotInstantiable
	UnsupportedTypeShape
	UnknownClassTag
	UnsupportedValueType
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case BadDateFormat:
		return "bad date format"
	case NotInstantiable:
		return "not instantiable"
	case UnsupportedTypeShape:
		return "unsupported type shape"
	case UnknownClassTag:
		return "unknown class tag"
	case UnsupportedValueType:
		return "unsupported value type"
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// DecoderError is returned when a value tree cannot be turned into a Go value.
type DecoderError struct {
	Kind Kind
	// Message describes the failure.
	Message string
	// Value is the rendered text of the offending node, if any.
	Value string
	// Type is the name of the target type.
	Type string
	// Path locates the offending node from the root, e.g. $.items[2].
	Path  string
	Cause error
}

func (e *DecoderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("couldn't convert %s to %s", e.Value, e.Type)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *DecoderError) Unwrap() error {
	return e.Cause
}

// EncoderError is returned when a Go value cannot be turned into a value tree.
type EncoderError struct {
	Kind    Kind
	Message string
	Type    string
	Path    string
}

func (e *EncoderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("cannot encode value of type %s", e.Type)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// AlreadyExistsError is returned when a name is registered twice
// with different types.
type AlreadyExistsError struct {
	Name string
}

func (a AlreadyExistsError) Error() string {
	return fmt.Sprintf("%q already exists", a.Name)
}

// IsAlreadyExistsError reports whether err wraps an AlreadyExistsError.
func IsAlreadyExistsError(err error) bool {
	var ae AlreadyExistsError
	return errors.As(err, &ae)
}

// NewDecoderError returns a DecoderError with a stack attached.
func NewDecoderError(kind Kind, value, typ string, cause error, format string, args ...any) error {
	var msg string
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return errors.WithStack(&DecoderError{
		Kind:    kind,
		Message: msg,
		Value:   value,
		Type:    typ,
		Cause:   cause,
	})
}

// NewEncoderError returns an EncoderError with a stack attached.
func NewEncoderError(kind Kind, typ string, format string, args ...any) error {
	var msg string
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return errors.WithStack(&EncoderError{
		Kind:    kind,
		Message: msg,
		Type:    typ,
	})
}

// IsDecoderError reports whether err wraps a DecoderError of the given kind.
func IsDecoderError(err error, kind Kind) bool {
	var de *DecoderError
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == kind
}

// IsEncoderError reports whether err wraps an EncoderError of the given kind.
func IsEncoderError(err error, kind Kind) bool {
	var ee *EncoderError
	if !errors.As(err, &ee) {
		return false
	}
	return ee.Kind == kind
}

// New returns an error with a stack trace.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats an error with a stack trace. %w is supported.
func Errorf(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// Wrapf annotates err with a message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
