// Package feature defines the options controlling how values are encoded.
package feature

import (
	"strings"

	"github.com/chaisql/typedjson/errors"
)

// Feature is the name of an encoding option.
type Feature string

// List of supported features.
const (
	// UseSingleQuote wraps strings in single quotes and writes identifier
	// keys without quotes.
	UseSingleQuote Feature = "UseSingleQuote"
	// OmitClassTag removes #class from encoded objects and encodes
	// dates of the default date type as bare text.
	OmitClassTag Feature = "OmitClassTag"
	// OmitNullFields removes struct fields whose value is null.
	OmitNullFields Feature = "OmitNullFields"
)

// All lists the known features in bit order.
var All = []Feature{UseSingleQuote, OmitClassTag, OmitNullFields}

func (f Feature) bit() (Set, bool) {
	for i, k := range All {
		if k == f {
			return 1 << i, true
		}
	}
	return 0, false
}

// Set is an immutable set of enabled features.
// The zero value has every feature disabled.
type Set uint32

// New returns a set with the given features enabled.
func New(features ...Feature) (Set, error) {
	var s Set
	for _, f := range features {
		b, ok := f.bit()
		if !ok {
			return 0, errors.Errorf("unknown feature %q", string(f))
		}
		s |= b
	}
	return s, nil
}

// Parse returns a set from feature names.
func Parse(names ...string) (Set, error) {
	features := make([]Feature, len(names))
	for i, n := range names {
		features[i] = Feature(n)
	}
	return New(features...)
}

// MustNew calls New and panics on error.
func MustNew(features ...Feature) Set {
	s, err := New(features...)
	if err != nil {
		panic(err)
	}
	return s
}

// Enabled reports whether f is in the set. Unknown features are never enabled.
func (s Set) Enabled(f Feature) bool {
	b, ok := f.bit()
	return ok && s&b != 0
}

// Lookup returns the value of the named feature, false when it is not set.
func (s Set) Lookup(name string) (bool, error) {
	b, ok := Feature(name).bit()
	if !ok {
		return false, errors.Errorf("unknown feature %q", name)
	}
	return s&b != 0, nil
}

// With returns a copy of the set with more features enabled.
func (s Set) With(features ...Feature) (Set, error) {
	o, err := New(features...)
	if err != nil {
		return s, err
	}
	return s | o, nil
}

// Features returns the enabled features in bit order.
func (s Set) Features() []Feature {
	var out []Feature
	for _, f := range All {
		if s.Enabled(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range s.Features() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(f))
	}
	sb.WriteByte(']')
	return sb.String()
}
