package decoder

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
	"github.com/chaisql/typedjson/log"
)

// State holds what a decoding needs. A State must not be shared between
// concurrent decodings.
type State struct {
	Registry *Registry
	Resolver *typedesc.Resolver
	// Timezone is the name of the location dates are parsed in.
	Timezone string
	Location *time.Location

	path []string
}

// NewState returns a state for one decoding. Dates are parsed in loc.
func NewState(reg *Registry, res *typedesc.Resolver, loc *time.Location) *State {
	if loc == nil {
		loc = time.UTC
	}

	return &State{
		Registry: reg,
		Resolver: res,
		Timezone: loc.String(),
		Location: loc,
	}
}

// Decode materializes v as a value of the type described by t,
// using the strategy registered for that type.
func (s *State) Decode(v types.Value, t typedesc.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, s.annotate(errors.NewDecoderError(errors.UnsupportedTypeShape, render(v), "nil", nil, "no target type"))
	}
	if t.Shape() == typedesc.ShapeVariable {
		s.Resolver.Logger.Warn("unbound type variable, decoding as interface{}", log.Fields{
			"type": t.String(),
			"path": s.Path(),
		})
		t = typedesc.Any
	}

	gt := typedesc.GoType(t)
	d, ok := s.Registry.Lookup(gt)
	if !ok {
		return reflect.Value{}, s.annotate(s.mismatch(v, t, nil))
	}

	rv, err := d.Decode(s, v, t)
	if err != nil {
		return reflect.Value{}, s.annotate(err)
	}
	return rv, nil
}

// DecodeTo decodes v and converts the result so it can be stored
// in a location of type to.
func (s *State) DecodeTo(v types.Value, t typedesc.Type, to reflect.Type) (reflect.Value, error) {
	rv, err := s.Decode(v, t)
	if err != nil {
		return reflect.Value{}, err
	}

	av, err := s.assign(rv, to)
	if err != nil {
		return reflect.Value{}, s.annotate(s.mismatch(v, typedesc.Cached(to), err))
	}
	return av, nil
}

// assign converts rv so that it can be stored in a location of type to.
func (s *State) assign(rv reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !rv.IsValid() {
		return reflect.Zero(to), nil
	}

	from := rv.Type()
	switch {
	case from.AssignableTo(to):
		return rv, nil
	case to.Kind() == reflect.Pointer && from.AssignableTo(to.Elem()):
		p := reflect.New(to.Elem())
		p.Elem().Set(rv)
		return p, nil
	case from.Kind() == reflect.Pointer && !rv.IsNil() && from.Elem().AssignableTo(to):
		return rv.Elem(), nil
	case from.Kind() == reflect.Struct && to.Kind() == reflect.Struct && from.ConvertibleTo(to):
		return rv.Convert(to), nil
	case to.Kind() == reflect.Interface && reflect.PointerTo(from).Implements(to):
		p := reflect.New(from)
		p.Elem().Set(rv)
		return p, nil
	}

	return reflect.Value{}, errors.Errorf("cannot assign %s to %s", from, to)
}

// Path returns the location of the node being decoded, e.g. $.items[2].
func (s *State) Path() string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, p := range s.path {
		sb.WriteString(p)
	}
	return sb.String()
}

func (s *State) enterField(name string) {
	s.path = append(s.path, "."+name)
}

func (s *State) enterIndex(i int) {
	s.path = append(s.path, "["+strconv.Itoa(i)+"]")
}

func (s *State) leave() {
	s.path = s.path[:len(s.path)-1]
}

// annotate sets the path of a DecoderError, if it's not already set.
func (s *State) annotate(err error) error {
	var de *errors.DecoderError
	if errors.As(err, &de) && de.Path == "" {
		de.Path = s.Path()
	}
	return err
}

// mismatch returns a TypeMismatch error.
func (s *State) mismatch(v types.Value, t typedesc.Type, cause error) error {
	name := "nil"
	if t != nil {
		name = t.String()
	}
	return errors.NewDecoderError(errors.TypeMismatch, render(v), name, cause, "")
}

// render returns a short text of v for error messages.
func render(v types.Value) string {
	if v == nil {
		return "null"
	}

	const max = 64
	text := v.String()
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
