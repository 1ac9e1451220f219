// Package encoder turns Go values into value trees.
//
// Strategies are looked up like decoding strategies: exact type first,
// then registered supertypes, then the category of the type.
package encoder

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
	"github.com/chaisql/typedjson/log"
)

// An Encoder turns a Go value into a value tree node.
type Encoder interface {
	Encode(s *State, v reflect.Value) (types.Value, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(s *State, v reflect.Value) (types.Value, error)

func (f EncoderFunc) Encode(s *State, v reflect.Value) (types.Value, error) {
	return f(s, v)
}

// Registry holds the encoding strategies.
type Registry struct {
	table  *typedesc.Table[Encoder]
	logger log.Logger
}

// NewRegistry returns a registry with the built-in strategies.
func NewRegistry(logger log.Logger) *Registry {
	r := Registry{
		table:  typedesc.NewTable[Encoder](),
		logger: log.OrNop(logger),
	}

	r.table.Register(reflect.TypeOf(time.Time{}), DateEncoder{})
	r.table.Register(typedesc.OrderedMap.Go, OrderedMapEncoder{})

	r.table.RegisterCategory(typedesc.CategoryScalar, ScalarEncoder{})
	r.table.RegisterCategory(typedesc.CategoryPointer, PointerEncoder{})
	r.table.RegisterCategory(typedesc.CategoryInterface, PointerEncoder{})
	r.table.RegisterCategory(typedesc.CategoryCollection, CollectionEncoder{})
	r.table.RegisterCategory(typedesc.CategoryMap, MapEncoder{})
	r.table.RegisterCategory(typedesc.CategoryObject, ObjectEncoder{})

	return &r
}

// Register sets the strategy used for t and, for interfaces and
// structs, for the types implementing or defined over t.
func (r *Registry) Register(t reflect.Type, e Encoder) {
	if r.table.Register(t, e) {
		r.logger.Debug("encoder replaced", log.Fields{"type": t.String()})
	}
}

// RegisterCategory sets the strategy used for the types of a category.
func (r *Registry) RegisterCategory(c typedesc.Category, e Encoder) {
	if r.table.RegisterCategory(c, e) {
		r.logger.Debug("encoder replaced", log.Fields{"category": c.String()})
	}
}

// Lookup returns the strategy used for t.
func (r *Registry) Lookup(t reflect.Type) (Encoder, bool) {
	return r.table.Lookup(t)
}

// State holds what an encoding needs. A State must not be shared
// between concurrent encodings.
type State struct {
	Registry *Registry
	Resolver *typedesc.Resolver
	Features feature.Set
	// Location dates are written in.
	Location *time.Location

	path []string
	seen map[uintptr]struct{}
}

// NewState returns a state for one encoding.
func NewState(reg *Registry, res *typedesc.Resolver, features feature.Set, loc *time.Location) *State {
	if loc == nil {
		loc = time.UTC
	}

	return &State{
		Registry: reg,
		Resolver: res,
		Features: features,
		Location: loc,
		seen:     make(map[uintptr]struct{}),
	}
}

// Catalog returns the catalog class names are taken from.
func (s *State) Catalog() *catalog.Catalog {
	return s.Resolver.Catalog
}

// Encode turns v into a value tree node using the strategy registered
// for its type. An invalid value encodes to null.
func (s *State) Encode(v reflect.Value) (types.Value, error) {
	if !v.IsValid() {
		return types.NewNullValue(), nil
	}

	e, ok := s.Registry.Lookup(v.Type())
	if !ok {
		return nil, s.annotate(s.unsupported(v.Type()))
	}

	tv, err := e.Encode(s, v)
	if err != nil {
		return nil, s.annotate(err)
	}
	return tv, nil
}

// enter marks a reference as being encoded. It returns false if it
// already is, i.e. the value graph has a cycle.
func (s *State) enter(ptr uintptr) bool {
	if _, ok := s.seen[ptr]; ok {
		return false
	}
	s.seen[ptr] = struct{}{}
	return true
}

func (s *State) exit(ptr uintptr) {
	delete(s.seen, ptr)
}

// Path returns the location of the value being encoded.
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

func (s *State) annotate(err error) error {
	var ee *errors.EncoderError
	if errors.As(err, &ee) && ee.Path == "" {
		ee.Path = s.Path()
	}
	return err
}

func (s *State) unsupported(t reflect.Type) error {
	return errors.NewEncoderError(errors.UnsupportedValueType, t.String(), "")
}
