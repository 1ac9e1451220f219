// Package decoder turns value trees into Go values.
//
// Strategies are looked up by the Go type a descriptor materializes to:
// first the exact type, then the registered supertypes, then the
// category of the type (scalar, pointer, interface, collection, map, object).
package decoder

import (
	"reflect"
	"time"

	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
	"github.com/chaisql/typedjson/log"
)

// A Decoder materializes a value tree node as a value of the type
// described by t.
type Decoder interface {
	Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(s *State, v types.Value, t typedesc.Type) (reflect.Value, error)

func (f DecoderFunc) Decode(s *State, v types.Value, t typedesc.Type) (reflect.Value, error) {
	return f(s, v, t)
}

// Registry holds the decoding strategies.
// It is safe for concurrent use, though strategies are expected to be
// registered before the first decoding.
type Registry struct {
	table  *typedesc.Table[Decoder]
	logger log.Logger
}

// NewRegistry returns a registry with the built-in strategies.
func NewRegistry(logger log.Logger) *Registry {
	r := Registry{
		table:  typedesc.NewTable[Decoder](),
		logger: log.OrNop(logger),
	}

	r.table.Register(reflect.TypeOf(time.Time{}), DateDecoder{})
	r.table.Register(typedesc.OrderedMap.Go, MapDecoder{})

	r.table.RegisterCategory(typedesc.CategoryScalar, ScalarDecoder{})
	r.table.RegisterCategory(typedesc.CategoryPointer, PointerDecoder{})
	r.table.RegisterCategory(typedesc.CategoryInterface, InterfaceDecoder{})
	r.table.RegisterCategory(typedesc.CategoryCollection, CollectionDecoder{})
	r.table.RegisterCategory(typedesc.CategoryMap, MapDecoder{})
	r.table.RegisterCategory(typedesc.CategoryObject, ObjectDecoder{})

	return &r
}

// Register sets the strategy used for t. If t is an interface, the
// strategy is also used for the types implementing it. If t is a struct,
// it is also used for the types defined over it.
func (r *Registry) Register(t reflect.Type, d Decoder) {
	if r.table.Register(t, d) {
		r.logger.Debug("decoder replaced", log.Fields{"type": t.String()})
	}
}

// RegisterCategory sets the strategy used for the types of a category
// when no type specific strategy matches.
func (r *Registry) RegisterCategory(c typedesc.Category, d Decoder) {
	if r.table.RegisterCategory(c, d) {
		r.logger.Debug("decoder replaced", log.Fields{"category": c.String()})
	}
}

// Lookup returns the strategy used for t.
func (r *Registry) Lookup(t reflect.Type) (Decoder, bool) {
	return r.table.Lookup(t)
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// isEmptyInterface reports whether t is interface{}.
func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// unwrap returns the content of a {#value: ...} wrapper.
func unwrap(v types.Value) types.Value {
	if obj, ok := v.(*types.ObjectValue); ok {
		if w, ok := obj.Wrapped(); ok {
			return w
		}
	}
	return v
}

// checkTag makes sure the #class tag of a wrapper, if any, designates
// a type the wrapped value can be decoded to. Containers pass the raw
// types they are built from, e.g. a List tag is fine for []int.
func checkTag(s *State, v types.Value, t typedesc.Type, raw ...reflect.Type) error {
	obj, ok := v.(*types.ObjectValue)
	if !ok {
		return nil
	}
	tag, ok := obj.Class()
	if !ok {
		return nil
	}

	rt, err := s.Resolver.ResolveClass(tag, t)
	if err != nil {
		return err
	}
	gt := typedesc.GoType(t)
	if rt == gt || rt.ConvertibleTo(gt) {
		return nil
	}
	for _, r := range raw {
		if rt == r {
			return nil
		}
	}
	return s.mismatch(v, t, nil)
}
