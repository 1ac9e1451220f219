// Package typedesc describes the target types of a decoding: concrete Go
// types, containers with their type arguments, and unbound type parameters.
// It also resolves container arguments, #class tags and struct fields.
package typedesc

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/chaisql/typedjson/internal/types"
)

// Shape of a type descriptor.
type Shape uint8

// List of descriptor shapes.
const (
	ShapeNominal Shape = iota + 1
	ShapeParameterized
	ShapeVariable
)

func (s Shape) String() string {
	switch s {
	case ShapeNominal:
		return "nominal"
	case ShapeParameterized:
		return "parameterized"
	case ShapeVariable:
		return "variable"
	}

	return fmt.Sprintf("shape(%d)", uint8(s))
}

// Type describes a target type.
type Type interface {
	Shape() Shape
	String() string
}

// Nominal is a concrete, non parameterized type.
type Nominal struct {
	Name string
	Go   reflect.Type
}

func (Nominal) Shape() Shape { return ShapeNominal }

func (n Nominal) String() string {
	if n.Name != "" {
		return n.Name
	}
	if n.Go == nil {
		return "nil"
	}
	return n.Go.String()
}

// Parameterized is a container type with ordered type arguments.
// A pointer is used so that recursive Go types can refer to themselves.
type Parameterized struct {
	Raw  Type
	Args []Type
}

func (*Parameterized) Shape() Shape { return ShapeParameterized }

func (p *Parameterized) String() string {
	if p == nil || p.Raw == nil {
		return "<malformed>"
	}

	if p.Raw != List && p.Raw != OrderedMap {
		return p.Raw.String()
	}

	var sb strings.Builder
	sb.WriteString(p.Raw.String())
	sb.WriteByte('<')
	for i, a := range p.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a == nil {
			sb.WriteString("nil")
			continue
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// Variable is an unbound type parameter, like the T of List<T>.
// It cannot be materialized.
type Variable struct {
	Name string
}

func (Variable) Shape() Shape     { return ShapeVariable }
func (v Variable) String() string { return v.Name }

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Built-in descriptors.
var (
	// List is the raw list container, ListOf parameterizes it.
	List = Nominal{Name: "List", Go: reflect.TypeOf([]any(nil))}
	// OrderedMap is the raw ordered map container, MapOf parameterizes it.
	OrderedMap = Nominal{Name: "OrderedMap", Go: reflect.TypeOf((*types.Map)(nil))}
	// Fallback is used when the type argument of a container is unknown.
	Fallback = Nominal{Name: "Map", Go: reflect.TypeOf(map[string]any(nil))}
	// Any accepts any value.
	Any = Nominal{Name: "Object", Go: anyType}

	String  = Nominal{Name: "String", Go: reflect.TypeOf("")}
	Integer = Nominal{Name: "Integer", Go: reflect.TypeOf(int(0))}
	Long    = Nominal{Name: "Long", Go: reflect.TypeOf(int64(0))}
	Double  = Nominal{Name: "Double", Go: reflect.TypeOf(float64(0))}
	Boolean = Nominal{Name: "Boolean", Go: reflect.TypeOf(false)}
	Date    = Nominal{Name: "Date", Go: reflect.TypeOf(time.Time{})}
)

// ListOf returns the descriptor of a list of elem.
func ListOf(elem Type) *Parameterized {
	return &Parameterized{Raw: List, Args: []Type{elem}}
}

// MapOf returns the descriptor of an insertion ordered map.
func MapOf(key, value Type) *Parameterized {
	return &Parameterized{Raw: OrderedMap, Args: []Type{key, value}}
}

// Of derives a descriptor from a Go type. Slices and arrays get one
// argument, maps get two. Everything else is nominal.
func Of(t reflect.Type) Type {
	if t == nil {
		return Any
	}

	return of(t, make(map[reflect.Type]*Parameterized))
}

func of(t reflect.Type, seen map[reflect.Type]*Parameterized) Type {
	if p, ok := seen[t]; ok {
		return p
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		p := &Parameterized{Raw: Nominal{Go: t}}
		seen[t] = p
		p.Args = []Type{of(t.Elem(), seen)}
		return p
	case reflect.Map:
		p := &Parameterized{Raw: Nominal{Go: t}}
		seen[t] = p
		p.Args = []Type{of(t.Key(), seen), of(t.Elem(), seen)}
		return p
	}

	return Nominal{Go: t}
}

var ofCache sync.Map // reflect.Type -> Type

// Cached is Of, memoized. Descriptors are never modified once built.
func Cached(t reflect.Type) Type {
	if t == nil {
		return Any
	}
	if d, ok := ofCache.Load(t); ok {
		return d.(Type)
	}
	d, _ := ofCache.LoadOrStore(t, Of(t))
	return d.(Type)
}

// GoType returns the Go type materialized for t.
// Variables and malformed descriptors materialize as interface{}.
func GoType(t Type) reflect.Type {
	switch x := t.(type) {
	case Nominal:
		if x.Go == nil {
			return anyType
		}
		return x.Go
	case *Parameterized:
		if x == nil || x.Raw == nil {
			return anyType
		}
		switch x.Raw {
		case List:
			return reflect.SliceOf(SlotType(argOr(x, 0)))
		case OrderedMap:
			return OrderedMap.Go
		}
		return GoType(x.Raw)
	}

	return anyType
}

// SlotType returns the Go type of a container element declared as t.
// Elements of unknown type can hold any natural value.
func SlotType(t Type) reflect.Type {
	if t == Fallback {
		return anyType
	}
	return GoType(t)
}

// argOr returns the i-th argument of p, or Fallback.
func argOr(p *Parameterized, i int) Type {
	if i < 0 || i >= len(p.Args) || p.Args[i] == nil {
		return Fallback
	}
	return p.Args[i]
}

// IsPlaceholder reports whether t stands for a container without a Go
// counterpart of its own, i.e. ListOf and MapOf descriptors.
func IsPlaceholder(t Type) bool {
	p, ok := t.(*Parameterized)
	return ok && p != nil && (p.Raw == List || p.Raw == OrderedMap)
}
