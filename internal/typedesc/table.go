package typedesc

import (
	"reflect"
	"sync"
)

// Category groups Go types by shape. It is used to pick a strategy when
// none is registered for a type.
type Category uint8

// List of categories.
const (
	CategoryUnsupported Category = iota
	CategoryScalar
	CategoryPointer
	CategoryInterface
	CategoryCollection
	CategoryMap
	CategoryObject
)

func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryPointer:
		return "pointer"
	case CategoryInterface:
		return "interface"
	case CategoryCollection:
		return "collection"
	case CategoryMap:
		return "map"
	case CategoryObject:
		return "object"
	}

	return "unsupported"
}

// CategoryOf returns the category of t.
func CategoryOf(t reflect.Type) Category {
	if t == nil {
		return CategoryUnsupported
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return CategoryScalar
	case reflect.Pointer:
		return CategoryPointer
	case reflect.Interface:
		return CategoryInterface
	case reflect.Slice, reflect.Array:
		return CategoryCollection
	case reflect.Map:
		return CategoryMap
	case reflect.Struct:
		return CategoryObject
	}

	return CategoryUnsupported
}

type entry[S any] struct {
	t reflect.Type
	s S
}

// Table maps Go types to strategies. A lookup tries, in order:
// the exact type, the registered struct types the type converts to,
// the registered interfaces the type implements (in registration order),
// and finally the category of the type.
// It is safe for concurrent use.
type Table[S any] struct {
	exact      map[reflect.Type]S
	structs    []entry[S]
	ifaces     []entry[S]
	categories map[Category]S

	mu sync.RWMutex
}

// NewTable creates an empty table.
func NewTable[S any]() *Table[S] {
	return &Table[S]{
		exact:      make(map[reflect.Type]S),
		categories: make(map[Category]S),
	}
}

// Register sets the strategy of t. It returns true if a strategy
// was already registered for t and got replaced.
func (tb *Table[S]) Register(t reflect.Type, s S) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	_, replaced := tb.exact[t]
	tb.exact[t] = s

	switch t.Kind() {
	case reflect.Struct:
		tb.structs = upsert(tb.structs, t, s)
	case reflect.Interface:
		tb.ifaces = upsert(tb.ifaces, t, s)
	}

	return replaced
}

func upsert[S any](entries []entry[S], t reflect.Type, s S) []entry[S] {
	for i := range entries {
		if entries[i].t == t {
			entries[i].s = s
			return entries
		}
	}
	return append(entries, entry[S]{t: t, s: s})
}

// RegisterCategory sets the strategy used for the types of a category.
// It returns true if a strategy got replaced.
func (tb *Table[S]) RegisterCategory(c Category, s S) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	_, replaced := tb.categories[c]
	tb.categories[c] = s
	return replaced
}

// Lookup returns the strategy of t.
func (tb *Table[S]) Lookup(t reflect.Type) (S, bool) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	if s, ok := tb.exact[t]; ok {
		return s, true
	}

	if t != nil {
		if t.Kind() == reflect.Struct {
			for _, e := range tb.structs {
				if t.ConvertibleTo(e.t) {
					return e.s, true
				}
			}
		}

		for _, e := range tb.ifaces {
			if t.Kind() != reflect.Interface && t.Implements(e.t) {
				return e.s, true
			}
		}
	}

	s, ok := tb.categories[CategoryOf(t)]
	return s, ok
}
