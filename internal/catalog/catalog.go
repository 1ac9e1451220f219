// Package catalog maps the class names found in #class tags to Go types,
// and interfaces to the concrete types used to instantiate them.
package catalog

import (
	"reflect"
	"sync"
	"time"

	"github.com/chaisql/typedjson/errors"
)

// Names of the built-in classes.
const (
	DateName    = "Date"
	StringName  = "String"
	IntegerName = "Integer"
	LongName    = "Long"
	DoubleName  = "Double"
	BooleanName = "Boolean"
	ListName    = "List"
	MapName     = "Map"
)

// Catalog holds the registered class names and default implementations.
// It is safe for concurrent use.
type Catalog struct {
	byName   map[string]reflect.Type
	byType   map[reflect.Type]string
	defaults map[reflect.Type]reflect.Type

	mu sync.RWMutex
}

// New returns a catalog with the built-in classes registered.
func New() *Catalog {
	c := &Catalog{
		byName:   make(map[string]reflect.Type),
		byType:   make(map[reflect.Type]string),
		defaults: make(map[reflect.Type]reflect.Type),
	}

	builtins := []struct {
		name string
		t    reflect.Type
	}{
		{DateName, reflect.TypeOf(time.Time{})},
		{StringName, reflect.TypeOf("")},
		{IntegerName, reflect.TypeOf(int(0))},
		{LongName, reflect.TypeOf(int64(0))},
		{DoubleName, reflect.TypeOf(float64(0))},
		{BooleanName, reflect.TypeOf(false)},
		{ListName, reflect.TypeOf([]any(nil))},
		{MapName, reflect.TypeOf(map[string]any(nil))},
	}
	for _, b := range builtins {
		c.byName[b.name] = b.t
		c.byType[b.t] = b.name
	}

	return c
}

// Clone returns a copy of the catalog. Registrations made on the copy
// are not visible from c.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := &Catalog{
		byName:   make(map[string]reflect.Type, len(c.byName)),
		byType:   make(map[reflect.Type]string, len(c.byType)),
		defaults: make(map[reflect.Type]reflect.Type, len(c.defaults)),
	}
	for k, v := range c.byName {
		clone.byName[k] = v
	}
	for k, v := range c.byType {
		clone.byType[k] = v
	}
	for k, v := range c.defaults {
		clone.defaults[k] = v
	}

	return clone
}

// Register associates a class name with a Go type.
// Registering the same pair twice is a no-op, registering a name that is
// already associated with another type returns an AlreadyExistsError.
// A type registered under several names is encoded using the first one.
func (c *Catalog) Register(name string, t reflect.Type) error {
	if name == "" {
		return errors.New("class name cannot be empty")
	}
	if t == nil {
		return errors.Errorf("cannot register nil type for class %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.byName[name]; ok {
		if old == t {
			return nil
		}
		return errors.WithStack(errors.AlreadyExistsError{Name: name})
	}

	c.byName[name] = t
	if _, ok := c.byType[t]; !ok {
		c.byType[t] = name
	}

	return nil
}

// Lookup returns the type registered under name.
func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.byName[name]
	return t, ok
}

// NameOf returns the class name of t: its registered name if any,
// otherwise its qualified Go name.
func (c *Catalog) NameOf(t reflect.Type) string {
	c.mu.RLock()
	name, ok := c.byType[t]
	c.mu.RUnlock()
	if ok {
		return name
	}

	return QualifiedName(t)
}

// QualifiedName returns the import path qualified name of a defined type,
// e.g. github.com/acme/shop.Order, or the Go syntax of an unnamed type.
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// RegisterDefault sets the concrete type instantiated when decoding into
// the iface interface type without a #class tag.
func (c *Catalog) RegisterDefault(iface, impl reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errors.Errorf("%s is not an interface type", QualifiedName(iface))
	}
	if impl == nil || impl.Kind() == reflect.Interface {
		return errors.Errorf("%s is not a concrete type", QualifiedName(impl))
	}
	if !impl.Implements(iface) {
		return errors.Errorf("%s does not implement %s", QualifiedName(impl), QualifiedName(iface))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.defaults[iface] = impl
	return nil
}

// DefaultImpl returns the concrete type registered for iface.
func (c *Catalog) DefaultImpl(iface reflect.Type) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.defaults[iface]
	return t, ok
}
