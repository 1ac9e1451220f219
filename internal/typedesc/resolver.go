package typedesc

import (
	"reflect"

	"github.com/dgraph-io/ristretto"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/types"
	"github.com/chaisql/typedjson/log"
)

// Resolver computes the concrete types needed to materialize values.
// It is safe for concurrent use.
type Resolver struct {
	Catalog *catalog.Catalog
	Logger  log.Logger

	plans *ristretto.Cache
}

// NewResolver creates a resolver. Struct field plans are cached in a cache
// holding up to planCacheSize plans. If planCacheSize is 0, plans are
// computed on every call.
func NewResolver(c *catalog.Catalog, logger log.Logger, planCacheSize int64) (*Resolver, error) {
	if c == nil {
		c = catalog.New()
	}
	if planCacheSize < 0 {
		return nil, errors.Errorf("invalid plan cache size %d", planCacheSize)
	}

	r := Resolver{
		Catalog: c,
		Logger:  log.OrNop(logger),
	}

	if planCacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: planCacheSize * 10,
			MaxCost:     planCacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "cannot create plan cache")
		}
		r.plans = cache
	}

	return &r, nil
}

// Close releases the plan cache.
func (r *Resolver) Close() {
	if r.plans != nil {
		r.plans.Close()
	}
}

// ResolveComponent returns the type argument of t at index i.
// Nominal types have no argument information and resolve to Fallback,
// as do missing arguments. Malformed descriptors are logged and resolve
// to Fallback too. Other shapes cannot be resolved.
func (r *Resolver) ResolveComponent(t Type, i int) (Type, error) {
	switch x := t.(type) {
	case Nominal:
		return Fallback, nil
	case *Parameterized:
		if x == nil || x.Raw == nil {
			r.Logger.Warn("malformed type descriptor, using fallback", log.Fields{
				"index": i,
			})
			return Fallback, nil
		}
		if i < 0 || i >= len(x.Args) {
			return Fallback, nil
		}
		if x.Args[i] == nil {
			r.Logger.Warn("malformed type descriptor, using fallback", log.Fields{
				"type":  x.String(),
				"index": i,
			})
			return Fallback, nil
		}
		return x.Args[i], nil
	}

	name := "nil"
	if t != nil {
		name = t.String()
	}
	return nil, errors.NewDecoderError(errors.UnsupportedTypeShape, "", name, nil,
		"cannot resolve argument %d of %s", i, name)
}

// ResolveComponentFromValue is like ResolveComponent but lets a #class tag
// carried by v take precedence over the declared argument.
func (r *Resolver) ResolveComponentFromValue(v types.Value, t Type, i int) (Type, error) {
	declared, err := r.ResolveComponent(t, i)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*types.ObjectValue)
	if !ok {
		return declared, nil
	}
	tag, ok := obj.Class()
	if !ok {
		return declared, nil
	}

	rt, ok := r.Catalog.Lookup(tag)
	if !ok || rt == GoType(declared) {
		return declared, nil
	}

	return Cached(rt), nil
}

// RawTypeOf returns the nominal type of t, without its arguments.
// If t is neither nominal nor parameterized, fallback is returned.
func (r *Resolver) RawTypeOf(t Type, fallback Type) Nominal {
	switch x := t.(type) {
	case Nominal:
		return x
	case *Parameterized:
		if x != nil && x.Raw != nil {
			return r.RawTypeOf(x.Raw, fallback)
		}
	}

	if n, ok := fallback.(Nominal); ok {
		return n
	}
	return Any
}

// IsInterfaceOrAbstract reports whether t cannot be instantiated directly.
func (r *Resolver) IsInterfaceOrAbstract(t Type) bool {
	return GoType(t).Kind() == reflect.Interface
}

// ConcreteType returns the Go type to instantiate for t. Interfaces are
// replaced by their default implementation.
func (r *Resolver) ConcreteType(t Type) (reflect.Type, error) {
	gt := GoType(t)
	if gt.Kind() != reflect.Interface {
		return gt, nil
	}

	impl, ok := r.Catalog.DefaultImpl(gt)
	if !ok {
		return nil, errors.NewDecoderError(errors.NotInstantiable, "", t.String(), nil,
			"no default implementation registered for %s", r.Catalog.NameOf(gt))
	}
	return impl, nil
}

// Instantiate returns a new, settable, ready to use value of the type t
// stands for. Pointers, maps and ordered maps are allocated.
func (r *Resolver) Instantiate(t Type) (reflect.Value, error) {
	gt, err := r.ConcreteType(t)
	if err != nil {
		return reflect.Value{}, err
	}

	v := reflect.New(gt).Elem()
	switch {
	case gt == OrderedMap.Go:
		v.Set(reflect.ValueOf(types.NewMap()))
	case gt.Kind() == reflect.Pointer:
		v.Set(reflect.New(gt.Elem()))
	case gt.Kind() == reflect.Map:
		v.Set(reflect.MakeMap(gt))
	}

	return v, nil
}

// ResolveClass returns the Go type a #class tag stands for. Registered
// names are looked up first, then the tag is compared with the class
// name of the declared type so that unregistered types round trip.
func (r *Resolver) ResolveClass(tag string, declared Type) (reflect.Type, error) {
	if rt, ok := r.Catalog.Lookup(tag); ok {
		return rt, nil
	}

	if declared != nil {
		gt := GoType(declared)
		if r.Catalog.NameOf(gt) == tag {
			return gt, nil
		}
		if gt.Kind() == reflect.Pointer && r.Catalog.NameOf(gt.Elem()) == tag {
			return gt.Elem(), nil
		}
	}

	name := "nil"
	if declared != nil {
		name = declared.String()
	}
	return nil, errors.NewDecoderError(errors.UnknownClassTag, tag, name, nil,
		"unknown class %q", tag)
}
