package typedjson

import (
	"time"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/log"
)

// DefaultPlanCacheSize is the number of struct field plans a codec keeps
// in cache unless WithPlanCacheSize says otherwise.
const DefaultPlanCacheSize = 1024

// An Option configures a Codec.
type Option func(*config) error

type config struct {
	logger        log.Logger
	location      *time.Location
	features      feature.Set
	planCacheSize int64
	catalog       *catalog.Catalog
}

func defaultConfig() *config {
	return &config{
		logger:        log.Nop{},
		location:      time.UTC,
		planCacheSize: DefaultPlanCacheSize,
	}
}

// WithLogger sets the logger receiving the diagnostics of the codec.
func WithLogger(l log.Logger) Option {
	return func(c *config) error {
		c.logger = log.OrNop(l)
		return nil
	}
}

// WithLocation sets the time zone dates are read and written in,
// e.g. "Europe/Paris". The default is UTC.
func WithLocation(name string) Option {
	return func(c *config) error {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return errors.Wrapf(err, "invalid location %q", name)
		}
		c.location = loc
		return nil
	}
}

// WithFeatures sets the features used by Marshal.
func WithFeatures(features ...Feature) Option {
	return func(c *config) error {
		fs, err := feature.New(features...)
		if err != nil {
			return err
		}
		c.features = fs
		return nil
	}
}

// WithPlanCacheSize sets how many struct field plans are cached.
// Zero disables the cache.
func WithPlanCacheSize(n int64) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.Errorf("invalid plan cache size %d", n)
		}
		c.planCacheSize = n
		return nil
	}
}

// WithCatalog makes the codec start from a copy of cat instead of
// a catalog holding only the built-in classes.
func WithCatalog(cat *Catalog) Option {
	return func(c *config) error {
		if cat == nil {
			return errors.New("nil catalog")
		}
		c.catalog = cat.Clone()
		return nil
	}
}
