package typedjson

import (
	"reflect"
	"time"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/decoder"
	"github.com/chaisql/typedjson/internal/encoder"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/internal/parser"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

// SQLDate is a date type distinct from time.Time. It is decoded and
// encoded like time.Time but always carries its own class tag,
// so that both can be told apart in the same document.
type SQLDate time.Time

// SQLDateName is the class name of SQLDate.
const SQLDateName = "SQLDate"

// Codec converts tagged JSON documents to Go values and back.
// Registrations are expected to happen before the codec is used,
// after which it is safe for concurrent use.
type Codec struct {
	catalog  *catalog.Catalog
	resolver *typedesc.Resolver
	decoders *decoder.Registry
	encoders *encoder.Registry

	location *time.Location
	features feature.Set
}

// New creates a codec.
func New(opts ...Option) (*Codec, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cat := cfg.catalog
	if cat == nil {
		cat = catalog.New()
	}
	err := cat.Register(SQLDateName, reflect.TypeOf(SQLDate{}))
	if err != nil && !errors.IsAlreadyExistsError(err) {
		return nil, err
	}

	res, err := typedesc.NewResolver(cat, cfg.logger, cfg.planCacheSize)
	if err != nil {
		return nil, err
	}

	return &Codec{
		catalog:  cat,
		resolver: res,
		decoders: decoder.NewRegistry(cfg.logger),
		encoders: encoder.NewRegistry(cfg.logger),
		location: cfg.location,
		features: cfg.features,
	}, nil
}

// Close releases the resources held by the codec.
func (c *Codec) Close() {
	c.resolver.Close()
}

// Parse parses a tagged JSON text into a value tree.
func (c *Codec) Parse(text string) (Value, error) {
	return parser.Parse(text)
}

// Decode parses text and materializes it as a value of the type described
// by target. A null document decodes to the zero value of that type.
func (c *Codec) Decode(text string, target Type) (any, error) {
	v, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	rv, err := c.decodeState().Decode(v, target)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() || !rv.CanInterface() {
		return nil, nil
	}
	return rv.Interface(), nil
}

// DecodeInto parses text and stores the result in the value pointed to by ptr.
// The target type is the type of the pointed value.
func (c *Codec) DecodeInto(text string, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Errorf("cannot decode into %T, a non-nil pointer is required", ptr)
	}

	v, err := parser.Parse(text)
	if err != nil {
		return err
	}

	dst := rv.Elem()
	dv, err := c.decodeState().DecodeTo(v, typedesc.Cached(dst.Type()), dst.Type())
	if err != nil {
		return err
	}
	dst.Set(dv)
	return nil
}

// Encode renders v as tagged JSON using the given features.
func (c *Codec) Encode(v any, features FeatureSet) (string, error) {
	s := encoder.NewState(c.encoders, c.resolver, features, c.location)
	tv, err := s.Encode(reflect.ValueOf(v))
	if err != nil {
		return "", err
	}
	return types.Marshal(tv, features.Enabled(feature.UseSingleQuote)), nil
}

// Marshal renders v using the features the codec was created with.
func (c *Codec) Marshal(v any) (string, error) {
	return c.Encode(v, c.features)
}

// Register binds a class name to the type of sample. Pointers are
// dereferenced, so that an interface type can be given as (*I)(nil).
// The first name registered for a type is the one written when encoding.
func (c *Codec) Register(name string, sample any) error {
	t, err := typeOfSample(sample)
	if err != nil {
		return err
	}
	return c.catalog.Register(name, t)
}

// RegisterDefault sets the type instantiated when a value without class
// tag is decoded into the interface iface, given as (*I)(nil).
func (c *Codec) RegisterDefault(iface, impl any) error {
	it, err := typeOfSample(iface)
	if err != nil {
		return err
	}
	ct, err := typeOfSample(impl)
	if err != nil {
		return err
	}
	return c.catalog.RegisterDefault(it, ct)
}

// RegisterDecoder sets the strategy decoding values of the type of sample.
func (c *Codec) RegisterDecoder(sample any, d Decoder) error {
	t, err := typeOfSample(sample)
	if err != nil {
		return err
	}
	c.decoders.Register(t, d)
	return nil
}

// RegisterEncoder sets the strategy encoding values of the type of sample.
func (c *Codec) RegisterEncoder(sample any, e Encoder) error {
	t, err := typeOfSample(sample)
	if err != nil {
		return err
	}
	c.encoders.Register(t, e)
	return nil
}

// Catalog returns the class catalog of the codec.
func (c *Codec) Catalog() *Catalog {
	return c.catalog
}

func (c *Codec) decodeState() *decoder.State {
	return decoder.NewState(c.decoders, c.resolver, c.location)
}

func typeOfSample(sample any) (reflect.Type, error) {
	t := reflect.TypeOf(sample)
	if t == nil {
		return nil, errors.New("cannot register a nil sample")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, nil
}
