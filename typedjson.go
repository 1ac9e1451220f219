package typedjson

import (
	"reflect"
	"sync"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/decoder"
	"github.com/chaisql/typedjson/internal/encoder"
	"github.com/chaisql/typedjson/internal/feature"
	"github.com/chaisql/typedjson/internal/parser"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

type (
	// Value is a node of a parsed document.
	Value = types.Value

	// Map is the insertion-ordered map produced by MapOf descriptors.
	Map = types.Map

	// Type describes the type a document is decoded to.
	Type = typedesc.Type

	// Catalog maps class names to Go types.
	Catalog = catalog.Catalog

	// Feature is the name of an encoding option.
	Feature = feature.Feature

	// FeatureSet is an immutable set of encoding options.
	FeatureSet = feature.Set

	// ParseError is returned when a document is not valid tagged JSON.
	ParseError = parser.ParseError

	// DecoderError is returned when a document cannot be decoded to a type.
	DecoderError = errors.DecoderError

	// EncoderError is returned when a value cannot be encoded.
	EncoderError = errors.EncoderError

	Decoder     = decoder.Decoder
	DecoderFunc = decoder.DecoderFunc
	DecodeState = decoder.State
	Encoder     = encoder.Encoder
	EncoderFunc = encoder.EncoderFunc
	EncodeState = encoder.State
)

// Encoding options.
const (
	UseSingleQuote = feature.UseSingleQuote
	OmitClassTag   = feature.OmitClassTag
	OmitNullFields = feature.OmitNullFields
)

// Built-in type descriptors.
var (
	// List is a list of values of any type.
	List Type = typedesc.List

	// OrderedMap is a map of values of any type keeping the order of the document.
	OrderedMap Type = typedesc.OrderedMap

	// Any accepts any value and decodes it to its natural Go form.
	Any     Type = typedesc.Any
	String  Type = typedesc.String
	Integer Type = typedesc.Integer
	Long    Type = typedesc.Long
	Double  Type = typedesc.Double
	Boolean Type = typedesc.Boolean
	Date    Type = typedesc.Date
)

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return types.NewMap()
}

// NewCatalog returns a catalog holding the built-in classes.
func NewCatalog() *Catalog {
	return catalog.New()
}

// NewFeatureSet returns the set of the named features.
// Unknown names are rejected.
func NewFeatureSet(names ...string) (FeatureSet, error) {
	return feature.Parse(names...)
}

// Features returns the set of the given features. It panics on unknown features.
func Features(features ...Feature) FeatureSet {
	return feature.MustNew(features...)
}

// ListOf describes a list of elements of type elem.
func ListOf(elem Type) Type {
	return typedesc.ListOf(elem)
}

// MapOf describes an ordered map from key to value. It decodes to *Map.
func MapOf(key, value Type) Type {
	return typedesc.MapOf(key, value)
}

// TypeOf describes the Go type of sample.
func TypeOf(sample any) Type {
	return typedesc.Cached(reflect.TypeOf(sample))
}

// TypeFor describes the Go type T. Unlike TypeOf, it accepts interfaces.
func TypeFor[T any]() Type {
	return typedesc.Cached(reflect.TypeOf((*T)(nil)).Elem())
}

var (
	defaultCodec     *Codec
	defaultCodecOnce sync.Once
)

// Default returns the codec used by the package level functions.
// It uses the default options.
func Default() *Codec {
	defaultCodecOnce.Do(func() {
		c, err := New()
		if err != nil {
			panic(err)
		}
		defaultCodec = c
	})
	return defaultCodec
}

// Register binds a class name to the type of sample on the default codec.
func Register(name string, sample any) error {
	return Default().Register(name, sample)
}

// Parse parses a tagged JSON text into a value tree.
func Parse(text string) (Value, error) {
	return parser.Parse(text)
}

// Decode decodes text to the type described by target using the default codec.
func Decode(text string, target Type) (any, error) {
	return Default().Decode(text, target)
}

// Encode encodes v using the default codec.
func Encode(v any, features FeatureSet) (string, error) {
	return Default().Encode(v, features)
}

// Marshal encodes v using the default codec, without features.
func Marshal(v any) (string, error) {
	return Default().Marshal(v)
}

// Unmarshal decodes text to a value of type T using the default codec.
func Unmarshal[T any](text string) (T, error) {
	var out T
	err := Default().DecodeInto(text, &out)
	return out, err
}
