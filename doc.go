/*
Package typedjson converts Go values to and from tagged JSON, a JSON dialect
that keeps enough type information to rebuild polymorphic values.

# Tagged JSON

Tagged JSON is JSON with two reserved object keys:

  - #class holds the class name of the object, e.g. {'#class': 'Dog', 'name': 'Rex'}
  - #value holds the content of a wrapped scalar, e.g. {'#class': 'Date', '#value': '2011-08-01 08:11:41'}

Strings may be single or double quoted and object keys that are identifiers
may be written without quotes. Class names are resolved through a Catalog,
in which the built-in classes (Date, String, Integer, Long, Double, Boolean,
List and Map) are always registered:

	c, err := typedjson.New()
	err = c.Register("Dog", Dog{})

Types that are not registered are named after their import path, e.g.
github.com/acme/pets.Dog.

# Decoding

Documents are decoded to the type described by a Type. Types are derived
from Go types with TypeOf and TypeFor, or built with ListOf and MapOf:

	v, err := c.Decode(`[1, 2, 3]`, typedjson.ListOf(typedjson.Integer))    // []int{1, 2, 3}
	m, err := c.Decode(`{a: 1}`, typedjson.MapOf(typedjson.String, typedjson.Long)) // *typedjson.Map

A #class tag found in the document takes precedence over the declared type,
which is how interface fields and heterogeneous lists are decoded. Values
decoded into interface{} without tag take their natural Go form: nil, bool,
int64, float64, string, []any or map[string]any.

Dates are written with the layout 2006-01-02 15:04:05 in the location of the
codec (UTC unless WithLocation is used). A number of milliseconds since the
Unix epoch is accepted as well.

# Encoding

Encode takes a FeatureSet controlling the output:

  - UseSingleQuote quotes strings with single quotes and leaves identifier keys unquoted
  - OmitClassTag drops the #class keys, time.Time values are written as bare text
  - OmitNullFields drops the struct fields whose value is null

Struct fields are named after their json tag, or after the Go field name
with its leading upper case letters lowered. Go maps are written with their
keys sorted, Map values in insertion order.
*/
package typedjson
