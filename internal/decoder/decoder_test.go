package decoder_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/typedjson/errors"
	"github.com/chaisql/typedjson/internal/catalog"
	"github.com/chaisql/typedjson/internal/decoder"
	"github.com/chaisql/typedjson/internal/testutil"
	"github.com/chaisql/typedjson/internal/testutil/assert"
	"github.com/chaisql/typedjson/internal/typedesc"
	"github.com/chaisql/typedjson/internal/types"
)

type localDate time.Time

type shape interface{ Area() float64 }

type square struct {
	Side float64 `json:"side"`
}

func (s square) Area() float64 { return s.Side * s.Side }

type circle struct {
	R float64 `json:"r"`
}

func (c *circle) Area() float64 { return 3 * c.R * c.R }

type line struct {
	SKU string
	Qty int
}

type order struct {
	ID      int64
	Placed  time.Time
	Lines   []line
	Tags    map[string]int
	Note    *string
	Shape   shape
	Extra   any
	Scores  [2]float64
	Shipped *localDate
}

func newState(t *testing.T) *decoder.State {
	t.Helper()

	res, err := typedesc.NewResolver(catalog.New(), nil, 100)
	assert.NoError(t, err)
	t.Cleanup(res.Close)

	require.NoError(t, res.Catalog.Register("Square", reflect.TypeOf(square{})))
	require.NoError(t, res.Catalog.Register("Circle", reflect.TypeOf(circle{})))
	require.NoError(t, res.Catalog.Register("LocalDate", reflect.TypeOf(localDate{})))

	return decoder.NewState(decoder.NewRegistry(nil), res, time.UTC)
}

func decode(t *testing.T, text string, d typedesc.Type) (any, error) {
	t.Helper()

	s := newState(t)
	rv, err := s.Decode(testutil.MakeValue(t, text), d)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, nil
	}
	return rv.Interface(), nil
}

func typeOf[T any]() typedesc.Type {
	return typedesc.Of(reflect.TypeOf((*T)(nil)).Elem())
}

func TestScalarDecoder(t *testing.T) {
	type status string

	tests := []struct {
		name string
		text string
		d    typedesc.Type
		want any
	}{
		{"int", `42`, typedesc.Integer, 42},
		{"long", `-9223372036854775807`, typedesc.Long, int64(-math.MaxInt64)},
		{"integral double into int", `2.0`, typedesc.Integer, 2},
		{"int from text", `'12'`, typedesc.Integer, 12},
		{"int8", `-128`, typeOf[int8](), int8(-128)},
		{"uint64", `18446744073709551615`, typeOf[uint64](), uint64(math.MaxUint64)},
		{"double", `1.5`, typedesc.Double, 1.5},
		{"double from int", `3`, typedesc.Double, 3.0},
		{"float32", `0.5`, typeOf[float32](), float32(0.5)},
		{"double from text", `"2.5e1"`, typedesc.Double, 25.0},
		{"double from padded text", `' -0.5 '`, typedesc.Double, -0.5},
		{"bool", `true`, typedesc.Boolean, true},
		{"bool from text", `'false'`, typedesc.Boolean, false},
		{"string", `'abc'`, typedesc.String, "abc"},
		{"string from number", `10.50`, typedesc.String, "10.50"},
		{"defined string", `'open'`, typeOf[status](), status("open")},
		{"null int", `null`, typedesc.Integer, 0},
		{"null string", `null`, typedesc.String, ""},
		{"wrapped", `{#value: 7}`, typedesc.Integer, 7},
		{"tagged", `{#class: 'Long', #value: 7}`, typedesc.Long, int64(7)},
		{"tagged convertible", `{#class: 'Integer', #value: 7}`, typedesc.Long, int64(7)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decode(t, test.text, test.d)
			assert.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestScalarDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		d    typedesc.Type
		kind errors.Kind
	}{
		{"text into int", `'abc'`, typedesc.Integer, errors.TypeMismatch},
		{"nan text", `'NaN'`, typedesc.Double, errors.TypeMismatch},
		{"infinity text", `'Infinity'`, typedesc.Double, errors.TypeMismatch},
		{"negative inf text", `'-Inf'`, typeOf[float32](), errors.TypeMismatch},
		{"hex float text", `'0x1p4'`, typedesc.Double, errors.TypeMismatch},
		{"hex int text", `'0x10'`, typedesc.Long, errors.TypeMismatch},
		{"number with garbage", `'1.5 x'`, typedesc.Double, errors.TypeMismatch},
		{"fraction into int", `1.5`, typedesc.Integer, errors.TypeMismatch},
		{"overflow", `9223372036854775808`, typedesc.Long, errors.TypeMismatch},
		{"int8 overflow", `128`, typeOf[int8](), errors.TypeMismatch},
		{"negative uint", `-1`, typeOf[uint](), errors.TypeMismatch},
		{"float32 overflow", `1e40`, typeOf[float32](), errors.TypeMismatch},
		{"bool into int", `true`, typedesc.Integer, errors.TypeMismatch},
		{"number into bool", `1`, typedesc.Boolean, errors.TypeMismatch},
		{"bad bool text", `'yes'`, typedesc.Boolean, errors.TypeMismatch},
		{"array into string", `[]`, typedesc.String, errors.TypeMismatch},
		{"object into int", `{a: 1}`, typedesc.Integer, errors.TypeMismatch},
		{"unknown tag", `{#class: 'Nope', #value: 1}`, typedesc.Integer, errors.UnknownClassTag},
		{"incompatible tag", `{#class: 'String', #value: '1'}`, typedesc.Integer, errors.TypeMismatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decode(t, test.text, test.d)
			assert.DecoderErrorKind(t, err, test.kind)
		})
	}
}

func TestDateDecoder(t *testing.T) {
	want := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		d    typedesc.Type
		want any
	}{
		{"tagged", `{#class:'Date',#value:'2020-01-01 10:00:00'}`, typedesc.Date, want},
		{"double quoted", `{"#class":"Date","#value":"2020-01-01 10:00:00"}`, typedesc.Date, want},
		{"wrapper", `{#value:'2020-01-01 10:00:00'}`, typedesc.Date, want},
		{"bare", `'2020-01-01 10:00:00'`, typedesc.Date, want},
		{"epoch millis", `1577872800000`, typedesc.Date, want},
		{"subtype", `{#class:'LocalDate',#value:'2020-01-01 10:00:00'}`, typeOf[localDate](), localDate(want)},
		{"subtype from default tag", `{#class:'Date',#value:'2020-01-01 10:00:00'}`, typeOf[localDate](), localDate(want)},
		{"default from subtype tag", `{#class:'LocalDate',#value:'2020-01-01 10:00:00'}`, typedesc.Date, want},
		{"null", `null`, typedesc.Date, time.Time{}},
		{"null wrapper", `{#value: null}`, typedesc.Date, time.Time{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decode(t, test.text, test.d)
			assert.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestDateDecoderTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	res, err := typedesc.NewResolver(nil, nil, 0)
	require.NoError(t, err)
	s := decoder.NewState(decoder.NewRegistry(nil), res, loc)

	rv, err := s.Decode(testutil.MakeValue(t, `'2020-01-01 10:00:00'`), typedesc.Date)
	assert.NoError(t, err)
	require.True(t, time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC).Equal(rv.Interface().(time.Time)))
}

func TestDateDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind errors.Kind
	}{
		{"unparsable", `{#class:'Date',#value:'not a date'}`, errors.BadDateFormat},
		{"bare unparsable", `'2020-13-45 99:00:00'`, errors.BadDateFormat},
		{"other layout", `'2020-01-01T10:00:00Z'`, errors.BadDateFormat},
		{"empty", `''`, errors.BadDateFormat},
		{"missing value", `{#class:'Date'}`, errors.BadDateFormat},
		{"fractional millis", `1.5`, errors.BadDateFormat},
		{"boolean", `true`, errors.TypeMismatch},
		{"incompatible tag", `{#class:'Integer',#value:'2020-01-01 10:00:00'}`, errors.TypeMismatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decode(t, test.text, typedesc.Date)
			assert.DecoderErrorKind(t, err, test.kind)
		})
	}

	t.Run("cause", func(t *testing.T) {
		_, err := decode(t, `'not a date'`, typedesc.Date)
		var de *errors.DecoderError
		require.True(t, errors.As(err, &de))
		require.Equal(t, `"not a date"`, de.Value)
		require.Equal(t, "Date", de.Type)
		require.NotNil(t, de.Cause)
	})
}

func TestCollectionDecoder(t *testing.T) {
	tests := []struct {
		name string
		text string
		d    typedesc.Type
		want any
	}{
		{"list of integers", `[1,2,3]`, typedesc.ListOf(typedesc.Integer), []int{1, 2, 3}},
		{"empty", `[]`, typedesc.ListOf(typedesc.Integer), []int{}},
		{"null", `null`, typedesc.ListOf(typedesc.Integer), []int(nil)},
		{"nested", `[[1],[2,3]]`, typedesc.ListOf(typedesc.ListOf(typedesc.Long)), [][]int64{{1}, {2, 3}}},
		{"go slice", `['a','b']`, typeOf[[]string](), []string{"a", "b"}},
		{"go array", `[1]`, typeOf[[3]int](), [3]int{1, 0, 0}},
		{"raw list", `[1,'a',null]`, typedesc.List, []any{int64(1), "a", nil}},
		{"unknown argument", `[1,{a:2}]`, &typedesc.Parameterized{Raw: typedesc.List}, []any{int64(1), map[string]any{"a": int64(2)}}},
		{"wrapped", `{#class:'List',#value:[1]}`, typedesc.ListOf(typedesc.Integer), []int{1}},
		{"tagged elements", `[{#class:'Square',side:2},{#class:'Circle',r:1}]`, typeOf[[]shape](), []shape{square{Side: 2}, &circle{R: 1}}},
		{"list of pointers", `[1,null]`, typeOf[[]*int](), []*int{ptr(1), nil}},
		{"wrapped go slice", `{#class:'List',#value:['a']}`, typeOf[[]string](), []string{"a"}},
		{"unbound argument", `[1,'a']`, typedesc.ListOf(typedesc.Variable{Name: "T"}), []any{int64(1), "a"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decode(t, test.text, test.d)
			assert.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestCollectionDecoderErrors(t *testing.T) {
	_, err := decode(t, `[1,'x',3]`, typedesc.ListOf(typedesc.Integer))
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)
	var de *errors.DecoderError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "$[1]", de.Path)
	require.Equal(t, `"x"`, de.Value)

	_, err = decode(t, `[1,2]`, typeOf[[1]int]())
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)

	_, err = decode(t, `{a: 1}`, typedesc.ListOf(typedesc.Integer))
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)

	_, err = decode(t, `{#class: 'Nope', #value: [1, 2]}`, typedesc.ListOf(typedesc.Integer))
	assert.DecoderErrorKind(t, err, errors.UnknownClassTag)

	_, err = decode(t, `{#class: 'Date', #value: [1]}`, typedesc.ListOf(typedesc.Integer))
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)

	_, err = decode(t, `{#class: 'Square', #value: [1]}`, typeOf[[]string]())
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)
}

func TestMapDecoder(t *testing.T) {
	t.Run("ordered", func(t *testing.T) {
		got, err := decode(t, `{b: 2, a: 1, c: 3}`, typedesc.MapOf(typedesc.String, typedesc.Integer))
		assert.NoError(t, err)

		m := got.(*types.Map)
		require.Equal(t, []any{"b", "a", "c"}, m.Keys())
		v, _ := m.Get("a")
		require.Equal(t, 1, v)
	})

	t.Run("ordered with unbound value type", func(t *testing.T) {
		got, err := decode(t, `{a: 1, b: 'x'}`, typedesc.MapOf(typedesc.String, typedesc.Variable{Name: "V"}))
		assert.NoError(t, err)

		want := types.NewMap()
		want.Set("a", int64(1))
		want.Set("b", "x")
		testutil.RequireEqual(t, want, got)
	})

	t.Run("ordered with integer keys", func(t *testing.T) {
		got, err := decode(t, `{'2': 'b', '1': 'a'}`, typedesc.MapOf(typedesc.Long, typedesc.String))
		assert.NoError(t, err)
		require.Equal(t, []any{int64(2), int64(1)}, got.(*types.Map).Keys())
	})

	t.Run("ordered without arguments", func(t *testing.T) {
		got, err := decode(t, `{#class: 'Map', a: [1], b: {c: 'd'}}`, typedesc.OrderedMap)
		assert.NoError(t, err)

		want := types.NewMap()
		want.Set("a", []any{int64(1)})
		want.Set("b", map[string]any{"c": "d"})
		testutil.RequireEqual(t, want, got)
	})

	tests := []struct {
		name string
		text string
		d    typedesc.Type
		want any
	}{
		{"go map", `{a: 1, b: 2}`, typeOf[map[string]int](), map[string]int{"a": 1, "b": 2}},
		{"int keys", `{'1': true}`, typeOf[map[int]bool](), map[int]bool{1: true}},
		{"interface keys", `{'1': true}`, typeOf[map[any]bool](), map[any]bool{"1": true}},
		{"list values", `{a: [1, 2]}`, typeOf[map[string][]int](), map[string][]int{"a": {1, 2}}},
		{"null", `null`, typeOf[map[string]int](), map[string]int(nil)},
		{"class key skipped", `{#class: 'Map', a: 1}`, typeOf[map[string]int](), map[string]int{"a": 1}},
		{"qualified map tag", `{#class: 'map[string]int', a: 1}`, typeOf[map[string]int](), map[string]int{"a": 1}},
		{"fallback object", `{a: 1, b: {#class: 'Date', #value: '2020-01-01 10:00:00'}}`, typedesc.Fallback,
			map[string]any{"a": int64(1), "b": time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)}},
		{"fallback scalar", `1.5`, typedesc.Fallback, 1.5},
		{"fallback array", `[1]`, typedesc.Fallback, []any{int64(1)}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decode(t, test.text, test.d)
			assert.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}

	t.Run("errors", func(t *testing.T) {
		_, err := decode(t, `{a: 1}`, typeOf[map[int]int]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `{a: 'x'}`, typedesc.MapOf(typedesc.String, typedesc.Integer))
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)
		var de *errors.DecoderError
		require.True(t, errors.As(err, &de))
		require.Equal(t, "$.a", de.Path)

		_, err = decode(t, `[1]`, typeOf[map[string]int]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `{#class: 'Nope', a: 1}`, typeOf[map[string]int]())
		assert.DecoderErrorKind(t, err, errors.UnknownClassTag)

		_, err = decode(t, `{#class: 'Date', #value: '2011-08-01 08:11:41'}`, typedesc.MapOf(typedesc.String, typedesc.Any))
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `{#class: 'Square', side: 1}`, typeOf[map[string]float64]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `{#class: 'Nope', a: 1}`, typedesc.Fallback)
		assert.DecoderErrorKind(t, err, errors.UnknownClassTag)

		_, err = decode(t, `{'{}': 1}`, typeOf[map[line]int]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)
	})
}

func TestObjectDecoder(t *testing.T) {
	text := `{
		#class: 'github.com/chaisql/typedjson/internal/decoder_test.order',
		id: 7,
		placed: {#class: 'Date', #value: '2020-01-01 10:00:00'},
		lines: [{sku: 'A1', qty: 2}, {SKU: 'B2', QTY: 1, color: 'red'}],
		tags: {x: 1},
		note: 'fragile',
		shape: {#class: 'Square', side: 3},
		extra: {k: [true]},
		scores: [1.5, 2],
		shipped: {#class: 'LocalDate', #value: '2020-01-02 00:00:00'},
		unknown: {deep: [1, 2, 3]}
	}`

	got, err := decode(t, text, typeOf[order]())
	assert.NoError(t, err)

	note := "fragile"
	shipped := localDate(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))
	require.Equal(t, order{
		ID:      7,
		Placed:  time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC),
		Lines:   []line{{SKU: "A1", Qty: 2}, {SKU: "B2", Qty: 1}},
		Tags:    map[string]int{"x": 1},
		Note:    &note,
		Shape:   square{Side: 3},
		Extra:   map[string]any{"k": []any{true}},
		Scores:  [2]float64{1.5, 2},
		Shipped: &shipped,
	}, got)

	t.Run("pointer target", func(t *testing.T) {
		got, err := decode(t, `{id: 1}`, typeOf[*order]())
		assert.NoError(t, err)
		require.Equal(t, &order{ID: 1}, got)

		got, err = decode(t, `null`, typeOf[*order]())
		assert.NoError(t, err)
		require.Equal(t, (*order)(nil), got)
	})

	t.Run("tag redirects to the registered type", func(t *testing.T) {
		got, err := decode(t, `{#class: 'Square', side: 1}`, typedesc.Any)
		assert.NoError(t, err)
		require.Equal(t, square{Side: 1}, got)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := decode(t, `{#class: 'Nope', id: 1}`, typeOf[order]())
		assert.DecoderErrorKind(t, err, errors.UnknownClassTag)

		_, err = decode(t, `{#class: 'Square', side: 1}`, typeOf[order]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `[1]`, typeOf[order]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)

		_, err = decode(t, `{lines: [{qty: 1}, {qty: 'many'}]}`, typeOf[order]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)
		var de *errors.DecoderError
		require.True(t, errors.As(err, &de))
		require.Equal(t, "$.lines[1].qty", de.Path)
		require.Contains(t, de.Error(), "at $.lines[1].qty")
	})
}

func TestInterfaceDecoder(t *testing.T) {
	tests := []struct {
		name string
		text string
		d    typedesc.Type
		want any
	}{
		{"natural number", `1`, typedesc.Any, int64(1)},
		{"natural double", `1.25`, typedesc.Any, 1.25},
		{"big number", `123456789012345678901234567890`, typedesc.Any, 1.2345678901234568e29},
		{"natural text", `'x'`, typedesc.Any, "x"},
		{"natural bool", `false`, typedesc.Any, false},
		{"null", `null`, typedesc.Any, nil},
		{"wrapper", `{#value: 'x'}`, typedesc.Any, "x"},
		{"tagged scalar", `{#class: 'Integer', #value: 3}`, typedesc.Any, 3},
		{"tagged date", `{#class: 'Date', #value: '2020-01-01 10:00:00'}`, typedesc.Any, time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"nested tags", `[{#class: 'Square', side: 1}, {a: {#class: 'Long', #value: 2}}]`, typedesc.Any,
			[]any{square{Side: 1}, map[string]any{"a": int64(2)}}},
		{"pointer receiver", `{#class: 'Circle', r: 2}`, typeOf[shape](), &circle{R: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decode(t, test.text, test.d)
			assert.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}

	t.Run("default implementation", func(t *testing.T) {
		s := newState(t)
		iface := reflect.TypeOf((*shape)(nil)).Elem()

		_, err := s.Decode(testutil.MakeValue(t, `{side: 2}`), typeOf[shape]())
		assert.DecoderErrorKind(t, err, errors.NotInstantiable)

		require.NoError(t, s.Resolver.Catalog.RegisterDefault(iface, reflect.TypeOf(square{})))
		rv, err := s.Decode(testutil.MakeValue(t, `{side: 2}`), typeOf[shape]())
		assert.NoError(t, err)
		require.Equal(t, square{Side: 2}, rv.Interface())

		// a tag naming the interface uses the default implementation as well
		require.NoError(t, s.Resolver.Catalog.Register("Shape", iface))
		rv, err = s.Decode(testutil.MakeValue(t, `{#class: 'Shape', side: 3}`), typedesc.Any)
		assert.NoError(t, err)
		require.Equal(t, square{Side: 3}, rv.Interface())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := decode(t, `{#class: 'Nope'}`, typedesc.Any)
		assert.DecoderErrorKind(t, err, errors.UnknownClassTag)

		_, err = decode(t, `{#class: 'Date', #value: '2020-01-01 10:00:00'}`, typeOf[shape]())
		assert.DecoderErrorKind(t, err, errors.TypeMismatch)
	})
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := decode(t, `1`, typeOf[chan int]())
	assert.DecoderErrorKind(t, err, errors.TypeMismatch)


	_, err = decode(t, `1`, nil)
	assert.DecoderErrorKind(t, err, errors.UnsupportedTypeShape)
}

func TestDecodeUnboundVariable(t *testing.T) {
	got, err := decode(t, `{a: [1], b: {#class: 'Long', #value: 2}}`, typedesc.Variable{Name: "T"})
	assert.NoError(t, err)
	require.Equal(t, map[string]any{"a": []any{int64(1)}, "b": int64(2)}, got)
}

type upper string

func TestRegistryOverride(t *testing.T) {
	s := newState(t)
	s.Registry.Register(reflect.TypeOf(upper("")), decoder.DecoderFunc(func(s *decoder.State, v types.Value, t typedesc.Type) (reflect.Value, error) {
		return reflect.ValueOf(upper("UP")), nil
	}))

	rv, err := s.Decode(testutil.MakeValue(t, `['a', 'b']`), typeOf[[]upper]())
	assert.NoError(t, err)
	require.Equal(t, []upper{"UP", "UP"}, rv.Interface())

	_, ok := s.Registry.Lookup(reflect.TypeOf(localDate{}))
	require.True(t, ok)
}
