package typedesc_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chaisql/typedjson/internal/typedesc"
)

type localDate time.Time

type stringer struct{}

func (stringer) String() string { return "" }

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		v    any
		want typedesc.Category
	}{
		{0, typedesc.CategoryScalar},
		{uint8(0), typedesc.CategoryScalar},
		{"", typedesc.CategoryScalar},
		{1.5, typedesc.CategoryScalar},
		{true, typedesc.CategoryScalar},
		{&struct{}{}, typedesc.CategoryPointer},
		{[]int{}, typedesc.CategoryCollection},
		{[2]int{}, typedesc.CategoryCollection},
		{map[string]int{}, typedesc.CategoryMap},
		{struct{}{}, typedesc.CategoryObject},
		{make(chan int), typedesc.CategoryUnsupported},
		{func() {}, typedesc.CategoryUnsupported},
		{complex(1, 2), typedesc.CategoryUnsupported},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%T", test.v), func(t *testing.T) {
			require.Equal(t, test.want, typedesc.CategoryOf(reflect.TypeOf(test.v)))
		})
	}

	require.Equal(t, typedesc.CategoryInterface, typedesc.CategoryOf(reflect.TypeOf((*fmt.Stringer)(nil)).Elem()))
	require.Equal(t, typedesc.CategoryUnsupported, typedesc.CategoryOf(nil))
}

func TestTable(t *testing.T) {
	tb := typedesc.NewTable[string]()

	require.False(t, tb.Register(reflect.TypeOf(time.Time{}), "date"))
	require.False(t, tb.Register(reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), "stringer"))
	require.False(t, tb.RegisterCategory(typedesc.CategoryObject, "object"))
	require.False(t, tb.RegisterCategory(typedesc.CategoryScalar, "scalar"))

	tests := []struct {
		name string
		t    reflect.Type
		want string
		ok   bool
	}{
		{"exact", reflect.TypeOf(time.Time{}), "date", true},
		{"defined over a registered struct", reflect.TypeOf(localDate{}), "date", true},
		{"implements a registered interface", reflect.TypeOf(stringer{}), "stringer", true},
		{"the interface itself", reflect.TypeOf((*fmt.Stringer)(nil)).Elem(), "stringer", true},
		{"category", reflect.TypeOf(struct{ A int }{}), "object", true},
		{"scalar", reflect.TypeOf(0), "scalar", true},
		{"unregistered category", reflect.TypeOf([]int{}), "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := tb.Lookup(test.t)
			require.Equal(t, test.ok, ok)
			require.Equal(t, test.want, got)
		})
	}

	require.True(t, tb.Register(reflect.TypeOf(time.Time{}), "date2"))
	got, _ := tb.Lookup(reflect.TypeOf(localDate{}))
	require.Equal(t, "date2", got)

	require.True(t, tb.RegisterCategory(typedesc.CategoryObject, "object2"))
}
