package testutil

import (
	"testing"

	"github.com/chaisql/typedjson/internal/parser"
	"github.com/chaisql/typedjson/internal/testutil/assert"
	"github.com/chaisql/typedjson/internal/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// MakeValue parses a tagged JSON text into a value tree.
func MakeValue(t testing.TB, text string) types.Value {
	t.Helper()

	v, err := parser.Parse(text)
	assert.NoError(t, err)
	return v
}

// MakeObject parses a tagged JSON object.
func MakeObject(t testing.TB, text string) *types.ObjectValue {
	t.Helper()

	v := MakeValue(t, text)
	obj, ok := v.(*types.ObjectValue)
	require.True(t, ok, "expected an object, got %s", v.Type())
	return obj
}

// RequireTreeEqual fails if both trees are not structurally equal.
// The diff is printed using the double quoted rendering of the trees.
func RequireTreeEqual(t testing.TB, want, got types.Value) {
	t.Helper()

	if !types.Equal(want, got) {
		diff := cmp.Diff(types.Marshal(want, false), types.Marshal(got, false))
		require.Failf(t, "mismatched trees, (-want, +got)", "%s", diff)
	}
}

// RequireEqual compares two decoded Go values, ordered maps included.
func RequireEqual(t testing.TB, want, got any, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		require.Failf(t, "mismatched values, (-want, +got)", "%s", diff)
	}
}
