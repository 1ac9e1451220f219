package assert

import (
	"testing"

	"github.com/chaisql/typedjson/errors"
)

func Error(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		return
	}
	t.Log("Expected error to be present, but got nil instead")
	t.FailNow()
}

func ErrorIs(t testing.TB, err error, target error) {
	t.Helper()

	if errors.Is(err, target) {
		return
	}
	t.Logf("Expected error to be %v but got %v instead", target, err)
	t.FailNow()
}

// DecoderErrorKind fails the test if err is not a decoder error of the given kind.
func DecoderErrorKind(t testing.TB, err error, kind errors.Kind) {
	t.Helper()

	if errors.IsDecoderError(err, kind) {
		return
	}
	t.Logf("Expected a %s decoder error but got %+v instead", kind, err)
	t.FailNow()
}

// EncoderErrorKind fails the test if err is not an encoder error of the given kind.
func EncoderErrorKind(t testing.TB, err error, kind errors.Kind) {
	t.Helper()

	if errors.IsEncoderError(err, kind) {
		return
	}
	t.Logf("Expected a %s encoder error but got %+v instead", kind, err)
	t.FailNow()
}

func NoErrorf(t testing.TB, err error, str string, args ...interface{}) {
	t.Helper()

	if err == nil {
		return
	}
	t.Logf(str, args...)
	t.Logf("%+v", err)
	t.FailNow()
}

func NoError(t testing.TB, err error) {
	t.Helper()
	NoErrorf(t, err, "Expected error to be nil but got %q instead", err)
}
