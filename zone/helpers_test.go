package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zonekit/zone/verify"
)

// newTestZone formats a fresh arena of the given size.
func newTestZone(t testing.TB, size int, opts ...Option) *Zone {
	t.Helper()
	z, err := New(make([]byte, size), opts...)
	require.NoError(t, err)
	assertInvariants(t, z)
	return z
}

// assertInvariants checks the directory without going through the fatal path.
func assertInvariants(t testing.TB, z *Zone) {
	t.Helper()
	require.NoError(t, verify.Directory(z.arena, z.head, z.tail))
}

// requireFatal runs fn and returns the error it failed with. The default host
// function panics, so the error arrives as the panic value.
func requireFatal(t testing.TB, target error, fn func()) error {
	t.Helper()
	var got error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a fatal zone error")
			err, ok := r.(error)
			require.True(t, ok, "panic value %v is not an error", r)
			got = err
		}()
		fn()
	}()
	require.ErrorIs(t, got, target)
	return got
}

// blocks lists header offsets in directory order.
func blocks(z *Zone) []int32 {
	var out []int32
	for b := z.head; b >= 0; b = z.next(b) {
		out = append(out, b)
	}
	return out
}
