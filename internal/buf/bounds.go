// Package buf holds overflow-safe range checks for offsets read out of an
// arena. Offsets come from headers that may be corrupt, so every check
// tolerates negative and huge values.
package buf

import "math"

// End returns off+n when the range [off, off+n) lies inside a buffer of
// length size.
func End(size, off, n int) (int, bool) {
	if off < 0 || n < 0 || off > size {
		return 0, false
	}
	if n > math.MaxInt-off {
		return 0, false
	}
	end := off + n
	if end > size {
		return 0, false
	}
	return end, true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := End(len(b), off, n)
	return ok
}

// Window returns b[off:off+n] with its capacity clipped to n, so appending
// to the result can never write past the range.
func Window(b []byte, off, n int) ([]byte, bool) {
	end, ok := End(len(b), off, n)
	if !ok {
		return nil, false
	}
	return b[off:end:end], true
}
