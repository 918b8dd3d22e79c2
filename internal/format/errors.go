package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a block offset that is not on an Alignment boundary.
	ErrMisaligned = errors.New("format: misaligned block offset")
)
