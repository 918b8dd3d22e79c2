// Package arena obtains the memory a zone manages.
//
// A zone never allocates its own arena; the host hands it one. Arena covers
// the two ways a host usually does that: a plain Go slice, or an anonymous
// private mapping that lives outside the Go heap and is returned to the
// kernel on Close.
package arena

import (
	"errors"
	"fmt"
	"strings"
)

// Backing selects where the arena memory comes from.
type Backing string

const (
	// BackingHeap allocates the arena as a Go byte slice.
	BackingHeap Backing = "heap"

	// BackingMmap maps anonymous private memory. On platforms without mmap
	// it behaves like BackingHeap.
	BackingMmap Backing = "mmap"
)

var (
	// ErrBadSize is returned for a non-positive arena size.
	ErrBadSize = errors.New("arena: size must be positive")

	// ErrClosed is returned by Bytes after Close.
	ErrClosed = errors.New("arena: closed")
)

// ParseBacking accepts "heap" or "mmap" in any case. The empty string means
// BackingHeap.
func ParseBacking(s string) (Backing, error) {
	switch b := Backing(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackingHeap, nil
	case BackingHeap, BackingMmap:
		return b, nil
	default:
		return "", fmt.Errorf("arena: unknown backing %q", s)
	}
}

// Arena is a block of memory handed to a zone.
type Arena struct {
	data    []byte
	backing Backing
	release func() error
}

// New obtains size bytes of zeroed memory from the given backing.
func New(size int, backing Backing) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	switch backing {
	case BackingHeap, "":
		return &Arena{
			data:    make([]byte, size),
			backing: BackingHeap,
			release: func() error { return nil },
		}, nil
	case BackingMmap:
		data, release, err := mapAnon(size)
		if err != nil {
			return nil, fmt.Errorf("arena: map %d bytes: %w", size, err)
		}
		return &Arena{data: data, backing: BackingMmap, release: release}, nil
	default:
		return nil, fmt.Errorf("arena: unknown backing %q", backing)
	}
}

// Bytes returns the arena memory. The slice must not be used after Close.
func (a *Arena) Bytes() ([]byte, error) {
	if a.data == nil {
		return nil, ErrClosed
	}
	return a.data, nil
}

// Len returns the arena size, or 0 once closed.
func (a *Arena) Len() int { return len(a.data) }

// Backing reports where the memory came from.
func (a *Arena) Backing() Backing { return a.backing }

// Close releases the memory. Closing twice is a no-op.
func (a *Arena) Close() error {
	if a.data == nil {
		return nil
	}
	a.data = nil
	return a.release()
}
