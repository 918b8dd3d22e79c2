package zone

import "github.com/cockroachdb/errors"

var (
	// ErrCorrupt indicates a pointer without the zone id or a broken block directory.
	ErrCorrupt = errors.New("zone: heap corruption")

	// ErrExhausted indicates no block was large enough even after evicting
	// every purgeable block.
	ErrExhausted = errors.New("zone: out of memory")

	// ErrMisuse indicates a programming error such as a purgeable block with no owner.
	ErrMisuse = errors.New("zone: misuse")

	// ErrBadArena indicates the host handed New an unusable arena.
	ErrBadArena = errors.New("zone: bad arena")

	// ErrUnknownTag indicates a tag that is neither a known name nor an int32.
	ErrUnknownTag = errors.New("zone: unknown tag")

	// ErrShutdown indicates an operation on a zone after Shutdown.
	ErrShutdown = errors.New("zone: used after shutdown")
)
