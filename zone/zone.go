package zone

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/joshuapare/zonekit/internal/format"
)

// Zone manages one fixed arena as a circular, doubly linked directory of
// blocks. The list head is a sentinel kept outside the arena: it is a
// permanently allocated, zero-sized, static block whose next is the first
// block and whose prev is the last one.
//
// A Zone is not safe for concurrent use.
type Zone struct {
	arena []byte

	// Sentinel links.
	head int32
	tail int32

	// rover is where the next Malloc starts searching.
	rover int32

	// owners maps owner slots (header owner field - OwnerSlotBase) to refs.
	owners    []*Ref
	freeSlots []uint32

	minFragment int
	log         zerolog.Logger
	fatalFn     FatalFunc

	stats  Stats
	closed bool
}

// New formats arena as a zone holding one free block. The arena length is
// truncated down to a multiple of the block alignment.
func New(arena []byte, opts ...Option) (*Zone, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size := format.AlignDown(len(arena))
	if size < format.MinArenaSize {
		return nil, errors.Wrapf(ErrBadArena, "%d bytes is smaller than the minimum %d",
			len(arena), format.MinArenaSize)
	}
	if size > format.MaxArenaSize {
		return nil, errors.Wrapf(ErrBadArena, "%d bytes exceeds the maximum %d",
			len(arena), format.MaxArenaSize)
	}

	z := &Zone{
		arena:       arena[:size:size],
		minFragment: o.minFragment,
		log:         o.log,
		fatalFn:     o.fatal,
		owners:      make([]*Ref, 0, o.ownerSlots),
		freeSlots:   make([]uint32, 0, o.ownerSlots),
	}
	z.reset()
	z.log.Debug().Int("size", size).Msg("zone initialized")
	return z, nil
}

// Size returns the arena size in bytes.
func (z *Zone) Size() int { return len(z.arena) }

// Clear discards every block and reformats the arena as one free block.
// Every owner ref is cleared and every old header loses its zone id first,
// so a pointer from before the Clear is rejected like any other stale one.
func (z *Zone) Clear() {
	z.mustOpen("Clear")
	z.retireBlocks()
	z.reset()
	z.log.Debug().Int("size", len(z.arena)).Msg("zone cleared")
}

// Shutdown releases the arena back to the host and clears every owner ref.
// The zone must not be used afterwards.
func (z *Zone) Shutdown() []byte {
	z.mustOpen("Shutdown")
	z.retireBlocks()
	arena := z.arena
	z.arena = nil
	z.head, z.tail, z.rover = format.Sentinel, format.Sentinel, format.Sentinel
	z.closed = true
	z.log.Debug().Int("size", len(arena)).Msg("zone shut down")
	return arena
}

// reset writes the single free block spanning the arena and relinks the sentinel.
func (z *Zone) reset() {
	format.PutHeader(z.arena, format.Header{
		Offset: 0,
		Size:   len(z.arena),
		Owner:  format.OwnerNone,
		Next:   format.Sentinel,
		Prev:   format.Sentinel,
	})
	z.head, z.tail, z.rover = 0, 0, 0
	z.owners = z.owners[:0]
	z.freeSlots = z.freeSlots[:0]
}

// retireBlocks clears the owner of every allocated block and unstamps it.
// Links are left intact, so the walk can continue past an unstamped block.
func (z *Zone) retireBlocks() {
	for b := z.head; b != format.Sentinel; b = z.next(b) {
		if !z.isFree(b) {
			z.releaseOwner(b)
			z.unstamp(b)
		}
	}
}

func (z *Zone) mustOpen(op string) {
	if z.closed {
		z.fatal(errors.Wrapf(ErrShutdown, "%s", op))
	}
}

// fatal reports err to the host and never returns.
func (z *Zone) fatal(err error) {
	z.log.Error().Err(err).Msg("zone fatal error")
	z.fatalFn(err)
	panic(err)
}
