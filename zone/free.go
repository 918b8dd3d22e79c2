package zone

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/zonekit/internal/buf"
	"github.com/joshuapare/zonekit/internal/format"
)

// Free releases the block holding p. The owner's Ref, if any, is cleared.
// A pointer that does not carry the zone id (never allocated, already freed,
// or corrupted) is fatal.
func (z *Zone) Free(p Ptr) {
	z.mustOpen("Free")
	b := z.blockOf("Free", p)
	z.stats.FreeCalls++
	z.release(b)
}

// release marks allocated block b free and merges it with free neighbours
// straight away. It returns the free block that now covers b's bytes, which
// starts at b or at its previous neighbour.
func (z *Zone) release(b int32) int32 {
	z.stats.BytesFreed += int64(z.size(b))
	z.releaseOwner(b)
	z.unstamp(b)

	if p := z.prev(b); z.isFree(p) {
		z.coalesce(p, b)
		b = p
	}
	if n := z.next(b); z.isFree(n) {
		z.coalesce(b, n)
	}
	return b
}

// blockOf recovers the header in front of payload p and checks its id.
func (z *Zone) blockOf(op string, p Ptr) int32 {
	off := int(p) - format.HeaderSize
	if p == Nil || !buf.Has(z.arena, off, format.HeaderSize) || !format.Aligned(off) {
		z.fatal(errors.Wrapf(ErrCorrupt, "%s: pointer 0x%X is outside the zone", op, int(p)))
	}
	b := int32(off)
	if z.id(b) != format.ZoneID {
		z.fatal(errors.Wrapf(ErrCorrupt, "%s: freed a pointer without ZONEID (0x%X)", op, int(p)))
	}
	return b
}

// Bytes returns the payload of the block holding p. The slice stays valid
// until the block is freed or evicted.
func (z *Zone) Bytes(p Ptr) []byte {
	z.mustOpen("Bytes")
	b := z.blockOf("Bytes", p)
	payload, ok := buf.Window(z.arena, int(p), z.size(b)-format.HeaderSize)
	if !ok {
		z.fatal(errors.Wrapf(ErrCorrupt, "Bytes: block 0x%X runs past the arena (size %d)", b, z.size(b)))
	}
	return payload
}

// TagOf returns the tag of the block holding p.
func (z *Zone) TagOf(p Ptr) Tag {
	z.mustOpen("TagOf")
	return z.tag(z.blockOf("TagOf", p))
}

// SizeOf returns the usable payload size of the block holding p. It can
// exceed the size requested from Malloc.
func (z *Zone) SizeOf(p Ptr) int {
	z.mustOpen("SizeOf")
	return z.size(z.blockOf("SizeOf", p)) - format.HeaderSize
}
