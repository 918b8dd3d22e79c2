package zone

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/zonekit/internal/format"
)

// Block directory primitives. Blocks are named by the arena offset of their
// header; format.Sentinel names the list head. Nothing in this file decides
// allocation policy, it only keeps the directory consistent:
//
//   - every block ends exactly where the next one begins,
//   - next(b).prev == b for every b,
//   - no two neighbouring blocks are both free once a public call returns.

func (z *Zone) size(b int32) int {
	if b == format.Sentinel {
		return 0
	}
	return int(format.ReadU32(z.arena, int(b)+format.SizeOffset))
}

func (z *Zone) setSize(b int32, n int) {
	format.PutU32(z.arena, int(b)+format.SizeOffset, uint32(n))
}

func (z *Zone) tag(b int32) Tag {
	if b == format.Sentinel {
		return TagStatic
	}
	return Tag(format.ReadI32(z.arena, int(b)+format.TagOffset))
}

func (z *Zone) setTag(b int32, t Tag) {
	format.PutI32(z.arena, int(b)+format.TagOffset, int32(t))
}

func (z *Zone) id(b int32) uint32 {
	return format.ReadU32(z.arena, int(b)+format.IDOffset)
}

func (z *Zone) owner(b int32) uint32 {
	if b == format.Sentinel {
		return format.OwnerUnowned
	}
	return format.ReadU32(z.arena, int(b)+format.OwnerOffset)
}

func (z *Zone) next(b int32) int32 {
	if b == format.Sentinel {
		return z.head
	}
	return format.ReadI32(z.arena, int(b)+format.NextOffset)
}

func (z *Zone) setNext(b, n int32) {
	if b == format.Sentinel {
		z.head = n
		return
	}
	format.PutI32(z.arena, int(b)+format.NextOffset, n)
}

func (z *Zone) prev(b int32) int32 {
	if b == format.Sentinel {
		return z.tail
	}
	return format.ReadI32(z.arena, int(b)+format.PrevOffset)
}

func (z *Zone) setPrev(b, p int32) {
	if b == format.Sentinel {
		z.tail = p
		return
	}
	format.PutI32(z.arena, int(b)+format.PrevOffset, p)
}

// isFree reports whether b is a free block. The sentinel is never free.
func (z *Zone) isFree(b int32) bool {
	return b != format.Sentinel && z.owner(b) == format.OwnerNone
}

// evictable reports whether b is allocated with a purgeable tag.
func (z *Zone) evictable(b int32) bool {
	return b != format.Sentinel && !z.isFree(b) && z.tag(b).Purgeable()
}

// split cuts b at k bytes from its header. The tail becomes a new free block
// linked right after b; its offset is returned.
func (z *Zone) split(b int32, k int) int32 {
	total := z.size(b)
	nb := b + int32(k)
	n := z.next(b)

	format.PutHeader(z.arena, format.Header{
		Offset: int(nb),
		Size:   total - k,
		Owner:  format.OwnerNone,
		Next:   n,
		Prev:   b,
	})
	z.setPrev(n, nb)
	z.setNext(b, nb)
	z.setSize(b, k)

	z.stats.Splits++
	return nb
}

// coalesce folds n, the free block directly after free block b, into b.
// A rover parked on n moves back to b.
func (z *Zone) coalesce(b, n int32) {
	nn := z.next(n)
	z.setSize(b, z.size(b)+z.size(n))
	z.setNext(b, nn)
	z.setPrev(nn, b)
	if z.rover == n {
		z.rover = b
	}
	z.stats.Coalesces++
}

// absorbFree merges every free block that follows b into b.
func (z *Zone) absorbFree(b int32) {
	for n := z.next(b); z.isFree(n); n = z.next(b) {
		z.coalesce(b, n)
	}
}

// stamp marks b allocated.
func (z *Zone) stamp(b int32, tag Tag, owner uint32) {
	format.PutU32(z.arena, int(b)+format.OwnerOffset, owner)
	format.PutU32(z.arena, int(b)+format.IDOffset, format.ZoneID)
	z.setTag(b, tag)
}

// unstamp marks b free without touching its links.
func (z *Zone) unstamp(b int32) {
	format.PutU32(z.arena, int(b)+format.OwnerOffset, format.OwnerNone)
	format.PutU32(z.arena, int(b)+format.IDOffset, 0)
	z.setTag(b, TagFree)
}

func payloadOf(b int32) Ptr { return Ptr(b + format.HeaderSize) }

// acquireSlot registers ref and returns the header owner value for it.
// Freed slots are reused first; the table only grows on the Go heap once more
// owned blocks are live than WithOwnerSlots reserved.
func (z *Zone) acquireSlot(ref *Ref) uint32 {
	var slot uint32
	if n := len(z.freeSlots); n > 0 {
		slot = z.freeSlots[n-1]
		z.freeSlots = z.freeSlots[:n-1]
		z.owners[slot] = ref
	} else {
		slot = uint32(len(z.owners))
		z.owners = append(z.owners, ref)
	}
	return format.OwnerSlotBase + slot
}

// releaseOwner clears the ref owning allocated block b and frees its slot.
func (z *Zone) releaseOwner(b int32) {
	o := z.owner(b)
	if o < format.OwnerSlotBase {
		return
	}
	slot := o - format.OwnerSlotBase
	if int(slot) >= len(z.owners) {
		z.fatal(errors.Wrapf(ErrCorrupt, "block 0x%X names owner slot %d of %d",
			b, slot, len(z.owners)))
	}
	z.owners[slot].release(payloadOf(b))
	z.owners[slot] = nil
	z.freeSlots = append(z.freeSlots, slot)
}
