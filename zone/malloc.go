package zone

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/zonekit/internal/format"
)

// Malloc returns a payload of at least n bytes tagged with tag.
//
// The search is next-fit: it starts at the rover left by the previous call
// and walks forward, merging runs of free blocks and evicting purgeable
// blocks until one candidate is large enough. Evicting a block clears its
// owner's Ref, so Malloc may invalidate any number of unrelated purgeable
// allocations. If a whole revolution finds nothing, Malloc fails fatally.
//
// owner may be nil only for non-purgeable tags.
func (z *Zone) Malloc(n int, tag Tag, owner *Ref) Ptr {
	z.mustOpen("Malloc")
	z.stats.MallocCalls++

	if n <= 0 {
		z.fatal(errors.Wrapf(ErrMisuse, "Malloc: bad size %d", n))
	}
	if owner == nil && tag.Purgeable() {
		z.fatal(errors.Wrapf(ErrMisuse, "Malloc: an owner is required for purgeable tag %s", tag))
	}
	if n > len(z.arena) {
		z.fatal(errors.Wrapf(ErrExhausted, "Malloc: failed on allocation of %d bytes in a %d byte zone",
			n, len(z.arena)))
	}
	need := format.BlockSize(n)

	b := z.search(need)

	if extra := z.size(b) - need; extra > z.minFragment {
		z.split(b, need)
	}

	ownerField := format.OwnerUnowned
	if owner != nil {
		ownerField = z.acquireSlot(owner)
	}
	z.stamp(b, tag, ownerField)
	z.rover = z.next(b)

	p := payloadOf(b)
	if owner != nil {
		owner.p = p
	}
	z.stats.BytesAllocated += int64(z.size(b))
	return p
}

// search returns a free block of at least need bytes, evicting purgeable
// blocks on the way. The block just before the starting point bounds the
// revolution; it is the last block examined.
func (z *Zone) search(need int) int32 {
	base := z.rover
	if p := z.prev(base); z.isFree(p) {
		base = p
	}
	start := z.prev(base)

	wrapped := false
	for b := base; ; {
		z.stats.ScanSteps++
		if b == start {
			wrapped = true
		}
		switch {
		case z.isFree(b):
			z.absorbFree(b)
			if z.size(b) >= need {
				return b
			}
		case z.evictable(b):
			b = z.evict(b)
			continue
		}
		if wrapped {
			break
		}
		b = z.next(b)
	}

	z.log.Debug().
		Int("need", need).
		Int("free_bytes", z.FreeMemory()).
		Int("largest_free", z.largestFree()).
		Msg("no block large enough")
	z.fatal(errors.Wrapf(ErrExhausted, "Malloc: failed on allocation of %d bytes", need))
	return format.Sentinel
}

// evict reclaims purgeable block b and returns the free block now covering it.
func (z *Zone) evict(b int32) int32 {
	size := z.size(b)
	z.stats.Evictions++
	z.stats.EvictedBytes += int64(size)
	z.log.Debug().
		Int32("block", b).
		Int("size", size).
		Stringer("tag", z.tag(b)).
		Msg("evicting purgeable block")
	return z.release(b)
}

func (z *Zone) largestFree() int {
	largest := 0
	for b := z.head; b != format.Sentinel; b = z.next(b) {
		if z.isFree(b) {
			largest = max(largest, z.size(b))
		}
	}
	return largest
}
