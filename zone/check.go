package zone

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/zonekit/internal/format"
	"github.com/joshuapare/zonekit/zone/verify"
)

// CheckHeap walks the directory and fails fatally on the first broken
// invariant. The reported error is a *verify.ValidationError marked with
// ErrCorrupt.
func (z *Zone) CheckHeap() {
	z.mustOpen("CheckHeap")
	if err := verify.Directory(z.arena, z.head, z.tail); err != nil {
		z.fatal(errors.Mark(errors.WithStack(err), ErrCorrupt))
	}
}

// FreeMemory returns the bytes held by free blocks plus purgeable blocks,
// which Malloc can reclaim on demand.
func (z *Zone) FreeMemory() int {
	z.mustOpen("FreeMemory")
	total := 0
	for b := z.head; b != format.Sentinel; b = z.next(b) {
		if z.isFree(b) || z.tag(b).Purgeable() {
			total += z.size(b)
		}
	}
	return total
}
