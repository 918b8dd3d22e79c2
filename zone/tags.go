package zone

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/zonekit/internal/format"
)

// ChangeTag retags the block holding p. Moving a block to a purgeable tag
// requires that it was allocated with an owner Ref.
func (z *Zone) ChangeTag(p Ptr, tag Tag) {
	z.mustOpen("ChangeTag")
	b := z.blockOf("ChangeTag", p)
	z.stats.ChangeTagCalls++
	if tag.Purgeable() && z.owner(b) < format.OwnerSlotBase {
		z.fatal(errors.Wrapf(ErrMisuse, "ChangeTag: an owner is required for purgeable tag %s (0x%X)",
			tag, int(p)))
	}
	z.setTag(b, tag)
}

// FreeTags releases every allocated block whose tag lies in [low, high].
// Each block is visited once; when a release merges the current block with
// its neighbours the walk resumes after the merged block.
func (z *Zone) FreeTags(low, high Tag) {
	z.mustOpen("FreeTags")
	z.stats.FreeTagsCalls++
	freed := 0
	for b := z.head; b != format.Sentinel; {
		next := z.next(b)
		if !z.isFree(b) {
			if t := z.tag(b); t >= low && t <= high {
				m := z.release(b)
				next = z.next(m)
				freed++
			}
		}
		b = next
	}
	z.log.Debug().
		Stringer("low", low).
		Stringer("high", high).
		Int("freed", freed).
		Msg("freed tag range")
}
