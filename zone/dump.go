package zone

import (
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/zonekit/internal/buf"
	"github.com/joshuapare/zonekit/internal/format"
	"github.com/joshuapare/zonekit/zone/verify"
)

// BlockInfo describes one block in a Snapshot.
type BlockInfo struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Ptr    Ptr    `json:"ptr,omitempty"`
	Tag    Tag    `json:"tag"`
	Free   bool   `json:"free"`
	Owner  string `json:"owner"`
}

// Snapshot is a read-only picture of the directory.
type Snapshot struct {
	Size      int         `json:"size"`
	FreeBytes int         `json:"free_bytes"`
	Low       Tag         `json:"low"`
	High      Tag         `json:"high"`
	Blocks    []BlockInfo `json:"blocks"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// Snapshot lists the blocks whose tag lies in [low, high] (free blocks carry
// TagFree) and records every directory inconsistency as a warning instead of
// failing.
func (z *Zone) Snapshot(low, high Tag) Snapshot {
	z.mustOpen("Snapshot")
	snap := Snapshot{
		Size: len(z.arena),
		Low:  low,
		High: high,
	}
	for _, e := range verify.All(z.arena, z.head, z.tail) {
		snap.Warnings = append(snap.Warnings, e.Error())
	}

	// A damaged directory is walked no further than the arena could hold.
	limit := len(z.arena)/format.HeaderSize + 1
	for b := z.head; b != format.Sentinel && limit > 0; b = z.next(b) {
		limit--
		if !format.Aligned(int(b)) || !buf.Has(z.arena, int(b), format.HeaderSize) {
			break
		}
		t := z.tag(b)
		if z.isFree(b) || t.Purgeable() {
			snap.FreeBytes += z.size(b)
		}
		if t < low || t > high {
			continue
		}
		info := BlockInfo{
			Offset: int(b),
			Size:   z.size(b),
			Tag:    t,
			Free:   z.isFree(b),
			Owner:  ownerString(z.owner(b)),
		}
		if !info.Free {
			info.Ptr = payloadOf(b)
		}
		snap.Blocks = append(snap.Blocks, info)
	}
	return snap
}

func ownerString(o uint32) string {
	switch o {
	case format.OwnerNone:
		return "free"
	case format.OwnerUnowned:
		return "unowned"
	default:
		return fmt.Sprintf("slot:%d", o-format.OwnerSlotBase)
	}
}

// WriteText renders the snapshot one block per line, warnings last.
func (s Snapshot) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "zone size: %d  free: %d\n", s.Size, s.FreeBytes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "tag range: %s to %s\n", s.Low, s.High); err != nil {
		return err
	}
	for _, b := range s.Blocks {
		if _, err := fmt.Fprintf(w, "block:0x%08X    size:%7d    owner:%-10s    tag:%s\n",
			b.Offset, b.Size, b.Owner, b.Tag); err != nil {
			return err
		}
	}
	for _, warning := range s.Warnings {
		if _, err := fmt.Fprintf(w, "WARNING: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

// DumpHeap writes the blocks tagged within [low, high] to w. Directory
// inconsistencies are written as warnings; DumpHeap never fails fatally on them.
func (z *Zone) DumpHeap(w io.Writer, low, high Tag) error {
	return z.Snapshot(low, high).WriteText(w)
}

// FileDumpHeap writes every block, free ones included, to w.
func (z *Zone) FileDumpHeap(w io.Writer) error {
	return z.Snapshot(math.MinInt32, MaxTag).WriteText(w)
}
