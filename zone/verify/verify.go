// Package verify validates the block directory of a zone arena.
// It reads headers straight out of the arena bytes, so it can inspect a zone
// that is too damaged to trust its own bookkeeping.
package verify

import (
	"fmt"

	"github.com/joshuapare/zonekit/internal/format"
)

// Error types for different validation failures.
const (
	TypeBounds       = "Bounds"
	TypeContiguity   = "Contiguity"
	TypeBackLink     = "BackLink"
	TypeAdjacentFree = "AdjacentFree"
	TypeCoverage     = "Coverage"
	TypeCycle        = "Cycle"
)

// ValidationError describes one broken directory invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at block 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Directory validates the directory whose first block is head and whose last
// block is tail. It returns the first violation, or nil.
func Directory(arena []byte, head, tail int32) error {
	var first error
	walk(arena, head, tail, func(e *ValidationError) bool {
		first = e
		return false
	})
	return first
}

// All validates the directory and returns every violation it can find
// without following a broken link.
func All(arena []byte, head, tail int32) []*ValidationError {
	var errs []*ValidationError
	walk(arena, head, tail, func(e *ValidationError) bool {
		errs = append(errs, e)
		return true
	})
	return errs
}

// walk visits each adjacent pair once. report returns false to stop early.
func walk(arena []byte, head, tail int32, report func(*ValidationError) bool) {
	if head == format.Sentinel {
		report(&ValidationError{
			Type:    TypeCoverage,
			Message: "directory is empty",
			Offset:  -1,
		})
		return
	}
	if head != 0 {
		if !report(&ValidationError{
			Type:    TypeCoverage,
			Message: fmt.Sprintf("first block starts at 0x%X, not at the arena start", head),
			Offset:  int(head),
		}) {
			return
		}
	}

	cur, err := format.ReadHeader(arena, int(head))
	if err != nil {
		report(boundsError(int(head), err))
		return
	}
	if cur.Prev != format.Sentinel {
		if !report(&ValidationError{
			Type:    TypeBackLink,
			Message: fmt.Sprintf("first block links back to 0x%X instead of the list head", cur.Prev),
			Offset:  cur.Offset,
		}) {
			return
		}
	}

	// Every block holds at least a header, so a longer walk is a loop.
	limit := len(arena)/format.HeaderSize + 1
	for steps := 0; ; steps++ {
		if steps > limit {
			report(&ValidationError{
				Type:    TypeCycle,
				Message: fmt.Sprintf("directory does not return to the list head within %d blocks", limit),
				Offset:  cur.Offset,
			})
			return
		}
		if cur.Size < format.HeaderSize {
			report(&ValidationError{
				Type:    TypeBounds,
				Message: fmt.Sprintf("block size %d is smaller than a header", cur.Size),
				Offset:  cur.Offset,
				Details: map[string]interface{}{"size": cur.Size},
			})
			return
		}

		if cur.Next == format.Sentinel {
			if cur.End() != len(arena) {
				if !report(&ValidationError{
					Type: TypeCoverage,
					Message: fmt.Sprintf("last block ends at 0x%X but the arena ends at 0x%X",
						cur.End(), len(arena)),
					Offset: cur.Offset,
				}) {
					return
				}
			}
			if int32(cur.Offset) != tail {
				report(&ValidationError{
					Type: TypeBackLink,
					Message: fmt.Sprintf("list head links back to 0x%X but the last block is 0x%X",
						tail, cur.Offset),
					Offset: cur.Offset,
				})
			}
			return
		}

		next, err := format.ReadHeader(arena, int(cur.Next))
		if err != nil {
			report(boundsError(int(cur.Next), err))
			return
		}

		if cur.End() != next.Offset {
			if !report(&ValidationError{
				Type:    TypeContiguity,
				Message: "block size does not touch the next block",
				Offset:  cur.Offset,
				Details: pairDetails(cur, next),
			}) {
				return
			}
		}
		if next.Prev != int32(cur.Offset) {
			if !report(&ValidationError{
				Type:    TypeBackLink,
				Message: fmt.Sprintf("next block 0x%X links back to 0x%X", next.Offset, next.Prev),
				Offset:  cur.Offset,
				Details: pairDetails(cur, next),
			}) {
				return
			}
		}
		if cur.Free() && next.Free() {
			if !report(&ValidationError{
				Type:    TypeAdjacentFree,
				Message: fmt.Sprintf("two consecutive free blocks (next 0x%X)", next.Offset),
				Offset:  cur.Offset,
				Details: pairDetails(cur, next),
			}) {
				return
			}
		}
		// Offsets only grow along a healthy directory.
		if next.Offset <= cur.Offset {
			report(&ValidationError{
				Type:    TypeCycle,
				Message: fmt.Sprintf("next block 0x%X does not follow 0x%X", next.Offset, cur.Offset),
				Offset:  cur.Offset,
				Details: pairDetails(cur, next),
			})
			return
		}
		cur = next
	}
}

func boundsError(off int, err error) *ValidationError {
	return &ValidationError{
		Type:    TypeBounds,
		Message: fmt.Sprintf("cannot read block header: %v", err),
		Offset:  off,
	}
}

func pairDetails(cur, next format.Header) map[string]interface{} {
	return map[string]interface{}{
		"block":      cur.Offset,
		"size":       cur.Size,
		"end":        cur.End(),
		"next":       next.Offset,
		"next_size":  next.Size,
		"next_prev":  next.Prev,
		"block_free": cur.Free(),
		"next_free":  next.Free(),
	}
}
