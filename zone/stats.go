package zone

import "github.com/joshuapare/zonekit/internal/format"

// Stats holds allocator counters plus a census of the directory taken when
// Stats is called.
type Stats struct {
	MallocCalls    int   // Total Malloc() calls
	FreeCalls      int   // Total Free() calls
	ChangeTagCalls int   // Total ChangeTag() calls
	FreeTagsCalls  int   // Total FreeTags() calls
	Evictions      int   // Purgeable blocks reclaimed by Malloc
	EvictedBytes   int64 // Bytes reclaimed by eviction (headers included)
	Splits         int   // Blocks split during Malloc
	Coalesces      int   // Free blocks merged into a neighbour
	ScanSteps      int   // Blocks examined by Malloc searches
	BytesAllocated int64 // Total bytes handed out (headers included)
	BytesFreed     int64 // Total bytes released, evictions included

	// Census
	Size           int // Arena size
	Blocks         int // Blocks in the directory, sentinel excluded
	FreeBlocks     int
	FreeBytes      int // Bytes in free blocks only
	PurgeableBytes int // Bytes in allocated purgeable blocks
	LargestFree    int
}

// Stats returns the counters and a fresh census.
func (z *Zone) Stats() Stats {
	z.mustOpen("Stats")
	s := z.stats
	s.Size = len(z.arena)
	for b := z.head; b != format.Sentinel; b = z.next(b) {
		s.Blocks++
		size := z.size(b)
		switch {
		case z.isFree(b):
			s.FreeBlocks++
			s.FreeBytes += size
			s.LargestFree = max(s.LargestFree, size)
		case z.tag(b).Purgeable():
			s.PurgeableBytes += size
		}
	}
	return s
}
