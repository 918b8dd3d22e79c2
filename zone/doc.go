// Package zone provides a tagged zone allocator over a single fixed arena.
//
// # Overview
//
// A Zone takes one byte slice from the host at startup and never asks the
// platform for more. The arena is tiled by a circular, doubly linked directory
// of blocks; each block starts with a 24-byte header (see internal/format)
// describing its size, tag, owner and links. The list head is a sentinel kept
// outside the arena, so walking the directory ends when a link names
// format.Sentinel.
//
// # Tags and purging
//
// Every allocation carries a Tag. Tags below PurgeLevel are only released by
// Free or FreeTags. Tags at or above PurgeLevel are purgeable: when Malloc
// cannot find room it evicts purgeable blocks and clears their owner's Ref.
//
//	var sprite zone.Ref
//	z.Malloc(4096, zone.TagCache, &sprite)
//
//	// later, possibly after other Mallocs
//	if p, ok := sprite.Load(); ok {
//	    draw(z.Bytes(p))
//	} else {
//	    reload(&sprite)
//	}
//
// Owners of purgeable blocks must always re-check their Ref before use.
//
// # Allocation
//
// Malloc is next-fit: a rover remembers where the last allocation ended and
// the next search starts there. While walking it merges adjacent free blocks
// and evicts purgeable ones; a block larger than the request by more than the
// minimum fragment is split. Free merges the released block with free
// neighbours at once, so no two free blocks are ever adjacent when a public
// call returns.
//
// # Failure model
//
// Corruption (a pointer without the zone id, a broken directory), exhaustion
// and misuse are fatal. The zone logs the error, calls the host FatalFunc
// installed with WithFatal and panics if that function returns. Errors wrap
// ErrCorrupt, ErrExhausted, ErrMisuse or ErrShutdown.
//
// DumpHeap is the one non-fatal diagnostic: it reports inconsistencies as
// warnings in its output.
//
// # Thread Safety
//
// Zone instances are not thread-safe. Callers must synchronize access
// externally, around the whole zone.
//
// # Related Packages
//
//   - github.com/joshuapare/zonekit/zone/verify: Directory validation
//   - github.com/joshuapare/zonekit/zone/printer: Text and JSON heap dumps
//   - github.com/joshuapare/zonekit/zone/metrics: Prometheus collector
//   - github.com/joshuapare/zonekit/pkg/arena: Arena acquisition for hosts
//   - github.com/joshuapare/zonekit/pkg/trace: Trace script parsing and replay
package zone
