package printer

import (
	"encoding/json"

	"github.com/joshuapare/zonekit/zone"
)

// jsonStats is the JSON shape of zone.Stats.
type jsonStats struct {
	Size           int   `json:"size"`
	Blocks         int   `json:"blocks"`
	FreeBlocks     int   `json:"free_blocks"`
	FreeBytes      int   `json:"free_bytes"`
	PurgeableBytes int   `json:"purgeable_bytes"`
	LargestFree    int   `json:"largest_free"`
	MallocCalls    int   `json:"malloc_calls"`
	FreeCalls      int   `json:"free_calls"`
	ChangeTagCalls int   `json:"change_tag_calls"`
	FreeTagsCalls  int   `json:"free_tags_calls"`
	Evictions      int   `json:"evictions"`
	EvictedBytes   int64 `json:"evicted_bytes"`
	Splits         int   `json:"splits"`
	Coalesces      int   `json:"coalesces"`
	ScanSteps      int   `json:"scan_steps"`
	BytesAllocated int64 `json:"bytes_allocated"`
	BytesFreed     int64 `json:"bytes_freed"`
}

func (p *Printer) printSnapshotJSON(snap zone.Snapshot) error {
	if snap.Blocks == nil {
		snap.Blocks = []zone.BlockInfo{}
	}
	return p.encode(snap)
}

func (p *Printer) printStatsJSON(s zone.Stats) error {
	return p.encode(jsonStats{
		Size:           s.Size,
		Blocks:         s.Blocks,
		FreeBlocks:     s.FreeBlocks,
		FreeBytes:      s.FreeBytes,
		PurgeableBytes: s.PurgeableBytes,
		LargestFree:    s.LargestFree,
		MallocCalls:    s.MallocCalls,
		FreeCalls:      s.FreeCalls,
		ChangeTagCalls: s.ChangeTagCalls,
		FreeTagsCalls:  s.FreeTagsCalls,
		Evictions:      s.Evictions,
		EvictedBytes:   s.EvictedBytes,
		Splits:         s.Splits,
		Coalesces:      s.Coalesces,
		ScanSteps:      s.ScanSteps,
		BytesAllocated: s.BytesAllocated,
		BytesFreed:     s.BytesFreed,
	})
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", p.opts.Indent)
	return enc.Encode(v)
}
