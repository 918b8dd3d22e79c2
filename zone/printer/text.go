package printer

import (
	"fmt"
	"text/tabwriter"

	"github.com/joshuapare/zonekit/zone"
)

func (p *Printer) printSnapshotText(snap zone.Snapshot) error {
	return snap.WriteText(p.writer)
}

// printStatsText prints one aligned "name: value" row per field.
func (p *Printer) printStatsText(s zone.Stats) error {
	tw := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value any
	}{
		{"Arena size", s.Size},
		{"Blocks", s.Blocks},
		{"Free blocks", s.FreeBlocks},
		{"Free bytes", s.FreeBytes},
		{"Purgeable bytes", s.PurgeableBytes},
		{"Largest free", s.LargestFree},
		{"Malloc calls", s.MallocCalls},
		{"Free calls", s.FreeCalls},
		{"ChangeTag calls", s.ChangeTagCalls},
		{"FreeTags calls", s.FreeTagsCalls},
		{"Evictions", s.Evictions},
		{"Evicted bytes", s.EvictedBytes},
		{"Splits", s.Splits},
		{"Coalesces", s.Coalesces},
		{"Scan steps", s.ScanSteps},
		{"Bytes allocated", s.BytesAllocated},
		{"Bytes freed", s.BytesFreed},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%v\n", r.name, r.value); err != nil {
			return err
		}
	}
	return tw.Flush()
}
