package printer

import (
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/zonekit/zone"
)

// Format selects how heap dumps and counters are rendered.
type Format string

const (
	// FormatText outputs the human-readable heap dump.
	FormatText Format = "text"

	// FormatJSON emits one JSON document per call.
	FormatJSON Format = "json"
)

// Options configure a Printer.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Low and High bound the tags printed by PrintHeap.
	// Default: every tag, free blocks included
	Low, High zone.Tag

	// Indent is the JSON indent string. Empty means compact output.
	// Default: two spaces
	Indent string

	// ShowWarnings includes directory inconsistencies in the output.
	// Default: true
	ShowWarnings bool
}

// DefaultOptions prints every block as text, warnings included.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		Low:          math.MinInt32,
		High:         zone.MaxTag,
		Indent:       "  ",
		ShowWarnings: true,
	}
}

// Source is the part of a zone the printer reads.
type Source interface {
	Snapshot(low, high zone.Tag) zone.Snapshot
	Stats() zone.Stats
}

// Printer renders zone snapshots and counters to a writer.
type Printer struct {
	opts   Options
	writer io.Writer
	src    Source
}

// New returns a Printer reading from src.
//
// Example:
//
//	z, _ := zone.New(make([]byte, 1<<20))
//	p := printer.New(z, os.Stdout, printer.DefaultOptions())
//	p.PrintHeap()
func New(src Source, w io.Writer, opts Options) *Printer {
	return &Printer{
		src:    src,
		writer: w,
		opts:   opts,
	}
}

// PrintHeap prints the blocks whose tags fall in [Low, High].
func (p *Printer) PrintHeap() error {
	snap := p.src.Snapshot(p.opts.Low, p.opts.High)
	if !p.opts.ShowWarnings {
		snap.Warnings = nil
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printSnapshotJSON(snap)
	case FormatText:
		return p.printSnapshotText(snap)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// PrintStats prints the zone counters and census.
func (p *Printer) PrintStats() error {
	s := p.src.Stats()

	switch p.opts.Format {
	case FormatJSON:
		return p.printStatsJSON(s)
	case FormatText:
		return p.printStatsText(s)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}
