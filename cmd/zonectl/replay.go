package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/zonekit/pkg/trace"
	"github.com/joshuapare/zonekit/zone"
)

// replayOptions controls a single trace replay.
type replayOptions struct {
	checkEach bool
	dumpTo    io.Writer
}

// session is a zone with a trace replayed into it.
type session struct {
	zone   *zone.Zone
	result trace.Result
	close  func() error
}

// replay opens a zone per the loaded configuration and runs the trace at
// path into it. On a replay failure the session is still returned so the
// caller can inspect the zone; the error carries the failing line.
func replay(ctx context.Context, path string, opts replayOptions) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	cmds, err := trace.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	printVerbose("Parsed %d commands from %s\n", len(cmds), path)

	z, closeFn, err := openZone(cfg, logger)
	if err != nil {
		return nil, err
	}

	runOpts := []trace.Option{
		trace.WithLogger(logger.With().Str("component", "trace").Logger()),
		trace.WithCheckEach(opts.checkEach),
	}
	if opts.dumpTo != nil {
		runOpts = append(runOpts, trace.WithOutput(opts.dumpTo))
	}
	res, runErr := trace.NewRunner(z, runOpts...).Run(ctx, cmds)
	return &session{zone: z, result: res, close: closeFn}, runErr
}
