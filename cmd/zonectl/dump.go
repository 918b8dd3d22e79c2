package main

import (
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/zonekit/zone"
	"github.com/joshuapare/zonekit/zone/printer"
)

var (
	dumpLow  string
	dumpHigh string
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpLow, "low", "", "Lowest tag to include (name or number)")
	cmd.Flags().StringVar(&dumpHigh, "high", "", "Highest tag to include (name or number)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <trace>",
		Short: "Replay a trace and dump the heap",
		Long: `The dump command replays a trace and prints every block whose tag
falls in [--low, --high]. Without bounds every block is printed, free ones
included. Directory inconsistencies are reported as warnings.

Example:
  zonectl dump level.trace
  zonectl dump level.trace --low purgelevel
  zonectl dump level.trace --low level --high levspec --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args)
		},
	}
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	low, high, err := dumpRange(dumpLow, dumpHigh)
	if err != nil {
		return err
	}

	s, err := replay(cmd.Context(), args[0], replayOptions{})
	if s != nil {
		defer s.close()
	}
	if err != nil {
		return err
	}

	opts := printer.DefaultOptions()
	opts.Low, opts.High = low, high
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(s.zone, os.Stdout, opts).PrintHeap()
}

func dumpRange(lowArg, highArg string) (zone.Tag, zone.Tag, error) {
	low, high := zone.Tag(math.MinInt32), zone.MaxTag
	var err error
	if lowArg != "" {
		if low, err = zone.ParseTag(lowArg); err != nil {
			return 0, 0, err
		}
	}
	if highArg != "" {
		if high, err = zone.ParseTag(highArg); err != nil {
			return 0, 0, err
		}
	}
	return low, high, nil
}
