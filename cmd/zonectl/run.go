package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	runCheckEach bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runCheckEach, "check-each", false, "Verify the heap after every command")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace",
		Long: `The run command replays a trace script against a fresh zone and
prints a summary. dump commands inside the trace write to stdout.

Example:
  zonectl run level.trace
  zonectl run level.trace --check-each
  zonectl run level.trace --size 1048576 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := replay(cmd.Context(), args[0], replayOptions{
		checkEach: runCheckEach,
		dumpTo:    os.Stdout,
	})
	if s != nil {
		defer s.close()
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"steps":     s.result.Steps,
			"live":      s.result.Live,
			"evicted":   s.result.Evicted,
			"evictions": s.result.Stats.Evictions,
			"free":      s.result.Stats.FreeBytes + s.result.Stats.PurgeableBytes,
		})
	}
	printInfo("%s\n", s.result.Summary())
	return nil
}
