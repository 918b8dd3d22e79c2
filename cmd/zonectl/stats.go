package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/zonekit/zone/metrics"
	"github.com/joshuapare/zonekit/zone/printer"
)

var (
	statsProm     bool
	statsZoneName string
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsProm, "prom", false, "Output in Prometheus text exposition format")
	cmd.Flags().StringVar(&statsZoneName, "zone-label", "", "Value of a zone=\"...\" label on every metric")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Replay a trace and show allocator statistics",
		Long: `The stats command replays a trace and prints the zone counters
(calls, evictions, splits, coalesces) and a census of the directory.

Example:
  zonectl stats level.trace
  zonectl stats level.trace --json
  zonectl stats level.trace --prom --zone-label main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args)
		},
	}
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := replay(cmd.Context(), args[0], replayOptions{})
	if s != nil {
		defer s.close()
	}
	if err != nil {
		return err
	}

	if statsProm {
		var opts []metrics.Option
		if statsZoneName != "" {
			opts = append(opts, metrics.WithConstLabels(prometheus.Labels{"zone": statsZoneName}))
		}
		reg := metrics.NewRegistry(metrics.NewCollector(s.zone, opts...))
		return metrics.WriteText(os.Stdout, reg)
	}

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(s.zone, os.Stdout, opts).PrintStats()
}
