package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	// Arena overrides
	arenaSize   int
	arenaBack   string
	minFragment int

	// cfg is loaded before every command runs.
	cfg    = DefaultConfig()
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "zonectl",
	Short: "Replay and inspect tagged zone allocator workloads",
	Long: `zonectl replays allocation traces against a tagged zone allocator.
It verifies the heap directory, dumps blocks by tag and reports allocator
counters as text, JSON or Prometheus metrics.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to a zonectl.toml configuration file")

	rootCmd.PersistentFlags().IntVar(&arenaSize, "size", 0, "Arena size in bytes (overrides config)")
	rootCmd.PersistentFlags().StringVar(&arenaBack, "backing", "", "Arena backing: heap or mmap (overrides config)")
	rootCmd.PersistentFlags().
		IntVar(&minFragment, "min-fragment", 0, "Largest remainder left unsplit (overrides config)")
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	loaded, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("size") {
		loaded.Arena.Size = arenaSize
	}
	if flags.Changed("backing") {
		loaded.Arena.Backing = arenaBack
	}
	if flags.Changed("min-fragment") {
		loaded.Arena.MinFragment = minFragment
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger, err = newLogger(cfg.Log)
	return err
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Output helpers. Results go to stdout, diagnostics to stderr.

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError is never silenced by --quiet.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON writes v indented; --quiet does not apply.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
