package main

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at link time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
	Module  string `json:"module,omitempty"`
}

func currentBuild() buildInfo {
	info := buildInfo{Version: version, Commit: commit, Built: date, Go: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path == "github.com/joshuapare/zonekit" {
				info.Module = dep.Version
			}
		}
	}
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		if jsonOut {
			return printJSON(info)
		}
		printInfo("zonectl %s\n", info.Version)
		printInfo("  commit: %s\n", info.Commit)
		printInfo("  built: %s\n", info.Built)
		printInfo("  go: %s\n", info.Go)
		if info.Module != "" {
			printInfo("  zonekit: %s\n", info.Module)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
