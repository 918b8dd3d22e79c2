package main

import (
	"github.com/spf13/cobra"
)

var (
	checkEach bool
)

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkEach, "check-each", true, "Verify the heap after every command, not only at the end")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace and verify the heap directory",
		Long: `The check command replays a trace and verifies the block directory
after every command (or only once at the end with --check-each=false).
It exits non-zero on the first broken invariant or failed expectation.

Example:
  zonectl check level.trace
  zonectl check level.trace --check-each=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := replay(cmd.Context(), args[0], replayOptions{checkEach: checkEach})
	if s != nil {
		defer s.close()
	}
	if err != nil {
		return err
	}
	if !checkEach {
		if err := finalCheck(s); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(map[string]any{
			"ok":     true,
			"steps":  s.result.Steps,
			"blocks": s.result.Stats.Blocks,
		})
	}
	printInfo("heap OK after %d steps (%d blocks)\n", s.result.Steps, s.result.Stats.Blocks)
	return nil
}

// finalCheck runs CheckHeap once, returning its fatal error instead of
// panicking.
func finalCheck(s *session) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(error)
			if !ok {
				panic(rec)
			}
			err = e
		}
	}()
	s.zone.CheckHeap()
	return nil
}
