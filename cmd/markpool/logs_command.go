package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"markpool/internal/logs"
)

func newLogsCommand(ctx *cliContext) *cobra.Command {
	var (
		lines  int
		follow bool
		grader int
		grep   string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the markpool log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, "markpool.log")
			match := logMatcher(grader, grep)
			out := cmd.OutOrStdout()

			result, err := logs.Tail(path, logs.TailOptions{Limit: lines, Match: match})
			if err != nil {
				return err
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, result.Offset, match, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().IntVar(&grader, "grader", -1, "Only show lines from this grader")
	cmd.Flags().StringVar(&grep, "grep", "", "Only show lines containing this text")
	return cmd
}

// logMatcher filters console-format lines, where graders log as
// "grader[N]:" and JSON-format lines, where they carry "worker":N.
func logMatcher(grader int, grep string) logs.Matcher {
	if grader < 0 && grep == "" {
		return nil
	}
	console := fmt.Sprintf("[%d]:", grader)
	jsonKey := fmt.Sprintf(`"worker":%d,`, grader)
	jsonEnd := fmt.Sprintf(`"worker":%d}`, grader)
	return func(line string) bool {
		if grep != "" && !strings.Contains(line, grep) {
			return false
		}
		if grader >= 0 {
			return strings.Contains(line, console) || strings.Contains(line, jsonKey) || strings.Contains(line, jsonEnd)
		}
		return true
	}
}
