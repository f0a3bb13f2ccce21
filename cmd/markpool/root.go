package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"markpool/internal/config"
	"markpool/internal/markrun"
)

var errUsage = errors.New("usage: markpool <num_workers>")

func newRootCommand() *cobra.Command {
	var (
		configFlag   string
		modeFlag     string
		logLevelFlag string
		seedFlag     uint64
	)

	ctx := newCLIContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "markpool <num_workers>",
		Short: "Coordinate concurrent graders over a stream of exams",
		Long: `Start num_workers graders that share one rubric and mark the exams in the
data directory (exam1.txt, exam2.txt, ...) until the sentinel exam 9999 is
marked or no further exam exists. Worker counts below marking.min_workers are
raised to it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          workersArg,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			_, err := ctx.loadConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := strconv.Atoi(strings.TrimSpace(args[0]))
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

			var mode config.Mode
			if strings.TrimSpace(modeFlag) != "" {
				mode, err = config.ParseMode(modeFlag)
				if err != nil {
					return err
				}
			}

			result, err := markrun.Run(cmd.Context(), cfg, markrun.Options{
				Workers:  workers,
				Mode:     mode,
				LogLevel: strings.TrimSpace(logLevelFlag),
				Seed:     seedFlag,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Coordination mode: guarded or unsynchronized (overrides marking.mode)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Seed for grader randomness (0 picks one at random)")

	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// workersArg accepts exactly one integer argument.
func workersArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if _, err := strconv.Atoi(strings.TrimSpace(args[0])); err != nil {
		return fmt.Errorf("%w: num_workers must be an integer, got %q", errUsage, args[0])
	}
	return nil
}
