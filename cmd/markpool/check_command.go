package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"markpool/internal/preflight"
)

func newCheckCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks against the data and log directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := colorize("ok", ansiGreen, color)
				if !r.Passed {
					status = colorize("failed", ansiRed, color)
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			return preflight.Error(results)
		},
	}
}
