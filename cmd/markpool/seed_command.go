package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"markpool/internal/exam"
	"markpool/internal/fileutil"
	"markpool/internal/rubric"
)

func newSeedCommand(ctx *cliContext) *cobra.Command {
	var (
		count      int
		firstID    int
		noSentinel bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a sample rubric and exam files into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}

			rubricPath := cfg.RubricPath()
			_, statErr := os.Stat(rubricPath)
			switch {
			case statErr == nil && !overwrite:
				return fmt.Errorf("rubric already exists at %s (use --overwrite to replace it)", rubricPath)
			case statErr == nil:
				backup := rubricPath + ".bak"
				if err := fileutil.CopyFile(rubricPath, backup); err != nil {
					return fmt.Errorf("back up rubric: %w", err)
				}
				fmt.Fprintf(out, "Backed up existing rubric to %s\n", backup)
			case !errors.Is(statErr, fs.ErrNotExist):
				return fmt.Errorf("check rubric path: %w", statErr)
			}

			store := rubric.NewFileStore(rubricPath)
			if err := store.Save(rubric.Rubric{'A', 'B', 'C', 'D', 'E'}); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote rubric to %s\n", rubricPath)

			paths, err := exam.WriteSample(cfg.Paths.DataDir, exam.SeedOptions{
				Count:     count,
				FirstID:   firstID,
				Sentinel:  !noSentinel,
				Overwrite: overwrite,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d exam files to %s\n", len(paths), cfg.Paths.DataDir)
			if !noSentinel {
				fmt.Fprintf(out, "%s carries the sentinel id %d\n", exam.FileName(len(paths)), exam.SentinelID)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "exams", "n", 3, "Number of exam files to write")
	cmd.Flags().IntVar(&firstID, "first-id", 1, "Student id of the first exam")
	cmd.Flags().BoolVar(&noSentinel, "no-sentinel", false, "Do not make the last exam the sentinel")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing rubric and exam files")
	return cmd
}
