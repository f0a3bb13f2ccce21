package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"markpool/internal/journal"
)

func newHistoryCommand(ctx *cliContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled marking runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				color := shouldColorize(out)
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						run.Mode,
						strconv.Itoa(run.Workers),
						colorize(stopLabel(run), stopReasonColor(run.StopReason), color),
						strconv.Itoa(run.Transitions),
						strconv.Itoa(run.Revisions),
						rubricChange(run),
						runDuration(run),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Mode", "Workers", "Stop", "Exams", "Revisions", "Rubric", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *cliContext) *cobra.Command {
	var eventLimit int

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its event counts and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				color := shouldColorize(out)

				details := [][]string{
					{"Run", run.ID},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Mode", run.Mode},
					{"Workers", strconv.Itoa(run.Workers)},
					{"First exam", fmt.Sprintf("#%d (student %d)", run.FirstIndex, run.FirstItemID)},
					{"Stop reason", colorize(stopLabel(run), stopReasonColor(run.StopReason), color)},
					{"Final exam", fmt.Sprintf("#%d (student %d)", run.FinalIndex, run.FinalItemID)},
					{"Rubric", rubricChange(run)},
					{"Questions marked", strconv.Itoa(run.Completions)},
					{"Duration", runDuration(run)},
				}
				if run.ErrorMessage != "" {
					details = append(details, []string{"Error", run.ErrorMessage})
				}
				fmt.Fprintln(out, renderKeyValue(details))

				counts, err := store.EventCounts(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				kinds := make([]string, 0, len(counts))
				for kind := range counts {
					kinds = append(kinds, kind)
				}
				sort.Strings(kinds)
				countRows := make([][]string, 0, len(kinds))
				for _, kind := range kinds {
					countRows = append(countRows, []string{eventLabel(kind), strconv.Itoa(counts[kind])})
				}
				if len(countRows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"Event", "Count"}, countRows, []columnAlignment{alignLeft, alignRight}))
				}

				if eventLimit == 0 {
					return nil
				}
				events, err := store.Events(cmd.Context(), run.ID, eventLimit)
				if err != nil {
					return err
				}
				eventRows := make([][]string, 0, len(events))
				for _, ev := range events {
					eventRows = append(eventRows, []string{
						ev.At.Local().Format("15:04:05.000"),
						eventLabel(ev.Kind),
						optionalInt(ev.Worker),
						strconv.Itoa(ev.ItemIndex),
						strconv.Itoa(ev.ItemID),
						optionalInt(questionNumber(ev.Question)),
						ev.Detail,
					})
				}
				if len(eventRows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"Time", "Event", "Grader", "Exam", "Student", "Question", "Detail"},
						eventRows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
					))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&eventLimit, "events", "e", 50, "Maximum number of events to print (0 to skip, -1 for all)")
	return cmd
}

func newHistoryClearCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every journaled run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
}

func withJournal(ctx *cliContext, fn func(*journal.Store) error) error {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func stopLabel(run *journal.Run) string {
	if !run.Finished() {
		return "running"
	}
	if run.StopReason == "" {
		return "-"
	}
	return run.StopReason
}

func rubricChange(run *journal.Run) string {
	if run.RubricAfter == "" || run.RubricAfter == run.RubricBefore {
		return run.RubricBefore
	}
	return run.RubricBefore + " -> " + run.RubricAfter
}

func runDuration(run *journal.Run) string {
	if !run.Finished() {
		return "-"
	}
	return run.Duration().Round(time.Millisecond).String()
}

func optionalInt(v int) string {
	if v < 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

// questionNumber converts a zero-based question index to the 1-based number
// shown to users, keeping -1 for "no question".
func questionNumber(q int) int {
	if q < 0 {
		return q
	}
	return q + 1
}
