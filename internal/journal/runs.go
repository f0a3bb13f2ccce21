package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, started_at, finished_at, mode, workers, first_index, first_item_id, rubric_before, stop_reason, final_index, final_item_id, rubric_after, claims, completions, revisions, transitions, error_message"

// StartRun inserts a new run and returns it with a fresh id.
func (s *Store) StartRun(ctx context.Context, start RunStart) (*Run, error) {
	if start.StartedAt.IsZero() {
		start.StartedAt = time.Now()
	}
	id := uuid.NewString()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, started_at, mode, workers, first_index, first_item_id, rubric_before)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		formatTime(start.StartedAt),
		start.Mode,
		start.Workers,
		start.FirstIndex,
		start.FirstItemID,
		start.RubricBefore,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// FinishRun stores the outcome of run id.
func (s *Store) FinishRun(ctx context.Context, id string, result RunResult) error {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, stop_reason = ?, final_index = ?, final_item_id = ?,
            rubric_after = ?, claims = ?, completions = ?, revisions = ?, transitions = ?, error_message = ?
         WHERE id = ?`,
		formatTime(result.FinishedAt),
		nullableString(result.StopReason),
		result.FinalIndex,
		result.FinalItemID,
		nullableString(result.RubricAfter),
		result.Claims,
		result.Completions,
		result.Revisions,
		result.Transitions,
		nullableString(result.ErrorMessage),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun returns the run whose id equals or starts with id. An ambiguous
// prefix is an error.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2",
		id, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Clear removes every run and its events. It returns the number of runs removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
		stopReason   sql.NullString
		finalIndex   sql.NullInt64
		finalItemID  sql.NullInt64
		rubricAfter  sql.NullString
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.Mode,
		&run.Workers,
		&run.FirstIndex,
		&run.FirstItemID,
		&run.RubricBefore,
		&stopReason,
		&finalIndex,
		&finalItemID,
		&rubricAfter,
		&run.Claims,
		&run.Completions,
		&run.Revisions,
		&run.Transitions,
		&errorMessage,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	run.StopReason = stopReason.String
	run.FinalIndex = int(finalIndex.Int64)
	run.FinalItemID = int(finalItemID.Int64)
	run.RubricAfter = rubricAfter.String
	run.ErrorMessage = errorMessage.String
	return &run, nil
}
