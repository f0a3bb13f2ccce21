package journal

import (
	"context"
	"database/sql"
	"fmt"

	"markpool/internal/marking"
)

const insertEvent = `INSERT INTO events (run_id, at, kind, worker, item_index, item_id, question, detail)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// AppendEvents stores events for run id in one transaction.
func (s *Store) AppendEvents(ctx context.Context, runID string, events []marking.Event) error {
	if len(events) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin events tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, insertEvent)
		if err != nil {
			return fmt.Errorf("prepare event insert: %w", err)
		}
		defer stmt.Close()

		for _, ev := range events {
			if _, err := stmt.ExecContext(ctx,
				runID,
				formatTime(ev.At),
				string(ev.Kind),
				ev.Worker,
				ev.ItemIndex,
				ev.ItemID,
				ev.Question,
				nullableString(ev.Detail),
			); err != nil {
				return fmt.Errorf("insert event: %w", err)
			}
		}
		return tx.Commit()
	})
}

// Events returns the events of run id in insertion order. limit <= 0 returns all.
func (s *Store) Events(ctx context.Context, runID string, limit int) ([]EventRecord, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, run_id, at, kind, worker, item_index, item_id, question, detail
        FROM events WHERE run_id = ? ORDER BY id`
	args := []any{runID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var (
			rec    EventRecord
			atRaw  sql.NullString
			detail sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &atRaw, &rec.Kind, &rec.Worker, &rec.ItemIndex, &rec.ItemID, &rec.Question, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.At = parseTime(atRaw)
		rec.Detail = detail.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// EventCounts returns how many events of each kind run id recorded.
func (s *Store) EventCounts(ctx context.Context, runID string) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM events WHERE run_id = ? GROUP BY kind", runID)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event counts: %w", err)
	}
	return counts, nil
}
