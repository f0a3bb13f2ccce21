package journal

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"markpool/internal/logging"
	"markpool/internal/marking"
)

const (
	recorderBuffer    = 1024
	recorderBatchSize = 128
)

// Recorder streams marking events into the journal. Record only enqueues; a
// single background goroutine writes batches. Close flushes what is queued.
type Recorder struct {
	store  *Store
	runID  string
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	events chan marking.Event
	done   chan struct{}

	errMu sync.Mutex
	err   error
}

// NewRecorder starts a recorder writing events for runID.
func NewRecorder(store *Store, runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Recorder{
		store:  store,
		runID:  runID,
		logger: logger,
		events: make(chan marking.Event, recorderBuffer),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record implements marking.Recorder. Events recorded after Close are dropped.
func (r *Recorder) Record(ev marking.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	r.events <- ev
}

// Close stops accepting events and waits until every queued event has been
// written or ctx is done. It returns the first write error, if any.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

func (r *Recorder) loop() {
	defer close(r.done)
	batch := make([]marking.Event, 0, recorderBatchSize)
	for ev := range r.events {
		batch = append(batch, ev)
	drain:
		for len(batch) < recorderBatchSize {
			select {
			case next, ok := <-r.events:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}
		r.flush(batch)
		batch = batch[:0]
	}
}

func (r *Recorder) flush(batch []marking.Event) {
	err := r.store.AppendEvents(context.Background(), r.runID, batch)
	if err == nil {
		return
	}
	logging.WarnWithContext(r.logger, "journal write failed", "journal_write_failed",
		logging.String(logging.FieldRunID, r.runID),
		logging.Int("events", len(batch)),
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history will be incomplete"),
	)
	r.errMu.Lock()
	r.err = errors.Join(r.err, err)
	r.errMu.Unlock()
}
