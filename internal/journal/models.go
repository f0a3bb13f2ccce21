package journal

import "time"

// Run is one journaled marking run.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Mode         string
	Workers      int
	FirstIndex   int
	FirstItemID  int
	RubricBefore string
	StopReason   string
	FinalIndex   int
	FinalItemID  int
	RubricAfter  string
	Claims       int
	Completions  int
	Revisions    int
	Transitions  int
	ErrorMessage string
}

// Finished reports whether FinishRun has been recorded.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Duration returns the wall time of a finished run.
func (r *Run) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunStart holds the parameters recorded when a run begins.
type RunStart struct {
	StartedAt    time.Time
	Mode         string
	Workers      int
	FirstIndex   int
	FirstItemID  int
	RubricBefore string
}

// RunResult holds the outcome recorded when a run ends.
type RunResult struct {
	FinishedAt   time.Time
	StopReason   string
	FinalIndex   int
	FinalItemID  int
	RubricAfter  string
	Claims       int
	Completions  int
	Revisions    int
	Transitions  int
	ErrorMessage string
}

// EventRecord is one stored grader event.
type EventRecord struct {
	ID        int64
	RunID     string
	At        time.Time
	Kind      string
	Worker    int
	ItemIndex int
	ItemID    int
	Question  int
	Detail    string
}
