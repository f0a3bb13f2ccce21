package marking

import (
	"errors"
	"fmt"
)

// ErrFirstExam reports that the first exam of a run could not be loaded.
var ErrFirstExam = errors.New("first exam unavailable")

// StartupError is returned when the run cannot begin: the rubric is missing or
// malformed, or the first exam does not load. No grader has been started.
type StartupError struct {
	Op  string
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: %s: %v", e.Op, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// StopReason records why the stop flag was raised.
type StopReason string

const (
	StopNone StopReason = ""
	// StopSentinel: the sentinel exam was fully marked.
	StopSentinel StopReason = "sentinel"
	// StopExhausted: the next exam failed to load. This is the normal end of a
	// stream without a sentinel, not an error.
	StopExhausted StopReason = "exhausted"
	// StopInterrupted: the coordinator was asked to shut down.
	StopInterrupted StopReason = "interrupted"
	// StopAborted: a grader panicked and the run cannot complete.
	StopAborted StopReason = "aborted"
)
