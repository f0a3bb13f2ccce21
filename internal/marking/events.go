package marking

import "time"

// EventKind names a notable state change.
type EventKind string

const (
	EventItemLoaded       EventKind = "item_loaded"
	EventRubricRevised    EventKind = "rubric_revised"
	EventSubtaskClaimed   EventKind = "subtask_claimed"
	EventSubtaskCompleted EventKind = "subtask_completed"
	EventItemAdvanced     EventKind = "item_advanced"
	EventStopped          EventKind = "stopped"
)

// Event describes one state change. Worker is -1 for coordinator events and
// Question is -1 when no question is involved.
type Event struct {
	Kind      EventKind
	At        time.Time
	Worker    int
	ItemIndex int
	ItemID    int
	Question  int
	Detail    string
}

// Recorder receives events from every grader concurrently. Implementations
// must be safe for concurrent use and should not block for long; events about
// claims and revisions are recorded after the guard is released, transition
// events while the transition guard is held.
type Recorder interface {
	Record(Event)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Event)

func (f RecorderFunc) Record(ev Event) { f(ev) }

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}
