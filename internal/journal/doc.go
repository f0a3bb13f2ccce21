// Package journal persists a record of every marking run in SQLite.
//
// Each run gets a row in runs, keyed by a UUID, holding its parameters and
// final summary. Grader events (claims, completions, rubric revisions, exam
// transitions, stop) stream into the events table through Recorder, which
// batches inserts on a background goroutine so graders never wait on disk.
//
// Schema changes bump schemaVersion in schema.go; users clear the database to
// adopt the new schema.
package journal
