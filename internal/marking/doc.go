// Package marking coordinates a pool of graders working through a stream of
// exams while sharing one mutable rubric.
//
// All graders operate on a single State. Its fields are partitioned across
// three guards: the rubric guard serializes rubric revisions together with
// their write-through to storage, the selection guard makes question claims
// and completions atomic, and the transition guard makes advancing to the
// next exam (or stopping) happen exactly once per exam. The stop flag is
// readable without any guard and is polled at the top of the outer and inner
// grader loops; it only ever moves from false to true.
//
// ModeUnsynchronized keeps the same loop but replaces every guard with a
// no-op. That mode exists to demonstrate duplicate claims and lost updates and
// must not be used for real work.
//
// Simulated review and marking delays always run with no guard held.
package marking
