// Package preflight provides readiness checks for the filesystem paths a
// marking run depends on.
//
// These checks run in two contexts:
//   - markrun calls RunAll before starting graders and refuses to start when
//     any check fails, so a run never begins against a data directory it
//     cannot write rubric revisions to.
//   - The CLI "markpool check" command prints every result as a table.
package preflight
