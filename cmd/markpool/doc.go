// Package main hosts the markpool CLI entrypoint and command graph.
//
// Invoked as "markpool <num_workers>" it runs one marking session over the
// configured data directory and prints a summary. Subcommands cover the
// surrounding chores: seeding sample data, preflight checks, run history
// from the journal, and configuration scaffolding.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
