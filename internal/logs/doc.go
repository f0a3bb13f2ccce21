// Package logs reads the markpool log file for the "markpool logs" command.
//
// Tail returns the last N lines (optionally filtered) together with the byte
// offset reached, and Follow polls from an offset, handing each new line to a
// callback until the context ends. Memory stays bounded by the line limit.
package logs
