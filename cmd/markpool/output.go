package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"markpool/internal/markrun"
	"markpool/internal/marking"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(value, color string, enabled bool) string {
	if !enabled || color == "" {
		return value
	}
	return color + value + ansiReset
}

func stopReasonColor(reason string) string {
	switch marking.StopReason(reason) {
	case marking.StopSentinel, marking.StopExhausted:
		return ansiGreen
	case marking.StopInterrupted:
		return ansiYellow
	case marking.StopAborted:
		return ansiRed
	default:
		return ""
	}
}

// eventLabel turns an event kind such as "subtask_claimed" into "Subtask Claimed".
func eventLabel(kind string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(kind, "_", " "))
}

func printSummary(out io.Writer, result markrun.Result) {
	s := result.Summary
	color := shouldColorize(out)
	rows := [][]string{
		{"Workers", fmt.Sprintf("%d", s.Workers)},
		{"Mode", string(s.Mode)},
		{"Stop reason", colorize(string(s.StopReason), stopReasonColor(string(s.StopReason)), color)},
		{"Final exam", fmt.Sprintf("#%d (student %d)", s.Final.Index, s.Final.ID)},
		{"Exams completed", fmt.Sprintf("%d", s.Transitions)},
		{"Questions marked", fmt.Sprintf("%d", s.Completions)},
		{"Rubric revisions", fmt.Sprintf("%d", s.Revisions)},
		{"Final rubric", s.Rubric.String()},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	}
	if result.RunID != "" {
		rows = append(rows, []string{"Run", result.RunID})
	}
	fmt.Fprintln(out, renderKeyValue(rows))
}
