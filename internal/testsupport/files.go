package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"markpool/internal/exam"
	"markpool/internal/rubric"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRubric stores r as the rubric record file in dir and returns its path.
func WriteRubric(t testing.TB, dir string, r rubric.Rubric) string {
	t.Helper()

	path := filepath.Join(dir, "rubric.txt")
	WriteFile(t, path, string(rubric.Format(r)))
	return path
}

// WriteExams writes one exam file per student id, starting at exam1.txt.
func WriteExams(t testing.TB, dir string, ids ...int) {
	t.Helper()

	for i, id := range ids {
		WriteFile(t, filepath.Join(dir, exam.FileName(i+1)), fmt.Sprintf("%04d\nanswers\n", id))
	}
}

// DefaultRubric is the letters a fresh rubric starts with.
var DefaultRubric = rubric.Rubric{'A', 'B', 'C', 'D', 'E'}
