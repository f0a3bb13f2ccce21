package exam_test

import (
	"os"
	"path/filepath"
	"testing"

	"markpool/internal/exam"
)

func TestDirSourceLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("exam1.txt", "0042\nQ1 ...\n")
	write("exam2.txt", "  9999 trailing words")
	write("exam3.txt", "not-a-number\n")
	write("exam4.txt", "")

	source := exam.NewDirSource(dir)

	item, ok := source.Load(1)
	if !ok || item.ID != 42 || item.Index != 1 {
		t.Fatalf("unexpected exam 1: %+v ok=%v", item, ok)
	}
	if item.IsSentinel() {
		t.Fatal("exam 1 is not the sentinel")
	}

	item, ok = source.Load(2)
	if !ok || !item.IsSentinel() {
		t.Fatalf("expected sentinel exam 2, got %+v ok=%v", item, ok)
	}

	for _, index := range []int{3, 4, 5} {
		if _, ok := source.Load(index); ok {
			t.Fatalf("expected exam %d to be unavailable", index)
		}
	}
}

func TestWriteSample(t *testing.T) {
	dir := t.TempDir()
	paths, err := exam.WriteSample(dir, exam.SeedOptions{Count: 3, FirstID: 1, Sentinel: true})
	if err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %d", len(paths))
	}

	source := exam.NewDirSource(dir)
	first, ok := source.Load(1)
	if !ok || first.ID != 1 {
		t.Fatalf("unexpected first exam %+v ok=%v", first, ok)
	}
	last, ok := source.Load(3)
	if !ok || !last.IsSentinel() {
		t.Fatalf("expected sentinel last exam, got %+v ok=%v", last, ok)
	}

	if _, err := exam.WriteSample(dir, exam.SeedOptions{Count: 1}); err == nil {
		t.Fatal("expected error when exam files exist")
	}
	if _, err := exam.WriteSample(dir, exam.SeedOptions{Count: 1, FirstID: 7, Overwrite: true}); err != nil {
		t.Fatalf("WriteSample overwrite: %v", err)
	}
	if item, _ := source.Load(1); item.ID != 7 {
		t.Fatalf("expected overwritten id 7, got %d", item.ID)
	}
}

func TestWriteSampleRejectsZeroCount(t *testing.T) {
	if _, err := exam.WriteSample(t.TempDir(), exam.SeedOptions{}); err == nil {
		t.Fatal("expected error for zero count")
	}
}
