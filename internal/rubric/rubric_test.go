package rubric_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"markpool/internal/rubric"
)

func TestParseAcceptsRecordLayout(t *testing.T) {
	input := "1, A\n2,B\n\n3 ,  C\n4, D\n5, E\n6, Z\n"
	got, err := rubric.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.String() != "ABCDE" {
		t.Fatalf("unexpected rubric %q", got.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"short":     "1, A\n2, B\n",
		"no comma":  "1 A\n2, B\n3, C\n4, D\n5, E\n",
		"no number": "x, A\n2, B\n3, C\n4, D\n5, E\n",
		"no letter": "1,\n2, B\n3, C\n4, D\n5, E\n",
		"non-ascii": "1, \u00e9\n2, B\n3, C\n4, D\n5, E\n",
		"empty":     "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rubric.Parse(strings.NewReader(input))
			if !errors.Is(err, rubric.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	want := rubric.Rubric{'A', 'C', 'B', 'F', 'D'}
	data := rubric.Format(want)
	if !strings.HasPrefix(string(data), "1, A\n2, C\n") {
		t.Fatalf("unexpected layout %q", data)
	}
	got, err := rubric.Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %q want %q", got.String(), want.String())
	}
}

func TestRevise(t *testing.T) {
	cases := []struct {
		in, want byte
	}{
		{'A', 'B'},
		{'Z', '['},
		{rubric.MaxLetter, rubric.MinLetter},
		{' ', rubric.MinLetter},
		{0x80, rubric.MinLetter},
	}
	for _, tc := range cases {
		if got := rubric.Revise(tc.in); got != tc.want {
			t.Fatalf("Revise(%#x) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestFileStoreRoundTripAcrossRepeatedRevisions(t *testing.T) {
	store := rubric.NewFileStore(filepath.Join(t.TempDir(), "rubric.txt"))
	current := rubric.Rubric{'A', 'B', 'C', 'D', 'E'}
	if err := store.Save(current); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for i := 1; i <= 300; i++ {
		current[0] = rubric.Revise(current[0])
		current[4] = rubric.Revise(current[4])
		if err := store.Save(current); err != nil {
			t.Fatalf("revision %d: Save: %v", i, err)
		}
		reloaded, err := store.Load()
		if err != nil {
			t.Fatalf("revision %d: Load: %v", i, err)
		}
		if reloaded != current {
			t.Fatalf("revision %d: saved %q, reloaded %q", i, current.String(), reloaded.String())
		}
		if !utf8.ValidString(reloaded.String()) {
			t.Fatalf("revision %d: rubric %q is not valid UTF-8", i, reloaded.String())
		}
	}
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.txt")
	if err := os.WriteFile(path, []byte("1, A\n2, B\n3, C\n4, D\n5, E\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := rubric.NewFileStore(path)

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded[2] = rubric.Revise(loaded[2])
	if err := store.Save(loaded); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if reloaded.String() != "ABDDE" {
		t.Fatalf("expected persisted revision, got %q", reloaded.String())
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := rubric.NewFileStore(filepath.Join(t.TempDir(), "rubric.txt"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for missing rubric")
	}
}

func TestFileStoreConcurrentSavesNeverTear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.txt")
	store := rubric.NewFileStore(path)
	if err := store.Save(rubric.Rubric{'A', 'A', 'A', 'A', 'A'}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(letter byte) {
			defer wg.Done()
			r := rubric.Rubric{letter, letter, letter, letter, letter}
			for j := 0; j < 10; j++ {
				if err := store.Save(r); err != nil {
					t.Errorf("Save: %v", err)
					return
				}
				if _, err := store.Load(); err != nil {
					t.Errorf("Load: %v", err)
					return
				}
			}
		}(byte('A' + i))
	}
	wg.Wait()

	final, err := store.Load()
	if err != nil {
		t.Fatalf("final Load: %v", err)
	}
	for _, letter := range final {
		if letter != final[0] {
			t.Fatalf("expected a single writer's rubric, got %q", final.String())
		}
	}
}
