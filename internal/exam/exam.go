// Package exam reads the stream of exams the graders work through.
//
// Exams live in the data directory as exam1.txt, exam2.txt, ... Each file
// starts with the student id; the remainder is ignored. Student id 9999 is the
// sentinel: once that exam is fully marked the run stops.
package exam

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SentinelID marks the last exam of a run.
const SentinelID = 9999

// Questions is the number of questions on every exam.
const Questions = 5

// Item is one loaded exam.
type Item struct {
	Index int
	ID    int
}

// IsSentinel reports whether completing this exam ends the run.
func (i Item) IsSentinel() bool {
	return i.ID == SentinelID
}

// DirSource loads exams from exam<N>.txt files in a directory.
type DirSource struct {
	dir string
}

// NewDirSource returns a source reading from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// FileName returns the file name used for index.
func FileName(index int) string {
	return fmt.Sprintf("exam%d.txt", index)
}

// Path returns the file path used for index.
func (s *DirSource) Path(index int) string {
	return filepath.Join(s.dir, FileName(index))
}

// Load reads the exam at index. A missing file or one that does not start with
// an integer yields false; running out of exams is not an error.
func (s *DirSource) Load(index int) (Item, bool) {
	f, err := os.Open(s.Path(index))
	if err != nil {
		return Item{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	if !scanner.Scan() {
		return Item{}, false
	}
	id, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return Item{}, false
	}
	return Item{Index: index, ID: id}, true
}
