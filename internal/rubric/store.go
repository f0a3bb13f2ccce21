package rubric

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"markpool/internal/fileutil"
)

// FileStore persists a rubric as a record file. Reads take a shared flock and
// writes an exclusive one on "<path>.lock"; each call opens its own lock handle
// so concurrent goroutines and other processes exclude each other.
type FileStore struct {
	path     string
	lockPath string
}

// NewFileStore returns a store backed by the record file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lockPath: path + ".lock"}
}

// Path returns the record file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the rubric.
func (s *FileStore) Load() (Rubric, error) {
	lock := flock.New(s.lockPath)
	if err := lock.RLock(); err != nil {
		return Rubric{}, fmt.Errorf("lock rubric: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Rubric{}, fmt.Errorf("open rubric: %w", err)
	}
	r, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Rubric{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return r, nil
}

// Save overwrites the record file with r.
func (s *FileStore) Save(r Rubric) error {
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock rubric: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	if err := fileutil.WriteFileAtomic(s.path, Format(r), 0o644); err != nil {
		return fmt.Errorf("save rubric: %w", err)
	}
	return nil
}
