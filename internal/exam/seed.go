package exam

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SeedOptions controls WriteSample.
type SeedOptions struct {
	// Count is the number of exam files to write.
	Count int
	// FirstID is the student id of the first exam; later ones count up.
	FirstID int
	// Sentinel makes the last exam carry SentinelID.
	Sentinel bool
	// Overwrite replaces existing exam files.
	Overwrite bool
}

// WriteSample writes exam1.txt..exam<Count>.txt into dir and returns the paths.
func WriteSample(dir string, opts SeedOptions) ([]string, error) {
	if opts.Count <= 0 {
		return nil, errors.New("exam count must be positive")
	}
	if opts.FirstID <= 0 {
		opts.FirstID = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	paths := make([]string, 0, opts.Count)
	for i := 1; i <= opts.Count; i++ {
		path := filepath.Join(dir, FileName(i))
		if !opts.Overwrite {
			if _, err := os.Stat(path); err == nil {
				return paths, fmt.Errorf("exam file already exists at %s (use --overwrite to replace it)", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return paths, fmt.Errorf("check exam path: %w", err)
			}
		}
		id := opts.FirstID + i - 1
		if opts.Sentinel && i == opts.Count {
			id = SentinelID
		}
		content := fmt.Sprintf("%04d\n", id)
		for q := 1; q <= Questions; q++ {
			content += fmt.Sprintf("Q%d: answer for student %04d\n", q, id)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
