package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	maxLineBytes = 1024 * 1024
	pollInterval = 250 * time.Millisecond
)

// Matcher selects the lines to return. A nil Matcher keeps every line.
type Matcher func(line string) bool

// TailOptions controls Tail.
type TailOptions struct {
	// Limit is the number of trailing lines to return; <= 0 returns none and
	// only reports the end offset.
	Limit int
	Match Matcher
}

// TailResult holds the selected lines and the offset of the end of the file.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail returns the last Limit matching lines of path. A missing file yields an
// empty result.
func Tail(path string, opts TailOptions) (TailResult, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return TailResult{}, err
	}
	defer file.Close()

	if opts.Limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return TailResult{}, fmt.Errorf("seek log file: %w", err)
		}
		return TailResult{Offset: end}, nil
	}

	ring := make([]string, opts.Limit)
	count, next := 0, 0
	offset, err := scanLines(file, func(line string) {
		if opts.Match != nil && !opts.Match(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % opts.Limit
		if count < opts.Limit {
			count++
		}
	})
	if err != nil {
		return TailResult{}, err
	}

	lines := make([]string, count)
	if count == opts.Limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(next+i)%opts.Limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return TailResult{Lines: lines, Offset: offset}, nil
}

// Follow polls path from offset and calls emit for every new matching line
// until ctx is done. A file that shrinks (rotated or truncated) is read again
// from the start.
func Follow(ctx context.Context, path string, offset int64, match Matcher, emit func(string)) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, func(line string) {
			if match == nil || match(line) {
				emit(line)
			}
		})
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, fn func(string)) (int64, error) {
	file, err := openLog(path)
	if err != nil || file == nil {
		return 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	end, err := scanLines(file, fn)
	if err != nil {
		return offset, err
	}
	return offset + end, nil
}

// scanLines calls fn for each complete line and returns the number of bytes
// consumed. A trailing partial line is left for the next read.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return consumed, nil
		}
		if err != nil {
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = trimNewline(line)
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(line)
	}
}

func trimNewline(line string) string {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

func openLog(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
