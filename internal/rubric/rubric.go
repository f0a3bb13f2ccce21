// Package rubric models the shared grading rubric and its record file.
//
// A rubric holds one grade letter per exam question. The on-disk form is one
// "N, L" record per line (question number, letter), e.g.
//
//	1, A
//	2, B
package rubric

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Size is the number of rubric entries, one per exam question.
const Size = 5

// Letters are single printable, non-space ASCII bytes.
const (
	MinLetter byte = '!'
	MaxLetter byte = '~'
)

// ErrMalformed reports a rubric file that does not hold Size valid records.
var ErrMalformed = errors.New("rubric format incorrect")

// Rubric is the ordered set of grade letters.
type Rubric [Size]byte

// String renders the letters without separators, e.g. "ABCDE".
func (r Rubric) String() string {
	return string(r[:])
}

// Revise returns the letter that follows current. Revisions move a letter
// forward and wrap from MaxLetter back to MinLetter; a letter outside that
// range restarts at MinLetter.
func Revise(current byte) byte {
	if current < MinLetter || current >= MaxLetter {
		return MinLetter
	}
	return current + 1
}

// ValidLetter reports whether b can be stored in a rubric record.
func ValidLetter(b byte) bool {
	return b >= MinLetter && b <= MaxLetter
}

// Parse reads the first Size records from r. Blank lines are skipped and
// anything after the last required record is ignored.
func Parse(r io.Reader) (Rubric, error) {
	var out Rubric
	scanner := bufio.NewScanner(r)
	n := 0
	line := 0
	for n < Size && scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		number, letter, ok := strings.Cut(text, ",")
		if !ok {
			return Rubric{}, fmt.Errorf("%w: line %d: missing comma in %q", ErrMalformed, line, text)
		}
		if _, err := strconv.Atoi(strings.TrimSpace(number)); err != nil {
			return Rubric{}, fmt.Errorf("%w: line %d: question number %q", ErrMalformed, line, strings.TrimSpace(number))
		}
		letter = strings.TrimSpace(letter)
		if letter == "" {
			return Rubric{}, fmt.Errorf("%w: line %d: missing letter", ErrMalformed, line)
		}
		if !ValidLetter(letter[0]) {
			return Rubric{}, fmt.Errorf("%w: line %d: letter %q is not printable ASCII", ErrMalformed, line, letter)
		}
		out[n] = letter[0]
		n++
	}
	if err := scanner.Err(); err != nil {
		return Rubric{}, fmt.Errorf("read rubric: %w", err)
	}
	if n < Size {
		return Rubric{}, fmt.Errorf("%w: found %d of %d records", ErrMalformed, n, Size)
	}
	return out, nil
}

// Format renders r in the record file layout. Each letter is written as the
// raw byte Parse reads back.
func Format(r Rubric) []byte {
	var buf bytes.Buffer
	for i, letter := range r {
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString(", ")
		buf.WriteByte(letter)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
