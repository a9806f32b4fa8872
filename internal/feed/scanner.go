// internal/feed/scanner.go
//
// Streaming tab-delimited row reader.
//
// Context:
//   - The inventory file is large and occasionally sloppy: stray
//     quotes, ragged rows with missing or extra columns.  The scanner
//     reads one row at a time with lazy quoting and no field-count
//     enforcement, so a malformed row degrades to best-effort cell
//     assignment instead of killing the run.
//   - Rows the csv reader cannot salvage at all are skipped and
//     counted.  Only a stream-level read failure surfaces from Err().
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
)

// Scanner iterates the data rows of a tab-delimited inventory file.
// Usage follows bufio.Scanner: Next, Record, then Err after the loop.
type Scanner struct {
	path    string
	file    *os.File
	reader  *csv.Reader
	setters []func(*Record, string)
	rec     Record
	skipped int
	err     error
	done    bool
}

// OpenScanner opens the file at path and consumes its header row.
func OpenScanner(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, &ParseError{Path: path, Err: err}
	}

	s := &Scanner{path: path, file: f, reader: r}
	for _, name := range header {
		s.setters = append(s.setters, columnSetters[normalizeHeader(name)])
	}
	return s, nil
}

// Next advances to the next data row.  It returns false at end of file
// or on a stream failure; check Err to tell the two apart.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	for {
		row, err := s.reader.Read()
		if err == io.EOF {
			s.stop()
			return false
		}
		var rowErr *csv.ParseError
		if errors.As(err, &rowErr) {
			s.skipped++
			continue
		}
		if err != nil {
			s.err = &ParseError{Path: s.path, Err: err}
			s.stop()
			return false
		}

		s.rec = Record{}
		for i, cell := range row {
			if i >= len(s.setters) {
				break
			}
			if set := s.setters[i]; set != nil {
				set(&s.rec, cell)
			}
		}
		return true
	}
}

// Record returns the row read by the last successful Next.
func (s *Scanner) Record() Record { return s.rec }

// Skipped reports how many rows were dropped as unreadable.
func (s *Scanner) Skipped() int { return s.skipped }

// Err returns the stream failure that ended iteration, if any.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying file.  Safe after Next returned false.
func (s *Scanner) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	s.done = true
	return f.Close()
}

func (s *Scanner) stop() {
	s.done = true
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
}
