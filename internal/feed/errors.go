// internal/feed/errors.go
//
// Typed failures for the download, extract, and parse stages.
//
// Context:
//   - Each stage owns one error type so the runner can report which
//     stage killed the run without string matching.  All three wrap an
//     underlying cause for errors.Is and errors.As.
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import "fmt"

// NetworkError reports a failed feed download.  Status is zero when the
// request never produced a response.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feed: download %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("feed: download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ArchiveError reports a failed extraction, including the case where
// the archive holds no tabular member.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("feed: archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// ParseError reports a stream-level failure while reading the tabular
// file.  Individual malformed rows never raise it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
