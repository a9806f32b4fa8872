// internal/pipeline/result.go
//
// Run outcome value.

package pipeline

import (
	"strings"
	"time"
)

// Result summarises one sync run.  The runner builds it, the audit log
// persists it, and daemon mode reports it between ticks.  It is never
// stored directly; synclog.Entry is its persisted form.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Added      int
	Updated    int
	Removed    int
	Errors     []string
	Success    bool
}

// Duration is the wall-clock span of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// DurationSeconds is the duration in whole seconds for the audit row,
// rounded rather than truncated.
func (r *Result) DurationSeconds() int {
	return int(r.Duration().Round(time.Second) / time.Second)
}

// ErrorText joins the accumulated error messages for the audit row.
// Empty when the run succeeded.
func (r *Result) ErrorText() string {
	return strings.Join(r.Errors, "; ")
}
