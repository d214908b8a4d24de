package pipeline

import (
	"time"

	"github.com/backmassage/audioconv/internal/planner"
)

// Status is the terminal state of one job.
type Status int

const (
	StatusConverted Status = iota
	StatusDryRun
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusDryRun:
		return "skipped (dry run)"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one job.
type Outcome struct {
	Job     planner.Job
	Status  Status
	Err     error  // Set when Status is StatusFailed.
	Stderr  string // Captured ffmpeg diagnostics, trimmed.
	Hint    string // Classified remedy for Stderr, if any.
	Bytes   int64  // Destination size after a successful conversion.
	Elapsed time.Duration
}

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	RunID        string
	Sources      int // Audio files discovered.
	Planned      int // Jobs in the plan.
	Attempted    int // Jobs the runner reached (converted, dry run, or failed).
	Converted    int
	DryRun       int
	Failed       int
	Existing     int // Pairs left out because the destination already existed.
	Renamed      int // Destinations renamed to avoid a collision.
	Unreadable   int // Entries under the input skipped because they could not be read.
	BytesWritten int64
	Elapsed      time.Duration
	Interrupted  bool
}

// add folds one outcome into the counters.
func (s *RunStats) add(o Outcome) {
	s.Attempted++
	switch o.Status {
	case StatusConverted:
		s.Converted++
		s.BytesWritten += o.Bytes
	case StatusDryRun:
		s.DryRun++
	case StatusFailed:
		s.Failed++
	}
}
