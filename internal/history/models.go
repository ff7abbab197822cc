package history

import "time"

// Status summarizes how a run ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	// StatusPartial means the stream finished but some records failed.
	StatusPartial Status = "partial"
	// StatusFailed means the run aborted, for example on malformed XML.
	StatusFailed Status = "failed"
)

// Run is one ledger row.
type Run struct {
	RunID     string
	Source    string
	OutputDir string
	Capacity  int
	Records   int
	Written   int
	Failed    int
	Waves     int
	Digest    uint64
	Status    Status
	Error     string
	StartedAt time.Time
	Duration  time.Duration
	Failures  []Failure
}

// Failure is one record that could not be converted during a run.
type Failure struct {
	GameID   string
	GameName string
	Kind     string
	Message  string
}
