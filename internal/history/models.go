package history

import "time"

// Outcome describes how a conversion attempt ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Entry is one recorded conversion attempt.
type Entry struct {
	ID          int64
	OwnerID     string
	FileName    string
	SourceExt   string
	TargetExt   string
	Outcome     Outcome
	ErrorKind   string
	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
	CreatedAt   time.Time
}

// Summary aggregates ledger counts for status reporting.
type Summary struct {
	Total     int
	Completed int
	Failed    int
}
