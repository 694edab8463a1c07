package store

import (
	"context"
	"time"
)

// QueryOpts configures attempt queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	Before   int64     // sequence < Before
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
	Exercise string    // exact exercise name ("" = all)
}

// AttemptEventData captures one runner invocation.
type AttemptEventData struct {
	RunID      string
	Exercise   string
	Mode       string // run or test
	Outcome    string
	Passed     bool
	ExitCode   int
	DurationMs int64
	Timestamp  time.Time // zero = now
}

// AttemptRecord is a stored attempt.
type AttemptRecord struct {
	AttemptEventData
	Sequence int64
}

// ExerciseStats aggregates the attempts of one exercise.
type ExerciseStats struct {
	Exercise    string
	Runs        int
	Tests       int
	Passes      int
	LastAttempt time.Time
}

// AttemptRepo provides append and query access to the attempt history.
type AttemptRepo interface {
	// AppendAttempt records one run or test invocation.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns attempts newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// ExerciseStats returns per-exercise aggregates ordered by most recent
	// attempt.
	ExerciseStats(ctx context.Context) ([]ExerciseStats, error)
}
