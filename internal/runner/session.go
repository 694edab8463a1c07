package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/store"
)

// Session owns the progress record for one process. All mutations go through
// it so there is exactly one writer. A session with a nil Record can still
// apply run reports.
type Session struct {
	Record *progress.Record
	Store  *progress.Store

	// Attempts is optional. When set, every report is appended to it.
	Attempts store.AttemptRepo

	Logger *slog.Logger
	Now    func() time.Time
}

// NewSession wraps a loaded record.
func NewSession(rec *progress.Record, st *progress.Store, attempts store.AttemptRepo, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{Record: rec, Store: st, Attempts: attempts, Logger: logger, Now: time.Now}
}

// Apply folds a finished report into progress. Only test reports whose
// binary ran count as attempts, and only passing tests mark completion.
// Run reports leave progress untouched.
func (s *Session) Apply(ctx context.Context, rep Report) error {
	s.appendHistory(ctx, rep)

	if rep.Mode != ModeTest || !rep.Executed() {
		return nil
	}

	now := s.now()
	progress.RecordAttempt(s.Record, rep.Name, now)
	if rep.TestsPassed {
		progress.MarkCompleted(s.Record, rep.Name, now)
	}
	s.Record.LastSession = &now

	if err := s.Store.Save(s.Record); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Advance makes ex the current exercise and persists the change.
func (s *Session) Advance(ex exercise.Exercise) error {
	s.Record.CurrentExercise = ex.Name
	if mod := ex.Module(); mod != "" {
		s.Record.CurrentModule = mod
	}
	now := s.now()
	s.Record.LastSession = &now

	if err := s.Store.Save(s.Record); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Reset replaces the record with a fresh default and persists it.
func (s *Session) Reset() error {
	s.Record = progress.Default(s.now())
	if err := s.Store.Save(s.Record); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *Session) appendHistory(ctx context.Context, rep Report) {
	if s.Attempts == nil {
		return
	}
	err := s.Attempts.AppendAttempt(ctx, store.AttemptEventData{
		RunID:      rep.RunID,
		Exercise:   rep.Name,
		Mode:       string(rep.Mode),
		Outcome:    rep.Outcome.String(),
		Passed:     rep.TestsPassed,
		ExitCode:   rep.ExitCode(),
		DurationMs: rep.Duration.Milliseconds(),
		Timestamp:  s.now(),
	})
	if err != nil {
		s.logger().Warn("history append failed", "run_id", rep.RunID, "error", err)
	}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
