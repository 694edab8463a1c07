// Package progress persists the learner's exercise completion state.
package progress

import "time"

// Status is the completion state of a single exercise.
type Status string

const (
	StatusLocked    Status = "Locked"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Default record values used when no progress file exists yet.
const (
	DefaultUser     = "Student"
	DefaultModule   = "01_variables"
	DefaultExercise = "variables1"
)

// Record is the persisted learner state. A Record is owned by exactly one
// session; nothing guards concurrent access.
type Record struct {
	User            string                       `json:"user"`
	CurrentModule   string                       `json:"current_module"`
	CurrentExercise string                       `json:"current_exercise"`
	Exercises       map[string]*ExerciseProgress `json:"exercises"`
	LastSession     *time.Time                   `json:"last_session"`
}

// ExerciseProgress tracks one exercise.
type ExerciseProgress struct {
	Status      Status     `json:"status"`
	Attempts    int        `json:"attempts"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Default returns the record used for a fresh workspace.
func Default(now time.Time) *Record {
	return &Record{
		User:            DefaultUser,
		CurrentModule:   DefaultModule,
		CurrentExercise: DefaultExercise,
		Exercises:       make(map[string]*ExerciseProgress),
		LastSession:     &now,
	}
}

// MarkCompleted sets name to Completed. An exercise with no entry yet is
// created with one attempt, started and completed at now. The record is not
// saved; callers persist it explicitly.
func MarkCompleted(rec *Record, name string, now time.Time) {
	if rec.Exercises == nil {
		rec.Exercises = make(map[string]*ExerciseProgress)
	}
	if ep, ok := rec.Exercises[name]; ok {
		ep.Status = StatusCompleted
		ep.CompletedAt = &now
		return
	}
	started, completed := now, now
	rec.Exercises[name] = &ExerciseProgress{
		Status:      StatusCompleted,
		Attempts:    1,
		StartedAt:   &started,
		CompletedAt: &completed,
	}
}

// RecordAttempt counts one attempt at name. A missing entry is created as
// Pending with a single attempt; a Locked entry becomes Pending. Completed
// entries keep their status.
func RecordAttempt(rec *Record, name string, now time.Time) {
	if rec.Exercises == nil {
		rec.Exercises = make(map[string]*ExerciseProgress)
	}
	ep, ok := rec.Exercises[name]
	if !ok {
		rec.Exercises[name] = &ExerciseProgress{
			Status:    StatusPending,
			Attempts:  1,
			StartedAt: &now,
		}
		return
	}
	ep.Attempts++
	if ep.Status == StatusLocked || ep.Status == "" {
		ep.Status = StatusPending
	}
	if ep.StartedAt == nil {
		ep.StartedAt = &now
	}
}

// StatusOf returns the status of name, Pending when it has no entry.
func (r *Record) StatusOf(name string) Status {
	if ep, ok := r.Exercises[name]; ok && ep.Status != "" {
		return ep.Status
	}
	return StatusPending
}

// Counts tallies exercises by status.
func (r *Record) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, ep := range r.Exercises {
		counts[ep.Status]++
	}
	return counts
}
