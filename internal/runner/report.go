package runner

import (
	"errors"
	"time"

	"github.com/fhorray/progy/internal/toolchain"
)

// Mode selects how an exercise is built and judged.
type Mode string

const (
	// ModeRun compiles the exercise as a program and runs it.
	ModeRun Mode = "run"
	// ModeTest compiles the exercise's test harness and runs it.
	ModeTest Mode = "test"
)

// Outcome is the terminal state of one runner operation.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeCompilerUnavailable
	OutcomeCompileFailed
	OutcomeExecSpawnFailed
	OutcomeTestsFailed
	OutcomeCompleted
	OutcomeMarkerPresent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not-found"
	case OutcomeCompilerUnavailable:
		return "compiler-unavailable"
	case OutcomeCompileFailed:
		return "compile-failed"
	case OutcomeExecSpawnFailed:
		return "exec-spawn-failed"
	case OutcomeTestsFailed:
		return "tests-failed"
	case OutcomeCompleted:
		return "completed"
	case OutcomeMarkerPresent:
		return "marker-present"
	default:
		return "unknown"
	}
}

// Sentinel errors carried in Report.Err.
var (
	ErrCompilerUnavailable = errors.New("compiler unavailable")
	ErrCompileFailed       = errors.New("compilation failed")
	ErrExecSpawn           = errors.New("failed to execute binary")
	ErrTestsFailed         = errors.New("tests failed")
)

// Report describes what happened during one run or test operation.
type Report struct {
	RunID   string
	Mode    Mode
	Name    string
	Path    string
	Module  string
	Outcome Outcome

	// TestsPassed is set only in test mode when the test binary exited 0.
	TestsPassed bool

	Build toolchain.Result
	Exec  toolchain.Result

	// Err is nil for OutcomeCompleted and OutcomeMarkerPresent.
	Err      error
	Duration time.Duration
}

// Executed reports whether the produced binary actually ran.
func (r Report) Executed() bool {
	switch r.Outcome {
	case OutcomeTestsFailed, OutcomeCompleted, OutcomeMarkerPresent:
		return true
	default:
		return false
	}
}

// ExitCode returns the exit status of the last process that ran, or -1 if
// nothing was spawned.
func (r Report) ExitCode() int {
	switch {
	case r.Executed() || r.Outcome == OutcomeExecSpawnFailed:
		return r.Exec.ExitCode
	case r.Outcome == OutcomeCompileFailed || r.Outcome == OutcomeCompilerUnavailable:
		return r.Build.ExitCode
	default:
		return -1
	}
}

// Output returns captured compiler output followed by captured program
// output. It is empty when the engine streamed to writers.
func (r Report) Output() string {
	return r.Build.Output() + r.Exec.Output()
}
