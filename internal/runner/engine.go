// Package runner compiles and executes exercises and turns the results into
// progress updates.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/toolchain"
)

// Observer is notified as an operation moves through its stages. The CLI
// uses it to print status lines between compiler and program output.
type Observer interface {
	Started(mode Mode, ex exercise.Exercise)
	Compiled(mode Mode, ex exercise.Exercise)
}

// Engine runs exercises through the compiler.
type Engine struct {
	Locator  *exercise.Locator
	Compiler *toolchain.Compiler

	// TempDir holds temp binaries ("" = os.TempDir()).
	TempDir string

	// Stdout and Stderr receive compiler and program output. Nil writers
	// capture the output into the Report instead.
	Stdout io.Writer
	Stderr io.Writer

	Observer Observer
	Logger   *slog.Logger
}

// NewEngine creates an Engine in capture mode.
func NewEngine(loc *exercise.Locator, c *toolchain.Compiler, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Locator: loc, Compiler: c, Logger: logger}
}

// Run compiles name as a program and executes it. The program's exit status
// is ignored; completion depends only on the marker.
func (e *Engine) Run(ctx context.Context, name string) Report {
	return e.execute(ctx, ModeRun, name)
}

// Test compiles name's tests and executes them. The marker is only checked
// when the tests pass.
func (e *Engine) Test(ctx context.Context, name string) Report {
	return e.execute(ctx, ModeTest, name)
}

func (e *Engine) execute(ctx context.Context, mode Mode, name string) (rep Report) {
	start := time.Now()
	rep = Report{RunID: uuid.NewString(), Mode: mode, Name: name}
	log := e.logger().With("run_id", rep.RunID, "mode", string(mode), "exercise", name)
	defer func() {
		rep.Duration = time.Since(start)
		log.Debug("operation finished", "outcome", rep.Outcome.String(), "duration", rep.Duration)
	}()

	ex, err := e.Locator.Find(name)
	if err != nil {
		rep.Outcome = OutcomeNotFound
		rep.Err = err
		return rep
	}
	rep.Path = ex.Path
	rep.Module = ex.Module()
	if e.Observer != nil {
		e.Observer.Started(mode, ex)
	}

	bin := toolchain.TempBinary(e.TempDir, string(mode))
	defer toolchain.Cleanup(bin)

	streams := toolchain.Streams{Stdout: e.Stdout, Stderr: e.Stderr}
	profile := e.Compiler.Profile()

	log.Debug("compiling", "path", ex.Path, "bin", bin)
	rep.Build = e.Compiler.Build(ctx, ex.Path, bin, mode == ModeTest, streams)
	switch rep.Build.Outcome {
	case toolchain.SpawnError:
		rep.Outcome = OutcomeCompilerUnavailable
		rep.Err = fmt.Errorf("%w: %s: %w", ErrCompilerUnavailable, profile.Compiler, rep.Build.Err)
		return rep
	case toolchain.NonZeroExit:
		rep.Outcome = OutcomeCompileFailed
		rep.Err = fmt.Errorf("%w: %s", ErrCompileFailed, ex.Path)
		return rep
	}
	if e.Observer != nil {
		e.Observer.Compiled(mode, ex)
	}

	rep.Exec = e.Compiler.Run(ctx, bin, streams)
	if rep.Exec.Outcome == toolchain.SpawnError {
		rep.Outcome = OutcomeExecSpawnFailed
		rep.Err = fmt.Errorf("%w: %w", ErrExecSpawn, rep.Exec.Err)
		return rep
	}

	if mode == ModeTest {
		if !rep.Exec.OK() {
			rep.Outcome = OutcomeTestsFailed
			rep.Err = fmt.Errorf("%w: exit status %d", ErrTestsFailed, rep.Exec.ExitCode)
			return rep
		}
		rep.TestsPassed = true
	}

	marked, err := exercise.HasMarker(ex.Path, profile.Marker)
	if err != nil {
		// An unreadable source cannot prove the marker is gone.
		log.Warn("marker check failed", "path", ex.Path, "error", err)
		marked = true
	}
	if marked {
		rep.Outcome = OutcomeMarkerPresent
	} else {
		rep.Outcome = OutcomeCompleted
	}
	return rep
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// IsNotFound reports whether err came from a failed exercise lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, exercise.ErrNotFound)
}
