// Package toolchain wraps the external compiler and the binaries it produces
// behind a synchronous spawn/wait/capture abstraction.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// Outcome classifies how an external process ended.
type Outcome int

const (
	// Success means the process ran and exited with status 0.
	Success Outcome = iota
	// NonZeroExit means the process ran but reported failure.
	NonZeroExit
	// SpawnError means the process could not be started at all.
	SpawnError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NonZeroExit:
		return "non-zero-exit"
	case SpawnError:
		return "spawn-error"
	default:
		return "unknown"
	}
}

// Process describes one external invocation.
type Process struct {
	Path string
	Args []string
	Dir  string

	// Stdout and Stderr receive the process output. A nil writer means the
	// stream is captured into the Result instead.
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of a finished Process.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
	Duration time.Duration
}

// OK reports whether the process exited successfully.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// Output returns captured stdout followed by captured stderr.
func (r Result) Output() string {
	return string(r.Stdout) + string(r.Stderr)
}

// Exec runs p to completion. It blocks until the process exits; there is no
// timeout beyond whatever ctx carries.
func Exec(ctx context.Context, p Process) Result {
	start := time.Now()

	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Dir = p.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		res.Outcome = Success
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Outcome = NonZeroExit
		res.ExitCode = exitErr.ExitCode()
		res.Err = err
		return res
	}

	res.Outcome = SpawnError
	res.ExitCode = -1
	res.Err = err
	return res
}
