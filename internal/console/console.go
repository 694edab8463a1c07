// Package console renders runner results and tables for the terminal.
package console

import (
	"fmt"
	"io"
	"iter"

	"github.com/fatih/color"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/manifest"
	"github.com/fhorray/progy/internal/runner"
	"github.com/fhorray/progy/internal/toolchain"
)

const separator = "---------------------------------------------------"

// SetColor forces color output on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled //nolint:reassign // library global
}

// Printer writes user-facing status lines. It satisfies runner.Observer so
// the stage lines interleave with streamed compiler and program output.
type Printer struct {
	out     io.Writer
	profile toolchain.Profile

	red, green, yellow, cyan, dim, bold *color.Color
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, profile toolchain.Profile) *Printer {
	return &Printer{
		out:     out,
		profile: profile,
		red:     color.New(color.FgRed),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		cyan:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
		bold:    color.New(color.Bold, color.FgGreen),
	}
}

var _ runner.Observer = (*Printer)(nil)

// Started announces the operation before the compiler runs.
func (p *Printer) Started(mode runner.Mode, ex exercise.Exercise) {
	if mode == runner.ModeTest {
		fmt.Fprintf(p.out, "%s Testing %s...\n", p.cyan.Sprint("🧪"), ex.Name)
		return
	}
	fmt.Fprintf(p.out, "%s Running %s...\n", p.cyan.Sprint("🚀"), ex.Name)
}

// Compiled separates compiler output from program output.
func (p *Printer) Compiled(mode runner.Mode, _ exercise.Exercise) {
	label := "Compilation successful!"
	if mode == runner.ModeTest {
		label = "Test compilation successful!"
	}
	fmt.Fprintf(p.out, "%s %s\n", p.green.Sprint("✅"), label)
	fmt.Fprintln(p.out, p.dim.Sprint(separator))
}

// Report prints the closing lines for a finished operation.
func (p *Printer) Report(rep runner.Report) {
	switch rep.Outcome {
	case runner.OutcomeNotFound:
		fmt.Fprintf(p.out, "%s Exercise '%s' not found!\n", p.red.Sprint("❌"), rep.Name)

	case runner.OutcomeCompilerUnavailable:
		fmt.Fprintf(p.out, "%s Failed to call %s: %v\n", p.red.Sprint("❌"), p.profile.Compiler, rep.Build.Err)
		fmt.Fprintf(p.out, "Make sure %s is installed correctly.\n", p.profile.Compiler)

	case runner.OutcomeCompileFailed:
		label := "Compilation failed."
		if rep.Mode == runner.ModeTest {
			label = "Test compilation failed."
		}
		fmt.Fprintf(p.out, "%s %s See errors above.\n", p.red.Sprint("❌"), label)
		fmt.Fprintf(p.out, "%s Fix the code in %s\n", p.yellow.Sprint("👉"), rep.Path)

	case runner.OutcomeExecSpawnFailed:
		verb := "execute"
		if rep.Mode == runner.ModeTest {
			verb = "run tests"
		}
		fmt.Fprintf(p.out, "%s Failed to %s: %v\n", p.red.Sprint("❌"), verb, rep.Exec.Err)

	case runner.OutcomeTestsFailed:
		p.closeOutput()
		fmt.Fprintf(p.out, "%s Some tests failed. See output above.\n", p.red.Sprint("❌"))

	case runner.OutcomeCompleted, runner.OutcomeMarkerPresent:
		p.closeOutput()
		if rep.Mode == runner.ModeTest {
			fmt.Fprintf(p.out, "%s All tests passed!\n", p.bold.Sprint("🎉"))
		} else {
			fmt.Fprintf(p.out, "%s Execution completed.\n", p.green.Sprint("✨"))
		}
		if rep.Outcome == runner.OutcomeMarkerPresent {
			fmt.Fprintf(p.out, "%s Don't forget to remove '%s' when you finish!\n", p.yellow.Sprint("⚠️"), p.profile.Marker)
		} else if rep.Mode == runner.ModeRun {
			fmt.Fprintf(p.out, "%s You have completed this exercise!\n", p.bold.Sprint("🎉"))
		}
	}
}

func (p *Printer) closeOutput() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.dim.Sprint(separator))
}

// Marked confirms that progress recorded a completion.
func (p *Printer) Marked(name string) {
	fmt.Fprintf(p.out, "%s Marked %s as completed.\n", p.green.Sprint("📈"), name)
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.yellow.Sprint("⚠️"), fmt.Sprintf(format, args...))
}

// Info prints a neutral status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.cyan.Sprint("👉"), fmt.Sprintf(format, args...))
}

// Success prints a positive status line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.green.Sprint("🎉"), fmt.Sprintf(format, args...))
}

// Fail prints an error line.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.red.Sprint("❌"), fmt.Sprintf(format, args...))
}

// Welcome prints the greeting shown when there is nothing to resume.
func (p *Printer) Welcome() {
	fmt.Fprintln(p.out, p.cyan.Sprint("Welcome to progy!"))
	fmt.Fprintln(p.out, "Run `progy list` to see the exercises or `progy run <name>` to start one.")
}

// Names prints the plain exercise listing.
func (p *Printer) Names(names iter.Seq[string]) {
	fmt.Fprintln(p.out, color.New(color.Bold, color.Underline).Sprint("Available Exercises:"))
	for name := range names {
		fmt.Fprintf(p.out, "- %s\n", name)
	}
}

// Syncing announces a manifest regeneration.
func (p *Printer) Syncing() {
	fmt.Fprintln(p.out, p.cyan.Sprint("Synchronizing exercises for IDE support..."))
}

// Sync prints the outcome of a manifest regeneration.
func (p *Printer) Sync(rep *manifest.Report) {
	for _, f := range rep.Failures {
		fmt.Fprintf(p.out, "%s Failed to write %s: %v\n", p.red.Sprint("❌"), f.Path, f.Err)
	}
	for _, m := range rep.Modules {
		fmt.Fprintf(p.out, "  %s %s (%d exercises)\n", p.green.Sprint("✓"), m.Raw, len(m.Members))
	}
	if rep.OK() {
		fmt.Fprintf(p.out, "%s Synchronized %d modules.\n", p.green.Sprint("✅"), len(rep.Modules))
		return
	}
	fmt.Fprintf(p.out, "%s Synchronized with %d write failures.\n", p.yellow.Sprint("⚠️"), len(rep.Failures))
}
