// Package dashboard is the main interactive screen: the current exercise,
// its status and the output of the last test run.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/runner"
	"github.com/fhorray/progy/internal/screen"
	"github.com/fhorray/progy/internal/screens/exercises"
	"github.com/fhorray/progy/internal/screens/history"
	"github.com/fhorray/progy/internal/store"
	"github.com/fhorray/progy/internal/ui/components"
	"github.com/fhorray/progy/internal/ui/layout"
	"github.com/fhorray/progy/internal/ui/theme"
)

const sidebarWidth = 26

// Deps wires the dashboard to the runner and progress.
type Deps struct {
	// Engine must be in capture mode (nil writers); the terminal belongs to
	// the dashboard.
	Engine   *runner.Engine
	Session  *runner.Session
	Locator  *exercise.Locator
	Attempts store.AttemptRepo
	Marker   string
}

type resolvedMsg struct {
	name string
	ex   exercise.Exercise
	err  error
}

type advanceMsg struct {
	from string
	ex   exercise.Exercise
	ok   bool
}

type reportMsg struct {
	rep runner.Report
}

type totalMsg struct {
	total int
}

// DashboardScreen shows the current exercise and runs its tests on demand.
// At most one runner operation is in flight; results are folded into
// progress from Update only.
type DashboardScreen struct {
	deps Deps

	current  exercise.Exercise
	resolved bool
	total    int

	busy   bool
	status string
	tone   lipgloss.Style
	output viewport.Model
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a DashboardScreen for the session's current exercise.
func New(deps Deps) *DashboardScreen {
	vp := viewport.New()
	vp.SoftWrap = true
	vp.SetContent(theme.Hint.Render("Press r to test the current exercise."))

	return &DashboardScreen{
		deps:    deps,
		current: exercise.Exercise{Name: deps.Session.Record.CurrentExercise},
		tone:    theme.Body,
		output:  vp,
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return tea.Batch(s.resolve(s.current.Name), s.count())
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Test"},
		{Key: "n", Description: "Next"},
		{Key: "j/k", Description: "Scroll"},
		{Key: "e", Description: "Exercises"},
		{Key: "h", Description: "History"},
		{Key: "q", Description: "Quit"},
	}
}

// Busy reports whether a runner operation is in flight.
func (s *DashboardScreen) Busy() bool {
	return s.busy
}

// Total returns the number of discovered exercises (0 until counted).
func (s *DashboardScreen) Total() int {
	return s.total
}

// Current returns the exercise the dashboard is showing.
func (s *DashboardScreen) Current() exercise.Exercise {
	return s.current
}

func (s *DashboardScreen) resolve(name string) tea.Cmd {
	loc := s.deps.Locator
	return func() tea.Msg {
		ex, err := loc.Find(name)
		return resolvedMsg{name: name, ex: ex, err: err}
	}
}

func (s *DashboardScreen) count() tea.Cmd {
	loc := s.deps.Locator
	return func() tea.Msg {
		n := 0
		for range loc.Exercises() {
			n++
		}
		return totalMsg{total: n}
	}
}

func (s *DashboardScreen) test() tea.Cmd {
	engine, name := s.deps.Engine, s.current.Name
	return func() tea.Msg {
		return reportMsg{rep: engine.Test(context.Background(), name)}
	}
}

func (s *DashboardScreen) next() tea.Cmd {
	loc, from := s.deps.Locator, s.current.Name
	return func() tea.Msg {
		name, ok := loc.Next(from)
		if !ok {
			return advanceMsg{from: from}
		}
		ex, err := loc.Find(name)
		return advanceMsg{from: from, ex: ex, ok: err == nil}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resolvedMsg:
		if msg.name != s.current.Name {
			return s, nil
		}
		if msg.err != nil {
			s.resolved = false
			s.setStatus(theme.Failed, fmt.Sprintf("❌ Exercise '%s' not found!", msg.name))
			return s, nil
		}
		s.current = msg.ex
		s.resolved = true
		return s, nil

	case totalMsg:
		s.total = msg.total
		return s, nil

	case router.ResumedMsg:
		// Exercises may have been added while another screen was open.
		return s, s.count()

	case exercises.SelectedMsg:
		s.advanceTo(msg.Exercise)
		return s, nil

	case advanceMsg:
		if !msg.ok {
			s.setStatus(theme.Label, fmt.Sprintf("No exercise follows %s.", msg.from))
			return s, nil
		}
		s.advanceTo(msg.ex)
		return s, nil

	case reportMsg:
		s.busy = false
		s.finish(msg.rep)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "q":
		return s, tea.Quit
	case "r":
		if s.busy || !s.resolved {
			return s, nil
		}
		s.busy = true
		s.setStatus(theme.Busy, fmt.Sprintf("🧪 Testing %s...", s.current.Name))
		return s, s.test()
	case "n":
		if s.busy {
			return s, nil
		}
		return s, s.next()
	case "j", "down":
		s.output.ScrollDown(1)
		return s, nil
	case "k", "up":
		s.output.ScrollUp(1)
		return s, nil
	case "e":
		session := s.deps.Session
		scr := exercises.New(s.deps.Locator, func() *progress.Record { return session.Record }, s.current.Name)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case "h":
		scr := history.New(s.deps.Attempts)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	}
	return s, nil
}

func (s *DashboardScreen) advanceTo(ex exercise.Exercise) {
	if s.busy {
		s.setStatus(theme.Busy, "Wait for the current test run to finish.")
		return
	}
	s.current = ex
	s.resolved = true
	s.output.SetContent(theme.Hint.Render("Press r to test " + ex.Name + "."))
	s.output.GotoTop()
	if err := s.deps.Session.Advance(ex); err != nil {
		s.setStatus(theme.Failed, "⚠️ Could not save progress: "+err.Error())
		return
	}
	s.setStatus(theme.Body, "👉 Now working on "+ex.Name)
}

func (s *DashboardScreen) finish(rep runner.Report) {
	out := strings.TrimRight(rep.Output(), "\n")
	if out == "" {
		out = theme.Hint.Render("(no output)")
	}
	s.output.SetContent(out)
	s.output.GotoBottom()

	if err := s.deps.Session.Apply(context.Background(), rep); err != nil {
		s.setStatus(theme.Failed, "⚠️ Could not save progress: "+err.Error())
		return
	}

	switch rep.Outcome {
	case runner.OutcomeCompleted:
		s.setStatus(theme.Passed, fmt.Sprintf("🎉 All tests passed! %s marked as completed.", rep.Name))
	case runner.OutcomeMarkerPresent:
		s.setStatus(theme.Passed, fmt.Sprintf("✅ Tests passed. Don't forget to remove '%s'.", s.deps.Marker))
	case runner.OutcomeTestsFailed:
		s.setStatus(theme.Failed, "❌ Some tests failed. See output above.")
	case runner.OutcomeCompileFailed:
		s.setStatus(theme.Failed, "❌ Compilation failed. Fix the code in "+rep.Path)
	case runner.OutcomeCompilerUnavailable:
		s.setStatus(theme.Failed, "❌ "+rep.Err.Error())
	case runner.OutcomeExecSpawnFailed:
		s.setStatus(theme.Failed, "❌ Failed to run tests: "+rep.Exec.Err.Error())
	case runner.OutcomeNotFound:
		s.setStatus(theme.Failed, fmt.Sprintf("❌ Exercise '%s' not found!", rep.Name))
	}
}

func (s *DashboardScreen) setStatus(tone lipgloss.Style, text string) {
	s.tone = tone
	s.status = text
}

// Status returns the current status line text.
func (s *DashboardScreen) Status() string {
	return s.status
}

func (s *DashboardScreen) View(width, height int) string {
	bodyHeight := height - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	side := theme.Sidebar.Render(
		lipgloss.NewStyle().
			Width(sidebarWidth).
			Height(bodyHeight - 2).
			Render(s.sidebar()),
	)

	outWidth := width - lipgloss.Width(side) - 2
	if outWidth < 10 {
		outWidth = 10
	}
	s.output.SetWidth(outWidth)
	s.output.SetHeight(bodyHeight - 2)
	out := theme.Output.Render(s.output.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, side, out)
	status := s.tone.MaxWidth(width).Render(" " + s.status)
	return body + "\n" + status
}

func (s *DashboardScreen) sidebar() string {
	rec := s.deps.Session.Record
	st := rec.StatusOf(s.current.Name)
	attempts := 0
	if ep := rec.Exercises[s.current.Name]; ep != nil {
		attempts = ep.Attempts
	}

	module := s.current.Module()
	if module == "" {
		module = rec.CurrentModule
	}

	statusStyle := theme.Body
	switch st {
	case progress.StatusCompleted:
		statusStyle = theme.Passed
	case progress.StatusLocked:
		statusStyle = theme.Label
	}

	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(theme.Label.Render(label))
		b.WriteString("\n")
		b.WriteString("  " + value)
		b.WriteString("\n\n")
	}
	field("Module", theme.Body.Render(module))
	field("Exercise", theme.Title.Render(s.current.Name))
	field("Status", statusStyle.Render(string(st)))
	field("Attempts", theme.Body.Render(fmt.Sprint(attempts)))

	done := rec.Counts()[progress.StatusCompleted]
	b.WriteString(theme.Label.Render("Course"))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(done, s.total, sidebarWidth).View())
	if s.busy {
		b.WriteString("\n\n" + theme.Busy.Render("running..."))
	}
	return b.String()
}
