package dashboard

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/runner"
	"github.com/fhorray/progy/internal/screens/exercises"
	"github.com/fhorray/progy/internal/toolchain"
)

// passingCompiler produces a binary that prints a test summary and exits 0.
const passingCompiler = `#!/bin/sh
if [ "$1" = "--test" ]; then shift; fi
printf '#!/bin/sh\necho "test result: ok. 1 passed"\n' > "$3"
chmod +x "$3"
`

func testDeps(t *testing.T) Deps {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}

	dir := t.TempDir()
	root := filepath.Join(dir, "src", "exercises")
	for _, rel := range []string{"01_variables/variables1.rs", "01_variables/variables2.rs"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("fn main() {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	compiler := filepath.Join(dir, "rustc")
	if err := os.WriteFile(compiler, []byte(passingCompiler), 0o755); err != nil {
		t.Fatal(err)
	}
	profile := toolchain.Rust()
	profile.Compiler = compiler

	loc := exercise.NewLocator([]string{root}, ".rs")
	engine := runner.NewEngine(loc, toolchain.NewCompiler(profile, dir), nil)
	engine.TempDir = t.TempDir()

	st := progress.NewStore(filepath.Join(dir, "progress.json"))
	rec, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}

	return Deps{
		Engine:  engine,
		Session: runner.NewSession(rec, st, nil, nil),
		Locator: loc,
		Marker:  profile.Marker,
	}
}

// resolved returns a dashboard whose current exercise has been located.
func resolved(t *testing.T) *DashboardScreen {
	t.Helper()
	s := New(testDeps(t))
	s.Update(s.resolve(s.current.Name)())
	s.Update(s.count()())
	if !s.resolved {
		t.Fatalf("expected %s to resolve", s.current.Name)
	}
	return s
}

func TestDashboard_Title(t *testing.T) {
	s := New(testDeps(t))
	if s.Title() != "Dashboard" {
		t.Errorf("Title = %q, want %q", s.Title(), "Dashboard")
	}
	if len(s.KeyHints()) != 6 {
		t.Errorf("KeyHints length = %d, want 6", len(s.KeyHints()))
	}
}

func TestDashboard_ResolveAndCount(t *testing.T) {
	s := resolved(t)
	if s.Current().Module() != "01_variables" {
		t.Errorf("module = %q, want 01_variables", s.Current().Module())
	}
	if s.Total() != 2 {
		t.Errorf("total = %d, want 2", s.Total())
	}
}

func TestDashboard_CountSkipsManifests(t *testing.T) {
	deps := testDeps(t)
	manifest := filepath.Join(deps.Locator.Roots()[0], "01_variables", "mod.rs")
	if err := os.WriteFile(manifest, []byte("pub mod variables1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deps.Locator.Reserve("mod")

	s := New(deps)
	s.Update(s.count()())
	if s.Total() != 2 {
		t.Errorf("total = %d, want 2", s.Total())
	}
}

func TestDashboard_ResolveMissing(t *testing.T) {
	s := New(testDeps(t))
	s.current = exercise.Exercise{Name: "ghost1"}
	s.Update(s.resolve("ghost1")())

	if s.resolved {
		t.Error("expected unresolved exercise")
	}
	if !strings.Contains(s.Status(), "not found") {
		t.Errorf("status = %q, want not found", s.Status())
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("expected no test run for a missing exercise")
	}
}

func TestDashboard_TestMarksCompleted(t *testing.T) {
	s := resolved(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a test command")
	}
	if !s.Busy() {
		t.Error("expected busy while testing")
	}
	// One operation in flight.
	if _, again := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); again != nil {
		t.Error("expected second r to be ignored while busy")
	}
	if _, next := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"}); next != nil {
		t.Error("expected n to be ignored while busy")
	}

	s.Update(cmd())

	if s.Busy() {
		t.Error("expected busy cleared after report")
	}
	rec := s.deps.Session.Record
	if rec.StatusOf("variables1") != progress.StatusCompleted {
		t.Errorf("status = %s, want Completed", rec.StatusOf("variables1"))
	}
	if !strings.Contains(s.Status(), "All tests passed") {
		t.Errorf("status line = %q", s.Status())
	}
	if !strings.Contains(s.View(100, 30), "1 passed") {
		t.Error("expected test summary in the output pane")
	}

	saved, err := s.deps.Session.Store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved.StatusOf("variables1") != progress.StatusCompleted {
		t.Error("expected completion persisted")
	}
}

func TestDashboard_NextAdvances(t *testing.T) {
	s := resolved(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd == nil {
		t.Fatal("expected a next command")
	}
	s.Update(cmd())

	if s.Current().Name != "variables2" {
		t.Errorf("current = %q, want variables2", s.Current().Name)
	}
	if s.deps.Session.Record.CurrentExercise != "variables2" {
		t.Error("expected session to follow")
	}

	// No variables3 exists.
	_, cmd = s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	s.Update(cmd())
	if s.Current().Name != "variables2" {
		t.Errorf("current = %q, want variables2 to stay", s.Current().Name)
	}
	if !strings.Contains(s.Status(), "No exercise follows") {
		t.Errorf("status = %q", s.Status())
	}
}

func TestDashboard_SelectedFromList(t *testing.T) {
	s := resolved(t)
	ex, err := s.deps.Locator.Find("variables2")
	if err != nil {
		t.Fatal(err)
	}

	s.Update(exercises.SelectedMsg{Exercise: ex})
	if s.Current().Name != "variables2" {
		t.Errorf("current = %q, want variables2", s.Current().Name)
	}
}

func TestDashboard_Navigation(t *testing.T) {
	s := resolved(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if cmd == nil {
		t.Fatal("expected push command for e")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "Exercises" {
		t.Errorf("pushed %q, want Exercises", push.Screen.Title())
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if push, ok := cmd().(router.PushScreenMsg); !ok || push.Screen.Title() != "History" {
		t.Error("expected history screen push for h")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit on q")
	}
}

func TestDashboard_View(t *testing.T) {
	s := resolved(t)
	view := s.View(100, 30)
	for _, want := range []string{"variables1", "01_variables", "Pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
