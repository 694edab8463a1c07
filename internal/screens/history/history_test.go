package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/store"
)

type fakeRepo struct {
	records []store.AttemptRecord
	err     error
	opts    store.QueryOpts
}

func (f *fakeRepo) AppendAttempt(context.Context, store.AttemptEventData) error { return nil }

func (f *fakeRepo) QueryAttempts(_ context.Context, opts store.QueryOpts) ([]store.AttemptRecord, error) {
	f.opts = opts
	return f.records, f.err
}

func (f *fakeRepo) ExerciseStats(context.Context) ([]store.ExerciseStats, error) { return nil, nil }

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sample() *fakeRepo {
	return &fakeRepo{records: []store.AttemptRecord{
		{Sequence: 2, AttemptEventData: store.AttemptEventData{
			RunID: "run-b", Exercise: "variables2", Mode: "test", Outcome: "tests-failed",
			ExitCode: 101, DurationMs: 1500, Timestamp: now.Add(-time.Minute),
		}},
		{Sequence: 1, AttemptEventData: store.AttemptEventData{
			RunID: "run-a", Exercise: "variables1", Mode: "test", Outcome: "completed",
			Passed: true, DurationMs: 800, Timestamp: now.Add(-time.Hour),
		}},
	}}
}

func loaded(t *testing.T, repo store.AttemptRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.now = func() time.Time { return now }
	s.Update(s.Init()())
	return s
}

func TestHistory_Title(t *testing.T) {
	s := New(nil)
	if s.Title() != "History" {
		t.Errorf("Title = %q, want History", s.Title())
	}
}

func TestHistory_NilRepo(t *testing.T) {
	s := loaded(t, nil)
	if !strings.Contains(s.View(80, 20), "not available") {
		t.Error("expected unavailable notice")
	}
}

func TestHistory_QueryError(t *testing.T) {
	s := loaded(t, &fakeRepo{err: errors.New("disk gone")})
	if !strings.Contains(s.View(80, 20), "disk gone") {
		t.Error("expected query error in view")
	}
}

func TestHistory_Empty(t *testing.T) {
	s := loaded(t, &fakeRepo{})
	if !strings.Contains(s.View(80, 20), "No attempts yet") {
		t.Error("expected empty notice")
	}
}

func TestHistory_RendersAttempts(t *testing.T) {
	repo := sample()
	s := loaded(t, repo)

	if repo.opts.Limit != pageSize {
		t.Errorf("limit = %d, want %d", repo.opts.Limit, pageSize)
	}
	view := s.View(100, 20)
	for _, want := range []string{"variables2", "tests-failed", "completed", "1 minute ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestHistory_NavigateAndExpand(t *testing.T) {
	s := loaded(t, sample())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want to stay at 1", s.selected)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 20), "run run-a") {
		t.Error("expected details of the selected attempt")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestHistory_EscPops(t *testing.T) {
	s := loaded(t, sample())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
