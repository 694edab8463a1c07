package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/runner"
	"github.com/fhorray/progy/internal/screen"
	"github.com/fhorray/progy/internal/store"
	"github.com/fhorray/progy/internal/ui/layout"
	"github.com/fhorray/progy/internal/ui/theme"
)

// pageSize bounds how many attempts are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays recent runner attempts.
type HistoryScreen struct {
	repo     store.AttemptRepo
	attempts []store.AttemptRecord
	selected int
	offset   int
	expanded map[int]bool
	loaded   bool
	errMsg   string
	now      func() time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil repo shows a notice instead of
// attempts.
func New(repo store.AttemptRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
		now:      time.Now,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.repo == nil {
		return func() tea.Msg {
			return historyLoadedMsg{Err: fmt.Errorf("attempt history is not available")}
		}
	}
	return func() tea.Msg {
		attempts, err := s.repo.QueryAttempts(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Press r on the dashboard to test an exercise.")
	}

	var lines []string
	selectedLine := 0
	now := s.now()

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
			selectedLine = len(lines)
		}

		line := fmt.Sprintf("%s%-14s  %-16s  %-4s  %s",
			prefix, humanize.RelTime(a.Timestamp, now, "ago", "from now"), a.Exercise, a.Mode, a.Outcome)

		style := lipgloss.NewStyle().Foreground(outcomeColor(a.Outcome))
		if i == s.selected {
			style = style.Bold(true)
		}
		lines = append(lines, style.Render(line))

		if s.expanded[i] {
			detail := fmt.Sprintf("      run %s  exit %d  took %s  at %s",
				a.RunID, a.ExitCode,
				(time.Duration(a.DurationMs) * time.Millisecond).String(),
				a.Timestamp.Format("Jan 02 15:04:05"))
			lines = append(lines, theme.Hint.Render(detail))
		}
	}

	// Keep the cursor row on screen.
	if height > 0 {
		if selectedLine < s.offset {
			s.offset = selectedLine
		}
		if selectedLine >= s.offset+height {
			s.offset = selectedLine - height + 1
		}
		end := min(s.offset+height, len(lines))
		lines = lines[s.offset:end]
	}

	return strings.Join(lines, "\n")
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case runner.OutcomeCompleted.String():
		return theme.Success
	case runner.OutcomeMarkerPresent.String():
		return theme.Accent
	case runner.OutcomeNotFound.String():
		return theme.TextDim
	default:
		return theme.Error
	}
}
