package exercises

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/screen"
	"github.com/fhorray/progy/internal/ui/components"
	"github.com/fhorray/progy/internal/ui/layout"
	"github.com/fhorray/progy/internal/ui/theme"
)

// SelectedMsg is sent to the screen below after the learner picks an
// exercise.
type SelectedMsg struct {
	Exercise exercise.Exercise
}

type loadedMsg struct {
	exercises []exercise.Exercise
}

// ExercisesScreen browses every discovered exercise with its status.
type ExercisesScreen struct {
	locator *exercise.Locator
	record  func() *progress.Record
	current string

	all    []exercise.Exercise
	menu   components.Menu
	filter components.FilterInput
	loaded bool
}

var _ screen.Screen = (*ExercisesScreen)(nil)
var _ screen.KeyHintProvider = (*ExercisesScreen)(nil)

// New creates an ExercisesScreen. record is read on every render so status
// glyphs follow the live progress record.
func New(loc *exercise.Locator, record func() *progress.Record, current string) *ExercisesScreen {
	return &ExercisesScreen{
		locator: loc,
		record:  record,
		current: current,
		filter:  components.NewFilterInput("filter exercises"),
	}
}

func (s *ExercisesScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{exercises: slices.Collect(s.locator.Exercises())}
	}
}

func (s *ExercisesScreen) Title() string {
	return "Exercises"
}

func (s *ExercisesScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "/", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

// HandlesEsc reports that Esc clears the filter before leaving the screen.
func (s *ExercisesScreen) HandlesEsc() bool {
	return true
}

func (s *ExercisesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.all = msg.exercises
		s.loaded = true
		s.rebuild()
		for i, item := range s.visible() {
			if item.Name == s.current {
				s.menu.Select(i)
				break
			}
		}
		return s, nil

	case tea.KeyMsg:
		if s.filter.Focused() {
			return s.updateFilter(msg)
		}
		switch msg.String() {
		case "esc":
			if s.filter.Value() != "" {
				s.filter.Reset()
				s.rebuild()
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "/":
			return s, s.filter.Focus()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExercisesScreen) updateFilter(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.filter.Blur()
		return s, nil
	case "esc":
		s.filter.Reset()
		s.filter.Blur()
		s.rebuild()
		return s, nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.rebuild()
	return s, cmd
}

func (s *ExercisesScreen) visible() []exercise.Exercise {
	var out []exercise.Exercise
	for _, ex := range s.all {
		if s.filter.Match(ex.Name) || s.filter.Match(ex.Module()) {
			out = append(out, ex)
		}
	}
	return out
}

func (s *ExercisesScreen) rebuild() {
	visible := s.visible()
	items := make([]components.MenuItem, len(visible))
	for i, ex := range visible {
		items[i] = components.MenuItem{
			Label:  ex.Name,
			Detail: ex.Module(),
			Action: func() tea.Cmd {
				return tea.Sequence(
					func() tea.Msg { return router.PopScreenMsg{} },
					func() tea.Msg { return SelectedMsg{Exercise: ex} },
				)
			},
		}
	}
	s.menu.SetItems(items)
}

func (s *ExercisesScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Scanning exercises...")
	}
	if len(s.all) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No exercises found in the search roots.")
	}

	rec := s.record()
	for i, ex := range s.visible() {
		s.menu.Items[i].Label = glyph(rec.StatusOf(ex.Name)) + " " + ex.Name
		if ex.Name == rec.CurrentExercise {
			s.menu.Items[i].Label += "  ◀"
		}
	}

	var b strings.Builder
	counts := rec.Counts()
	b.WriteString(theme.Label.Render(fmt.Sprintf("  %d exercises, %d completed",
		len(s.all), counts[progress.StatusCompleted])))
	b.WriteString("\n")
	if f := s.filter.View(); f != "" {
		b.WriteString("  " + f)
	}
	b.WriteString("\n")

	rows := height - 2
	if len(s.menu.Items) == 0 {
		b.WriteString(theme.Hint.Render("  No exercise matches the filter."))
		return b.String()
	}
	b.WriteString(s.menu.View(width, rows))
	return b.String()
}

func glyph(st progress.Status) string {
	switch st {
	case progress.StatusCompleted:
		return theme.Passed.Render("✓")
	case progress.StatusLocked:
		return theme.Label.Render("🔒")
	default:
		return theme.Busy.Render("•")
	}
}
