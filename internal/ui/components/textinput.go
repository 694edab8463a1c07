package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fhorray/progy/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a substring filter box.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates an unfocused filter box.
func NewFilterInput(placeholder string) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return FilterInput{Model: ti}
}

// Focus starts capturing keystrokes.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops capturing keystrokes, keeping the current value.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Focused reports whether the box is capturing keystrokes.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Reset clears the value.
func (f *FilterInput) Reset() {
	f.Model.Reset()
}

// Update handles messages.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter box, or nothing when it is empty and unfocused.
func (f FilterInput) View() string {
	if !f.Focused() && f.Value() == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(f.Model.View())
}

// Value returns the current filter text.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Match reports whether s contains the filter text, ignoring case.
func (f FilterInput) Match(s string) bool {
	q := strings.TrimSpace(f.Value())
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}
