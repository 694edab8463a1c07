package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/router"
	"github.com/fhorray/progy/internal/screen"
	"github.com/fhorray/progy/internal/screens/dashboard"
	"github.com/fhorray/progy/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	home   *dashboard.DashboardScreen
	deps   dashboard.Deps
	width  int
	height int
}

// newAppModel creates a new AppModel with the dashboard screen.
func newAppModel(deps dashboard.Deps) AppModel {
	home := dashboard.New(deps)
	return AppModel{
		router: router.New(home),
		home:   home,
		deps:   deps,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.home.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				// Screens with their own Esc handling (filters) get it first.
				if h, ok := m.router.Active().(screen.EscHandler); !ok || !h.HandlesEsc() {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	rec := m.deps.Session.Record
	header := layout.RenderHeader(active.Title(), rec.User,
		rec.Counts()[progress.StatusCompleted], m.home.Total(), m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, bodyHeight), footer, m.width, m.height))
	return v
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the dashboard and blocks until the learner quits.
func Run(deps dashboard.Deps) error {
	if _, err := tea.NewProgram(newAppModel(deps)).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
