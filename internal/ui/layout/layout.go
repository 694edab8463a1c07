// Package layout draws the chrome around the active screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fhorray/progy/internal/ui/theme"
)

// Smallest terminal the dashboard renders in. The sidebar alone takes about
// 30 columns.
const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var (
	brand    = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	hintKey  = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	hintDesc = lipgloss.NewStyle().Foreground(theme.TextDim)
	dimText  = lipgloss.NewStyle().Foreground(theme.TextDim)
	doneText = lipgloss.NewStyle().Foreground(theme.Success)
)

// bar is the rounded box shared by header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("progy needs at least %dx%d.\n\nThis terminal is %dx%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(text)
}

// RenderHeader shows the product name on the left, the screen title centered
// and the learner with their completion count on the right.
func RenderHeader(title, user string, done, total int, width int) string {
	left := brand.Render("  progy")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := dimText.Render(user+"   ") + doneText.Render(fmt.Sprintf("✓ %d/%d", done, total))

	return bar(width).Render(spread(left, center, right, max(width-4, 0)))
}

// spread lays out three segments on one line of the given width, keeping the
// middle one centered when there is room.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	gapL := max((width-cw)/2-lw, 1)
	gapR := max(width-lw-gapL-cw-rw, 1)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(hintKey.Render(h.Key))
		b.WriteString(" ")
		b.WriteString(hintDesc.Render(h.Description))
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, padding the content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
