package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the HUD style set derived from a theme.
type styles struct {
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	status lipgloss.Style
	warn   lipgloss.Style
	hint   lipgloss.Style
	graph  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		status: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		hint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		graph:  lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
	}
}

// Gauge renders pos out of n as a fixed-width bar, used for the warp level.
func Gauge(pos, n, width int) string {
	if n <= 1 {
		return strings.Repeat("█", width)
	}
	filled := (pos*width + (n-1)/2) / (n - 1)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func Separator(width int) string {
	return strings.Repeat("─", width)
}
