package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header  lipgloss.Style
	status  lipgloss.Style
	count   lipgloss.Style
	row     lipgloss.Style
	active  lipgloss.Style
	cursor  lipgloss.Style
	tag     lipgloss.Style
	sep     lipgloss.Style
	marker  lipgloss.Style
	popup   lipgloss.Style
	title   lipgloss.Style
	body    lipgloss.Style
	overlay lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		count:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		row:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		active:  lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		cursor:  lipgloss.NewStyle().Underline(true),
		tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		sep:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("218")),
		popup:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		body:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		overlay: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 3),
	}
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) > w {
		r = r[:w]
	}
	return string(r) + strings.Repeat(" ", w-len(r))
}
