package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#A855F7")
	colorPink    = lipgloss.Color("#F472B6")
	colorGreen   = lipgloss.Color("#4ADE80")
	colorRed     = lipgloss.Color("#F87171")
	colorYellow  = lipgloss.Color("#FDE68A")
	colorText    = lipgloss.Color("#F1F5F9")
	colorMuted   = lipgloss.Color("#64748B")
	colorBgAlt   = lipgloss.Color("#2E1065")
	colorBorder  = lipgloss.Color("#6D28D9")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow).
			Background(colorBgAlt)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorBorder)
)

func divider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", min(max(width-4, 1), 60)))
}
