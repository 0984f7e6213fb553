// Package tui provides the interactive terminal UI for simkung.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#A855F7") // Purple - titles, user bubbles
	ColorSecondary = lipgloss.Color("#F472B6") // Pink - tutor names
	ColorAccent    = lipgloss.Color("#FDE68A") // Yellow - keys
	ColorMuted     = lipgloss.Color("#64748B") // Gray - help text
	ColorText      = lipgloss.Color("#F1F5F9") // Light text
	ColorBorder    = lipgloss.Color("#6D28D9") // Border color
)

// Help overlay styles
var (
	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	HelpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Width(12)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HelpFooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			Width(50)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
