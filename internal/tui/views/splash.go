// Package views provides the individual screens of the TUI.
package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/tui/bigchar"
)

var (
	splashGlyphStyle = lipgloss.NewStyle().
				Foreground(colorPrimary)

	splashTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				Padding(1, 3).
				Border(lipgloss.DoubleBorder()).
				BorderForeground(colorPink)

	splashTaglineStyle = lipgloss.NewStyle().
				Foreground(colorPink).
				Italic(true).
				MarginTop(1)
)

// SplashModel is the opening screen.
type SplashModel struct {
	sess  *session.Session
	t     *i18n.Translator
	glyph *bigchar.Renderer

	width  int
	height int
}

// NewSplashModel creates the splash screen. glyph may be nil.
func NewSplashModel(sess *session.Session, t *i18n.Translator, glyph *bigchar.Renderer) SplashModel {
	return SplashModel{sess: sess, t: t, glyph: glyph}
}

// SetSize updates the view dimensions.
func (m *SplashModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SplashModel) Update(msg tea.Msg) (SplashModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			m.sess.Start()
		}
	}
	return m, nil
}

// View renders the splash screen.
func (m SplashModel) View() string {
	var b strings.Builder

	title := m.t.T("AppTitle")
	if art := m.glyph.Text("심쿵", 16, 8); art != "" && m.width >= 40 {
		b.WriteString(splashGlyphStyle.Render(art))
	} else {
		b.WriteString(splashTitleStyle.Render(title))
	}
	b.WriteString("\n")
	b.WriteString(splashTaglineStyle.Render(m.t.T("AppTagline")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.t.T("SplashStart")))

	block := lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}
