package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
)

var (
	courseCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2).
			Width(44)

	courseCardActiveStyle = courseCardStyle.
				BorderForeground(colorPrimary)
)

var courseModes = []struct {
	mode       simkung.CourseMode
	name, desc string
}{
	{simkung.CourseBasic, "CourseBasicName", "CourseBasicDesc"},
	{simkung.CourseFree, "CourseFreeName", "CourseFreeDesc"},
}

// CourseModel is the course selection screen.
type CourseModel struct {
	sess *session.Session
	t    *i18n.Translator

	selected int

	width  int
	height int
}

// NewCourseModel creates the course selection screen.
func NewCourseModel(sess *session.Session, t *i18n.Translator) CourseModel {
	return CourseModel{sess: sess, t: t}
}

// SetSize updates the view dimensions.
func (m *CourseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m CourseModel) Update(msg tea.Msg) (CourseModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down", "tab":
			m.selected = (m.selected + 1) % len(courseModes)
		case "k", "up", "shift+tab":
			m.selected = (m.selected + len(courseModes) - 1) % len(courseModes)
		case "1", "2":
			m.selected = int(msg.String()[0] - '1')
			m.choose()
		case "enter":
			m.choose()
		}
	}
	return m, nil
}

func (m CourseModel) choose() {
	// Both modes are known, so this cannot fail.
	_ = m.sess.SelectCourse(courseModes[m.selected].mode)
}

// View renders the course selection screen.
func (m CourseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t.T("CourseTitle")))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.t.T("CourseSubtitle")))
	b.WriteString("\n\n")

	for i, c := range courseModes {
		style := courseCardStyle
		name := textStyle.Bold(true).Render(m.t.T(c.name))
		if i == m.selected {
			style = courseCardActiveStyle
			name = selectedStyle.Render(m.t.T(c.name))
		}
		card := name + "\n" + mutedStyle.Render(m.t.T(c.desc))
		b.WriteString(style.Render(card))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.t.T("CourseFooter")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.t.T("CourseHelp")))

	return b.String()
}
