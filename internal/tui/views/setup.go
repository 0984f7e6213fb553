package views

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/spf13/afero"
)

var (
	tutorNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	tutorGroupStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

type setupMode int

const (
	setupList setupMode = iota
	setupForm
	setupPicker
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldGroup
	fieldPersonality
	fieldCount
)

var fieldLabels = map[string]string{
	"name":        "FieldName",
	"group":       "FieldGroup",
	"personality": "FieldPersonality",
}

// SetupModel is the tutor setup screen.
type SetupModel struct {
	sess *session.Session
	t    *i18n.Translator
	fs   afero.Fs
	opts []session.RosterOption

	roster   *session.Roster
	mode     setupMode
	selected int

	inputs    []textinput.Model
	focus     int
	imagePath string
	picker    FilePickerModel

	err string

	width  int
	height int
}

// NewSetupModel creates the tutor setup screen. Avatar images are read from
// fs; opts are passed on to the roster.
func NewSetupModel(sess *session.Session, t *i18n.Translator, fs afero.Fs, opts ...session.RosterOption) SetupModel {
	inputs := make([]textinput.Model, fieldCount)
	for i, placeholder := range []string{"SetupName", "SetupGroup", "SetupPersonality"} {
		ti := textinput.New()
		ti.Placeholder = t.T(placeholder)
		ti.CharLimit = 40
		ti.Width = 40
		ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
		ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
		inputs[i] = ti
	}
	inputs[fieldPersonality].CharLimit = 200

	m := SetupModel{
		sess:   sess,
		t:      t,
		fs:     fs,
		opts:   append([]session.RosterOption{session.WithFs(fs)}, opts...),
		inputs: inputs,
	}
	m.Reset()
	return m
}

// Reset reloads the roster from the session and shows the list.
func (m *SetupModel) Reset() {
	m.roster = session.NewRoster(m.sess.Tutors(), m.opts...)
	m.mode = setupList
	m.selected = 0
	m.err = ""
	m.clearForm()
}

// SetSize updates the view dimensions.
func (m *SetupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.SetSize(width, height)
}

// Typing reports whether keys are going to a text field or the picker.
func (m SetupModel) Typing() bool {
	return m.mode != setupList
}

// Tutors returns the roster being edited.
func (m SetupModel) Tutors() []simkung.Tutor {
	return m.roster.Tutors()
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch m.mode {
	case setupPicker:
		return m.updatePicker(msg)
	case setupForm:
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		tutors := m.roster.Tutors()
		switch msg.String() {
		case "j", "down":
			if m.selected < len(tutors)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "a", "+":
			if m.roster.Full() {
				m.err = m.t.Td("SetupFull", map[string]any{"Max": session.MaxTutors})
				return m, nil
			}
			m.err = ""
			m.mode = setupForm
			m.focus = fieldName
			return m, m.inputs[fieldName].Focus()
		case "d", "x", "delete":
			if m.selected < len(tutors) {
				m.roster.Remove(tutors[m.selected].ID)
				m.selected = max(min(m.selected, m.roster.Len()-1), 0)
			}
		case "enter":
			if err := m.sess.CompleteSetup(m.roster.Tutors()); err != nil {
				m.err = m.t.T("SetupNeedTutor")
			}
		}
	}
	return m, nil
}

func (m SetupModel) updateForm(msg tea.Msg) (SetupModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = setupList
			m.err = ""
			m.clearForm()
			return m, nil
		case "tab", "down":
			return m, m.focusField((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
		case "ctrl+o":
			dir := ""
			if m.imagePath != "" {
				dir = filepath.Dir(m.imagePath)
			}
			m.picker = NewFilePickerModel(m.fs, m.t, dir, ImageExtensions)
			m.picker.SetSize(m.width, m.height)
			m.mode = setupPicker
			return m, nil
		case "enter":
			if m.focus < fieldPersonality {
				return m, m.focusField(m.focus + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SetupModel) updatePicker(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FileSelectedMsg:
		m.mode = setupForm
		if _, err := session.ImageDataURI(m.fs, msg.Path); err != nil {
			m.err = m.t.Td("SetupPhotoFailed", map[string]any{"Err": err})
			return m, nil
		}
		m.err = ""
		m.imagePath = msg.Path
		return m, nil
	case FilePickerCancelledMsg:
		m.mode = setupForm
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *SetupModel) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m SetupModel) submit() (SetupModel, tea.Cmd) {
	_, err := m.roster.Add(session.TutorDraft{
		Name:        m.inputs[fieldName].Value(),
		Group:       m.inputs[fieldGroup].Value(),
		Personality: m.inputs[fieldPersonality].Value(),
		ImagePath:   m.imagePath,
	})

	var draftErr *session.DraftError
	switch {
	case errors.As(err, &draftErr):
		labels := make([]string, len(draftErr.Fields))
		for i, f := range draftErr.Fields {
			labels[i] = m.t.T(fieldLabels[f])
		}
		m.err = m.t.Td("SetupRequired", map[string]any{"Fields": strings.Join(labels, ", ")})
		return m, nil
	case errors.Is(err, session.ErrRosterFull):
		m.err = m.t.Td("SetupFull", map[string]any{"Max": session.MaxTutors})
		return m, nil
	case err != nil:
		m.err = m.t.Td("SetupPhotoFailed", map[string]any{"Err": err})
		return m, nil
	}

	m.err = ""
	m.mode = setupList
	m.selected = m.roster.Len() - 1
	m.clearForm()
	return m, nil
}

func (m *SetupModel) clearForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = fieldName
	m.imagePath = ""
}

// View renders the setup screen.
func (m SetupModel) View() string {
	if m.mode == setupPicker {
		return m.picker.View()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t.T("SetupTitle")))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.t.Td("SetupSubtitle", map[string]any{"Max": session.MaxTutors})))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	tutors := m.roster.Tutors()
	if len(tutors) == 0 && m.mode == setupList {
		b.WriteString(mutedStyle.Render(m.t.T("SetupEmpty")))
		b.WriteString("\n")
	}

	textWidth := max(m.width-8, 20)
	for i, t := range tutors {
		prefix := "  "
		if i == m.selected && m.mode == setupList {
			prefix = selectedStyle.Render(">") + " "
		}
		b.WriteString(prefix)
		b.WriteString(avatar(t))
		b.WriteString(" ")
		b.WriteString(tutorNameStyle.Render(t.Name))
		b.WriteString(" ")
		b.WriteString(tutorGroupStyle.Render("[" + t.Group + "]"))
		b.WriteString("\n")
		b.WriteString("     ")
		b.WriteString(mutedStyle.Render(runewidth.Truncate(t.Personality, textWidth, "…")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode == setupForm:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	case !m.roster.Full():
		b.WriteString(textStyle.Render("+ " + m.t.T("SetupAdd")))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	help := m.t.T("SetupHelp")
	if m.mode == setupForm {
		help = m.t.T("SetupFormHelp")
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m SetupModel) renderForm() string {
	var b strings.Builder

	photo := m.t.T("SetupNoPhoto")
	if m.imagePath != "" {
		photo = filepath.Base(m.imagePath)
	}
	b.WriteString(mutedStyle.Render("📷 " + m.t.T("SetupPhoto") + ": "))
	b.WriteString(textStyle.Render(photo))
	b.WriteString("\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	return formStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// avatar is the terminal stand-in for a tutor picture.
func avatar(t simkung.Tutor) string {
	if t.ImageURL != "" {
		return "📷"
	}
	return "🙂"
}
