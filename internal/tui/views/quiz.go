package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
	"github.com/sirupsen/logrus"
)

var (
	blankStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	optionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(40)

	optionCorrectStyle = optionStyle.
				BorderForeground(colorPrimary).
				Foreground(colorPrimary)

	optionWrongStyle = optionStyle.
				BorderForeground(colorRed).
				Foreground(colorRed)

	optionRevealedStyle = optionStyle.
				BorderForeground(colorGreen).
				Foreground(colorGreen)

	optionCursorStyle = optionStyle.
				BorderForeground(colorYellow)

	encourageStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Italic(true)
)

// QuizReadyMsg carries a generated quiz.
type QuizReadyMsg struct {
	Data *simkung.QuizData
	Err  error
}

// QuizModel is the quiz screen.
type QuizModel struct {
	sess     *session.Session
	analyzer session.Analyzer
	speaker  *speech.Speaker
	t        *i18n.Translator
	log      *logrus.Logger

	spinner spinner.Model
	loading bool
	state   *session.QuizState
	cursor  int

	width  int
	height int
}

// NewQuizModel creates the quiz screen.
func NewQuizModel(sess *session.Session, analyzer session.Analyzer, speaker *speech.Speaker, t *i18n.Translator, log *logrus.Logger) QuizModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return QuizModel{
		sess:     sess,
		analyzer: analyzer,
		speaker:  speaker,
		t:        t,
		log:      log,
		spinner:  sp,
	}
}

// SetSize updates the view dimensions.
func (m *QuizModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Enter starts generating a quiz for the latest analysis.
func (m *QuizModel) Enter() tea.Cmd {
	m.loading = true
	m.state = nil
	m.cursor = 0

	sess, analyzer := m.sess, m.analyzer
	generate := func() tea.Msg {
		data, err := sess.Quiz(context.Background(), analyzer)
		return QuizReadyMsg{Data: data, Err: err}
	}
	return tea.Batch(m.spinner.Tick, generate)
}

// State returns the answer state, or nil while loading or after a failure.
func (m QuizModel) State() *session.QuizState {
	return m.state
}

// Update handles messages.
func (m QuizModel) Update(msg tea.Msg) (QuizModel, tea.Cmd) {
	switch msg := msg.(type) {
	case QuizReadyMsg:
		m.loading = false
		if msg.Err != nil {
			m.log.WithError(msg.Err).Warn("quiz generation failed")
			return m, nil
		}
		m.state = session.NewQuizState(msg.Data)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m QuizModel) updateKeys(msg tea.KeyMsg) (QuizModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc", "b":
		if !m.loading {
			m.sess.BackToChat()
		}
		return m, nil
	case "h":
		if !m.loading {
			m.sess.Reset()
		}
		return m, nil
	}

	if m.state == nil {
		return m, nil
	}
	options := m.state.Data().Options

	switch key := msg.String(); key {
	case "j", "down":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		m.state.Select(m.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if m.state.Select(i) {
			m.cursor = i
		}
	case "s":
		m.speaker.Speak(m.sentence())
	}
	return m, nil
}

// sentence is the question read aloud: the blank is spoken once answered.
func (m QuizModel) sentence() string {
	var b strings.Builder
	for _, p := range m.state.Data().QuestionParts {
		if p.IsBlank {
			b.WriteString(m.state.BlankText())
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// View renders the quiz screen.
func (m QuizModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.t.T("QuizTitle")))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " " + loadingStyle.Render(m.t.T("QuizLoading")))
		b.WriteString("\n")
	case m.state == nil:
		b.WriteString(errorStyle.Render(m.t.T("QuizFailed")))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderQuestion())
		b.WriteString(m.renderOptions())
		if m.state.Answered() {
			b.WriteString(m.renderFeedback())
		}
	}

	b.WriteString(helpStyle.Render(m.t.T("QuizHelp")))
	return b.String()
}

func (m QuizModel) renderQuestion() string {
	data := m.state.Data()
	width := max(m.width-4, 20)

	var question, readings []string
	for _, p := range data.QuestionParts {
		if p.IsBlank {
			fill := m.state.BlankText()
			if fill == "" {
				fill = "　　　"
			}
			question = append(question, blankStyle.Render(fill))
			continue
		}
		question = append(question, questionStyle.Render(p.Text))
		if p.Reading != "" {
			readings = append(readings, p.Reading)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(question, " "))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(wrapText(strings.Join(readings, " "), width)))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(wrapText(data.Translation, width-4)))
	b.WriteString("\n\n")
	return b.String()
}

func (m QuizModel) renderOptions() string {
	var b strings.Builder
	for i, opt := range m.state.Data().Options {
		style := optionStyle
		switch m.state.State(i) {
		case session.OptionChosenCorrect:
			style = optionCorrectStyle
		case session.OptionChosenWrong:
			style = optionWrongStyle
		case session.OptionRevealed:
			style = optionRevealedStyle
		default:
			if !m.state.Answered() && i == m.cursor {
				style = optionCursorStyle
			}
		}
		label := fmt.Sprintf("%d. %s  %s", i+1, opt.Text, mutedStyle.Render(opt.Reading))
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	return b.String()
}

func (m QuizModel) renderFeedback() string {
	data := m.state.Data()
	width := max(m.width-4, 20)

	var b strings.Builder
	b.WriteString("\n")
	if m.state.Correct() {
		b.WriteString(successStyle.Render("✔ " + m.t.T("QuizCorrect")))
	} else {
		b.WriteString(errorStyle.Render("✘ " + m.t.T("QuizWrong")))
	}
	b.WriteString("\n\n")

	if !m.state.Correct() {
		if chosen, ok := m.state.SelectedOption(); ok {
			b.WriteString(errorStyle.Render(m.t.Td("QuizChosen", map[string]any{"Text": chosen.Text})))
			b.WriteString("\n")
			b.WriteString(textStyle.Render(wrapText(chosen.Explanation, width)))
			b.WriteString("\n\n")
		}
	}

	if correct, ok := data.CorrectOption(); ok {
		heading := m.t.T("QuizExplanation")
		if !m.state.Correct() {
			heading = m.t.Td("QuizAnswer", map[string]any{"Text": correct.Text})
		}
		b.WriteString(successStyle.Render(heading))
		b.WriteString("\n")
		b.WriteString(textStyle.Render(wrapText(correct.Explanation, width)))
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render(wrapText("💡 "+data.Explanation, width)))
	b.WriteString("\n\n")

	name := data.Encouragement.TutorName
	face := "🙂"
	if t, ok := session.Encourager(m.sess.Tutors(), name); ok {
		name = t.Name
		face = avatar(t)
	}
	b.WriteString(face + " " + speakerStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(encourageStyle.Render(wrapText(`"`+data.Encouragement.Message+`"`, width)))
	b.WriteString("\n")

	return b.String()
}
