package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/simkung/simkung/internal/clipboard"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
	"github.com/sirupsen/logrus"
)

var (
	userBubbleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorPrimary).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	wordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	readingStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true)

	ageStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBgAlt).
			Padding(0, 1)

	lineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	translationStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	nextStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)
)

// Word column width in terminal cells.
const wordColumn = 12

// AnalyzedMsg carries the outcome of an analysis request.
type AnalyzedMsg struct {
	Text   string
	Result *simkung.AnalysisResult
	Err    error
}

// OpenVoiceSettingsMsg asks the app to show the voice settings dialog.
type OpenVoiceSettingsMsg struct{}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// ChatModel is the chat screen: history, input and the basic course menu.
type ChatModel struct {
	sess     *session.Session
	analyzer session.Analyzer
	speaker  *speech.Speaker
	t        *i18n.Translator
	log      *logrus.Logger

	copyText func(string) error
	intn     func(int) int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	loading   bool
	status    string
	statusErr bool

	course int // cursor in the basic course list
	cursor int // selected word or line of the latest result

	width  int
	height int
}

// ChatOption configures a ChatModel.
type ChatOption func(*ChatModel)

// WithClipboard replaces the system clipboard.
func WithClipboard(write func(string) error) ChatOption {
	return func(m *ChatModel) { m.copyText = write }
}

// WithRand sets the source used to pick a random next phrase.
func WithRand(intn func(int) int) ChatOption {
	return func(m *ChatModel) { m.intn = intn }
}

// NewChatModel creates the chat screen.
func NewChatModel(sess *session.Session, analyzer session.Analyzer, speaker *speech.Speaker, t *i18n.Translator, log *logrus.Logger, opts ...ChatOption) ChatModel {
	ti := textinput.New()
	ti.Placeholder = t.T("ChatPlaceholder")
	ti.CharLimit = 200
	ti.Width = 50
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := ChatModel{
		sess:     sess,
		analyzer: analyzer,
		speaker:  speaker,
		t:        t,
		log:      log,
		copyText: clipboard.Write,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// SetSize updates the view dimensions.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-7, 3)
	m.refresh()
}

// Enter prepares the screen when the app switches to it. The basic course
// starts on the phrase menu, everything else in the input box.
func (m *ChatModel) Enter() tea.Cmd {
	m.status = ""
	m.refresh()
	m.viewport.GotoBottom()
	if m.showCourses() {
		m.input.Blur()
		return nil
	}
	return m.input.Focus()
}

// Typing reports whether keys go to the input box.
func (m ChatModel) Typing() bool {
	return m.input.Focused()
}

// Loading reports whether an analysis is in flight.
func (m ChatModel) Loading() bool {
	return m.loading
}

func (m ChatModel) showCourses() bool {
	return m.sess.Mode() == simkung.CourseBasic && len(m.sess.History()) == 0
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateMenu(msg)

	case AnalyzedMsg:
		m.loading = false
		if msg.Err != nil {
			if !errors.Is(msg.Err, session.ErrBusy) {
				m.log.WithError(msg.Err).WithField("text", msg.Text).Warn("analysis failed")
				m.setStatus(m.t.T("ChatFailed"), true)
			}
			m.refresh()
			return m, nil
		}
		m.input.Reset()
		m.cursor = 0
		m.status = ""
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) updateInput(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit(m.input.Value())
	case "tab", "esc":
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) updateMenu(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	courses := session.BasicCourses()

	if m.showCourses() {
		switch key := msg.String(); key {
		case "j", "down":
			m.course = (m.course + 1) % len(courses)
			m.refresh()
			return m, nil
		case "k", "up":
			m.course = (m.course + len(courses) - 1) % len(courses)
			m.refresh()
			return m, nil
		case "enter":
			return m.submit(courses[m.course].Text)
		case "1", "2", "3", "4", "5", "6", "7", "8":
			m.course = int(key[0] - '1')
			return m.submit(courses[m.course].Text)
		}
	}

	switch msg.String() {
	case "tab", "i", "enter":
		return m, m.input.Focus()
	case "left", "h":
		if n := len(m.speakables()); n > 0 {
			m.cursor = (m.cursor + n - 1) % n
			m.refresh()
		}
	case "right", "l":
		if n := len(m.speakables()); n > 0 {
			m.cursor = (m.cursor + 1) % n
			m.refresh()
		}
	case "s", " ":
		if text, ok := m.selection(); ok {
			m.speaker.Speak(text)
		}
	case "y":
		if text, ok := m.selection(); ok {
			if err := m.copyText(text); err != nil {
				m.setStatus(m.t.Td("ChatCopyFailed", map[string]any{"Err": err}), true)
				return m, nil
			}
			m.setStatus(m.t.T("ChatCopied"), false)
			return m, clearStatusAfter(2 * time.Second)
		}
	case "n":
		if last, ok := m.sess.Latest(); ok && m.sess.Mode() == simkung.CourseBasic {
			return m.submit(session.NextPhrase(last, m.intn))
		}
	case "z":
		if m.loading {
			return m, nil
		}
		if err := m.sess.GoToQuiz(); err != nil {
			m.setStatus(m.t.T("ChatNoQuiz"), true)
		}
	case "t":
		if !m.loading {
			m.sess.ManageTutors()
		}
	case "v":
		return m, func() tea.Msg { return OpenVoiceSettingsMsg{} }
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit starts one analysis. It does nothing while another is in flight.
func (m ChatModel) submit(text string) (ChatModel, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.loading {
		return m, nil
	}

	m.loading = true
	m.status = ""
	m.refresh()

	sess, analyzer := m.sess, m.analyzer
	analyze := func() tea.Msg {
		result, err := sess.Analyze(context.Background(), analyzer, text)
		return AnalyzedMsg{Text: text, Result: result, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, analyze)
}

func (m *ChatModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// speakables lists the Japanese texts of the latest result: words first,
// then dialogue lines.
func (m ChatModel) speakables() []string {
	last, ok := m.sess.Latest()
	if !ok {
		return nil
	}
	items := make([]string, 0, len(last.Words)+len(last.Dialogue))
	for _, w := range last.Words {
		items = append(items, w.Word)
	}
	for _, d := range last.Dialogue {
		items = append(items, d.Text)
	}
	return items
}

func (m ChatModel) selection() (string, bool) {
	items := m.speakables()
	if m.cursor < 0 || m.cursor >= len(items) {
		return "", false
	}
	return items[m.cursor], true
}

func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderHistory())
}

// View renders the chat screen.
func (m ChatModel) View() string {
	var b strings.Builder

	title := m.t.T("ChatFree")
	if m.sess.Mode() == simkung.CourseBasic {
		title = m.t.T("ChatBasic")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(m.t.Tp("ChatTutors", len(m.sess.Tutors()))))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " " + loadingStyle.Render(m.t.T("ChatThinking")))
	case m.status != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.status))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(boxStyle.Render(m.input.View()))
	b.WriteString("\n")

	help := m.t.T("ChatHelp")
	if m.input.Focused() {
		help = m.t.T("ChatInputHelp")
	}
	b.WriteString(mutedStyle.Render(help))

	return b.String()
}

func (m ChatModel) renderHistory() string {
	width := max(m.width-2, 20)
	history := m.sess.History()

	if len(history) == 0 {
		if m.sess.Mode() == simkung.CourseBasic {
			return m.renderCourses()
		}
		return "\n" + mutedStyle.Render(wrapText("📖 "+m.t.T("ChatFreeEmpty"), width))
	}

	var b strings.Builder
	for i, item := range history {
		latest := i == len(history)-1
		b.WriteString(m.renderResult(item, latest, width))

		if latest && m.sess.Mode() == simkung.CourseBasic && !m.loading {
			b.WriteString(m.renderNext(item))
		}
		b.WriteString(divider(m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) renderCourses() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render(m.t.T("ChatPickPhrase")))
	b.WriteString("\n\n")
	for i, c := range session.BasicCourses() {
		line := fmt.Sprintf("%d. %s", i+1, runewidth.FillRight(c.Text, wordColumn))
		label := mutedStyle.Render(m.t.T(c.Label))
		if i == m.course && !m.input.Focused() {
			b.WriteString(selectedStyle.Render("> "+line) + " " + label)
		} else {
			b.WriteString("  " + wordStyle.Render(line) + " " + label)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) renderResult(item simkung.AnalysisResult, latest bool, width int) string {
	var b strings.Builder

	bubble := userBubbleStyle.Render(item.OriginalText)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
	b.WriteString("\n\n")

	// Selection marker for the latest result only.
	idx := 0
	mark := func() string {
		defer func() { idx++ }()
		if latest && idx == m.cursor {
			return cursorStyle.Render("▶ ")
		}
		return "  "
	}

	b.WriteString(sectionStyle.Render("✨ " + m.t.T("ChatWords")))
	b.WriteString("\n")
	for _, w := range item.Words {
		word := runewidth.FillRight(runewidth.Truncate(w.Word, wordColumn, "…"), wordColumn)
		b.WriteString(mark())
		b.WriteString(wordStyle.Render(word))
		b.WriteString(" ")
		b.WriteString(readingStyle.Render(w.Reading))
		b.WriteString(mutedStyle.Render(" [" + w.Romaji + "] "))
		b.WriteString(mutedStyle.Render(w.Type))
		b.WriteString("\n")

		meaning := runewidth.Truncate(w.Meaning, max(width-wordColumn-3, 10), "…")
		b.WriteString(strings.Repeat(" ", wordColumn+3))
		b.WriteString(textStyle.Render(meaning))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(mutedStyle.Bold(true).Render(m.t.T("ChatMembersTalk")))
	b.WriteString("\n")
	tutors := m.sess.Tutors()
	for _, line := range item.Dialogue {
		face := "?"
		if t, ok := session.FindTutor(tutors, line.TutorID); ok {
			face = avatar(t)
		}

		b.WriteString(mark())
		b.WriteString(face + " " + speakerStyle.Render(line.TutorName))
		if line.TutorAge != "" {
			b.WriteString(" " + ageStyle.Render(line.TutorAge))
		}
		b.WriteString("\n")

		indent := "     "
		inner := width - len(indent)
		b.WriteString(indentLines(lineStyle.Render(wrapText(line.Text, inner)), indent))
		b.WriteString("\n")
		b.WriteString(indentLines(readingStyle.UnsetBold().Render(wrapText(line.Reading, inner)), indent))
		b.WriteString("\n")
		b.WriteString(indentLines(translationStyle.Render(wrapText(line.Translation, inner)), indent))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

func (m ChatModel) renderNext(item simkung.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(mutedStyle.Render(m.t.T("ChatFinished")))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(m.t.T("ChatAsk")))
	b.WriteString("   ")
	if s := item.NextSuggestion; s != nil && s.Text != "" {
		b.WriteString(nextStyle.Render(m.t.Td("ChatNext", map[string]any{"Text": s.Text, "Meaning": s.Meaning})))
	} else {
		b.WriteString(nextStyle.Render(m.t.T("ChatNextRandom")))
	}
	b.WriteString("\n\n")

	return b.String()
}

// wrapText wraps on spaces where it can and hard-wraps runs without them,
// which is all of a Japanese sentence.
func wrapText(s string, width int) string {
	width = max(width, 10)
	return wrap.String(wordwrap.String(s, width), width)
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}
