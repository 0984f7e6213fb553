package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
	"github.com/simkung/simkung/internal/tui/bigchar"
	"github.com/simkung/simkung/internal/tui/views"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Deps are the services the TUI drives.
type Deps struct {
	Session    *session.Session
	Analyzer   session.Analyzer
	Speaker    *speech.Speaker
	TTSStore   views.TTSSaver
	Translator *i18n.Translator
	Log        *logrus.Logger

	// Fs is where tutor photos are picked from.
	Fs afero.Fs
	// Glyphs draws the splash title; nil falls back to plain text.
	Glyphs *bigchar.Renderer

	ChatOptions   []views.ChatOption
	RosterOptions []session.RosterOption
}

// AppModel is the main TUI model. The screen shown follows the session's
// step.
type AppModel struct {
	sess    *session.Session
	speaker *speech.Speaker
	t       *i18n.Translator

	// Layout state
	width  int
	height int
	ready  bool

	// step is the screen last entered
	step simkung.Step

	// Sub-models (views)
	splashView views.SplashModel
	setupView  views.SetupModel
	courseView views.CourseModel
	chatView   views.ChatModel
	quizView   views.QuizModel
	voiceView  views.VoiceModel

	showVoice bool
	showHelp  bool
}

// NewApp creates the TUI application.
func NewApp(d Deps) AppModel {
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}

	return AppModel{
		sess:    d.Session,
		speaker: d.Speaker,
		t:       d.Translator,
		step:    d.Session.Step(),

		splashView: views.NewSplashModel(d.Session, d.Translator, d.Glyphs),
		setupView:  views.NewSetupModel(d.Session, d.Translator, d.Fs, d.RosterOptions...),
		courseView: views.NewCourseModel(d.Session, d.Translator),
		chatView:   views.NewChatModel(d.Session, d.Analyzer, d.Speaker, d.Translator, d.Log, d.ChatOptions...),
		quizView:   views.NewQuizModel(d.Session, d.Analyzer, d.Speaker, d.Translator, d.Log),
		voiceView:  views.NewVoiceModel(d.Speaker, d.TTSStore, d.Translator, d.Log),
	}
}

// Step returns the screen being shown.
func (m AppModel) Step() simkung.Step {
	return m.step
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			m.speaker.Stop()
			return m, tea.Quit
		}

		if m.showVoice {
			var cmd tea.Cmd
			m.voiceView, cmd = m.voiceView.Update(msg)
			return m, cmd
		}

		// Global keys, unless a text field has focus
		if !m.typing() {
			switch msg.String() {
			case "q":
				m.speaker.Stop()
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - 4
		contentHeight := m.height - 2

		m.splashView.SetSize(contentWidth, contentHeight)
		m.setupView.SetSize(contentWidth, contentHeight)
		m.courseView.SetSize(contentWidth, contentHeight)
		m.chatView.SetSize(contentWidth, contentHeight)
		m.quizView.SetSize(contentWidth, contentHeight)
		m.voiceView.SetSize(m.width, m.height)
		return m, nil

	case views.OpenVoiceSettingsMsg:
		m.voiceView.Open()
		m.showVoice = true
		return m, nil

	case views.VoiceClosedMsg:
		m.showVoice = false
		return m, nil

	// Async results go to their own screen whatever is shown.
	case views.AnalyzedMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m.route(cmd)

	case views.QuizReadyMsg:
		var cmd tea.Cmd
		m.quizView, cmd = m.quizView.Update(msg)
		return m.route(cmd)

	case spinner.TickMsg:
		var chatCmd, quizCmd tea.Cmd
		m.chatView, chatCmd = m.chatView.Update(msg)
		m.quizView, quizCmd = m.quizView.Update(msg)
		return m, tea.Batch(chatCmd, quizCmd)
	}

	// Delegate to active view
	var cmd tea.Cmd
	switch m.step {
	case simkung.StepSplash:
		m.splashView, cmd = m.splashView.Update(msg)
	case simkung.StepSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case simkung.StepCourseSelect:
		m.courseView, cmd = m.courseView.Update(msg)
	case simkung.StepChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case simkung.StepQuiz:
		m.quizView, cmd = m.quizView.Update(msg)
	}

	return m.route(cmd)
}

// route enters the session's current screen if a view moved it.
func (m AppModel) route(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	step := m.sess.Step()
	if step == m.step {
		return m, cmd
	}
	m.step = step

	var enter tea.Cmd
	switch step {
	case simkung.StepSetup:
		m.setupView.Reset()
	case simkung.StepChat:
		enter = m.chatView.Enter()
	case simkung.StepQuiz:
		enter = m.quizView.Enter()
	}
	return m, tea.Batch(cmd, enter)
}

func (m AppModel) typing() bool {
	switch m.step {
	case simkung.StepSetup:
		return m.setupView.Typing()
	case simkung.StepChat:
		return m.chatView.Typing()
	}
	return false
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.showVoice {
		return m.voiceView.View()
	}

	var content string
	switch m.step {
	case simkung.StepSplash:
		content = m.splashView.View()
	case simkung.StepSetup:
		content = m.setupView.View()
	case simkung.StepCourseSelect:
		content = m.courseView.View()
	case simkung.StepChat:
		content = m.chatView.View()
	case simkung.StepQuiz:
		content = m.quizView.View()
	}

	return ContentStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(key, id string) string {
		return HelpKeyStyle.Render(key) + HelpDescStyle.Render(m.t.T(id)) + "\n"
	}

	helpText := HelpTitleStyle.Render(m.t.T("HelpTitle")) + "\n\n"

	helpText += HelpSectionStyle.Render(m.t.T("HelpGlobal")) + "\n"
	helpText += row("?", "HelpShow")
	helpText += row("q ctrl+c", "HelpQuit")

	helpText += HelpSectionStyle.Render(m.t.T("HelpChat")) + "\n"
	helpText += row("enter", "HelpSend")
	helpText += row("tab", "HelpFocus")
	helpText += row("←/→", "HelpSelect")
	helpText += row("s", "HelpSpeak")
	helpText += row("y", "HelpCopy")
	helpText += row("n", "HelpNext")
	helpText += row("z", "HelpQuizStart")
	helpText += row("t", "HelpTutors")
	helpText += row("v", "HelpVoice")

	helpText += HelpSectionStyle.Render(m.t.T("HelpQuiz")) + "\n"
	helpText += row("1-4 enter", "HelpAnswer")
	helpText += row("s", "HelpSpeak")
	helpText += row("esc", "HelpBack")
	helpText += row("h", "HelpHome")

	helpText += "\n" + HelpFooterStyle.Render(m.t.T("HelpClose"))

	// Center the help box
	helpBox := HelpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
