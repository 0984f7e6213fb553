package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
	"github.com/sirupsen/logrus"
)

// Voice settings styles
var (
	voiceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2).
			Width(52)

	voiceLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	voiceValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Background(colorBgAlt).
			Padding(0, 1)

	voiceBarStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

const (
	voiceFieldVoice = iota
	voiceFieldRate
	voiceFieldPitch
	voiceFieldCount
)

const sliderWidth = 20

// TTSSaver persists voice settings.
type TTSSaver interface {
	SaveTTS(simkung.TTSSettings) error
}

// VoiceClosedMsg is sent when the voice settings dialog closes.
type VoiceClosedMsg struct {
	Saved bool
}

// VoiceModel is the voice settings dialog. Changes are previewed without
// being applied until saved.
type VoiceModel struct {
	speaker *speech.Speaker
	store   TTSSaver
	t       *i18n.Translator
	log     *logrus.Logger

	voices []speech.Voice
	local  simkung.TTSSettings
	field  int

	width  int
	height int
}

// NewVoiceModel creates the voice settings dialog.
func NewVoiceModel(speaker *speech.Speaker, store TTSSaver, t *i18n.Translator, log *logrus.Logger) VoiceModel {
	return VoiceModel{speaker: speaker, store: store, t: t, log: log}
}

// SetSize updates the view dimensions.
func (m *VoiceModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Open loads the Japanese voices and the saved settings.
func (m *VoiceModel) Open() {
	m.voices = speech.JapaneseVoices(m.speaker.Voices(context.Background()))
	m.local = m.speaker.Settings()
	m.field = voiceFieldVoice
}

// Settings returns the settings being edited.
func (m VoiceModel) Settings() simkung.TTSSettings {
	return m.local
}

// Update handles messages.
func (m VoiceModel) Update(msg tea.Msg) (VoiceModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "j", "down", "tab":
		m.field = (m.field + 1) % voiceFieldCount
	case "k", "up", "shift+tab":
		m.field = (m.field + voiceFieldCount - 1) % voiceFieldCount
	case "l", "right", "+":
		m.adjust(1)
	case "h", "left", "-":
		m.adjust(-1)
	case "p", " ":
		m.speaker.Preview(m.local)
	case "enter", "s":
		m.speaker.SetSettings(m.local)
		if err := m.store.SaveTTS(m.speaker.Settings()); err != nil {
			m.log.WithError(err).Error("Failed to save TTS settings")
		}
		return m, func() tea.Msg { return VoiceClosedMsg{Saved: true} }
	case "esc", "q":
		return m, func() tea.Msg { return VoiceClosedMsg{} }
	}
	return m, nil
}

func (m *VoiceModel) adjust(dir int) {
	step := speech.ScaleStep * float64(dir)
	switch m.field {
	case voiceFieldVoice:
		if len(m.voices) == 0 {
			return
		}
		i := (m.voiceIndex() + dir + len(m.voices)) % len(m.voices)
		m.local.VoiceURI = m.voices[i].ID
	case voiceFieldRate:
		m.local.Rate = speech.Clamp(m.local.Rate + step)
	case voiceFieldPitch:
		m.local.Pitch = speech.Clamp(m.local.Pitch + step)
	}
}

// voiceIndex is the position of the chosen voice, defaulting to the first.
func (m VoiceModel) voiceIndex() int {
	for i, v := range m.voices {
		if v.ID == m.local.VoiceURI {
			return i
		}
	}
	return 0
}

// View renders the dialog centered in the window.
func (m VoiceModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔊 " + m.t.T("VoiceTitle")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.t.Td("VoiceEngine", map[string]any{"Engine": m.speaker.Engine()})))
	b.WriteString("\n\n")

	b.WriteString(m.label(voiceFieldVoice, m.t.T("VoiceSelect")))
	b.WriteString("\n")
	if len(m.voices) == 0 {
		b.WriteString(voiceValueStyle.Render(m.t.T("VoiceNone")))
		b.WriteString("\n")
		b.WriteString(errorStyle.UnsetBold().Render(m.t.T("VoiceNoneHint")))
	} else {
		v := m.voices[m.voiceIndex()]
		b.WriteString(fmt.Sprintf("◀ %s ▶", voiceValueStyle.Render(fmt.Sprintf("%s (%s)", v.Name, v.Lang))))
	}
	b.WriteString("\n\n")

	b.WriteString(m.label(voiceFieldRate, m.t.T("VoiceRate")))
	b.WriteString(" " + voiceValueStyle.Render(fmt.Sprintf("%.1fx", m.local.Rate)))
	b.WriteString("\n")
	b.WriteString(slider(m.local.Rate, m.t.T("VoiceSlow"), m.t.T("VoiceFast")))
	b.WriteString("\n\n")

	b.WriteString(m.label(voiceFieldPitch, m.t.T("VoicePitch")))
	b.WriteString(" " + voiceValueStyle.Render(fmt.Sprintf("%.1f", m.local.Pitch)))
	b.WriteString("\n")
	b.WriteString(slider(m.local.Pitch, m.t.T("VoiceLow"), m.t.T("VoiceHigh")))
	b.WriteString("\n\n")

	b.WriteString(textStyle.Render("▶ p " + m.t.T("VoicePreview") + "   💾 enter " + m.t.T("VoiceSave")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.t.T("VoiceHelp")))

	box := voiceBoxStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m VoiceModel) label(field int, text string) string {
	if field == m.field {
		return selectedStyle.Render("> " + text)
	}
	return voiceLabelStyle.Render("  " + text)
}

// slider draws value on the MinScale..MaxScale range.
func slider(value float64, low, high string) string {
	pos := int((value - speech.MinScale) / (speech.MaxScale - speech.MinScale) * sliderWidth)
	pos = min(max(pos, 0), sliderWidth)
	bar := strings.Repeat("━", pos) + "●" + strings.Repeat("─", sliderWidth-pos)
	return mutedStyle.Render(low+" ") + voiceBarStyle.Render(bar) + mutedStyle.Render(" "+high)
}
