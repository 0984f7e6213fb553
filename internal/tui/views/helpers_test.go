package views

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/logging"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
)

var sana = simkung.Tutor{ID: "t1", Name: "Sana", Group: "TWICE", Personality: "cheerful"}

type memStore struct {
	mu     sync.Mutex
	tutors []simkung.Tutor
	tts    []simkung.TTSSettings
}

func (m *memStore) LoadTutors() []simkung.Tutor { return m.tutors }

func (m *memStore) SaveTutors(t []simkung.Tutor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tutors = t
	return nil
}

func (m *memStore) SaveTTS(s simkung.TTSSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tts = append(m.tts, s)
	return nil
}

type fakeAnalyzer struct {
	mu      sync.Mutex
	texts   []string
	next    *simkung.Suggestion
	err     error
	quiz    *simkung.QuizData
	quizErr error
}

func (f *fakeAnalyzer) AnalyzeSentence(_ context.Context, text string, _ []simkung.Tutor) (*simkung.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return &simkung.AnalysisResult{
		OriginalText: text,
		Words: []simkung.WordAnalysis{
			{Word: text, Reading: "よみ", Romaji: "yomi", Meaning: "뜻", Type: "감탄사"},
			{Word: "です", Reading: "です", Romaji: "desu", Meaning: "입니다", Type: "조동사"},
		},
		Dialogue: []simkung.DialogueLine{
			{TutorID: "t1", TutorName: "Sana", Text: text + "！", Reading: "yomi!", Translation: "번역"},
		},
		NextSuggestion: f.next,
	}, nil
}

func (f *fakeAnalyzer) GenerateQuiz(_ context.Context, _ *simkung.AnalysisResult, _ []simkung.Tutor) (*simkung.QuizData, error) {
	if f.quizErr != nil {
		return nil, f.quizErr
	}
	return f.quiz, nil
}

func (f *fakeAnalyzer) analyzed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

var sampleQuiz = &simkung.QuizData{
	QuestionParts: []simkung.QuestionPart{
		{IsBlank: true},
		{Text: "ございます", Reading: "gozaimasu"},
	},
	Translation: "안녕하세요",
	Options: []simkung.QuizOption{
		{Text: "おはよう", Reading: "ohayou", Explanation: "아침 인사"},
		{Text: "こんばんは", Reading: "konbanwa", Explanation: "저녁 인사"},
		{Text: "さようなら", Reading: "sayounara", Explanation: "작별 인사"},
		{Text: "ありがとう", Reading: "arigatou", Explanation: "감사"},
	},
	CorrectAnswerIndex: 0,
	Explanation:        "정중한 아침 인사",
	Encouragement:      simkung.Encouragement{TutorName: "Sana", Message: "잘했어!"},
}

// fakeEngine speaks instantly and records what it said.
type fakeEngine struct {
	mu     sync.Mutex
	spoken []speech.Utterance
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Voices(context.Context) ([]speech.Voice, error) {
	return []speech.Voice{
		{ID: "Kyoko", Name: "Kyoko", Lang: "ja_JP"},
		{ID: "Alex", Name: "Alex", Lang: "en_US"},
		{ID: "Otoya", Name: "Otoya", Lang: "ja_JP"},
	}, nil
}

func (f *fakeEngine) Speak(_ context.Context, u speech.Utterance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, u)
	return nil
}

func (f *fakeEngine) said() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, u := range f.spoken {
		out = append(out, u.Text)
	}
	return out
}

func translator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("ko", logging.Discard())
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	return tr
}

func newSession(tutors ...simkung.Tutor) (*session.Session, *memStore) {
	store := &memStore{tutors: tutors}
	return session.New(store, logging.Discard()), store
}

func newSpeaker() (*speech.Speaker, *fakeEngine) {
	eng := &fakeEngine{}
	return speech.NewSpeaker(eng, simkung.DefaultTTSSettings(), logging.Discard()), eng
}

// key builds a key press as bubbletea delivers it.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and returns the messages it produces. Commands that wait,
// such as cursor blinks and delayed status clears, are dropped.
func run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(t, c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// find returns the first message of type T.
func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}
