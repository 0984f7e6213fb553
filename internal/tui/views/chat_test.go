package views

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/simkung/simkung/internal/logging"
	"github.com/simkung/simkung/internal/simkung"
)

func newChat(t *testing.T, mode simkung.CourseMode, a *fakeAnalyzer, opts ...ChatOption) (ChatModel, *fakeEngine) {
	t.Helper()
	sess, _ := newSession(sana)
	if err := sess.SelectCourse(mode); err != nil {
		t.Fatal(err)
	}
	speaker, eng := newSpeaker()
	m := NewChatModel(sess, a, speaker, translator(t), logging.Discard(), opts...)
	m.SetSize(80, 30)
	m.Enter()
	return m, eng
}

// press sends a key and feeds any analysis result back into the model.
func press(t *testing.T, m ChatModel, k string) ChatModel {
	t.Helper()
	m, cmd := m.Update(key(k))
	for _, msg := range run(t, cmd) {
		if done, ok := msg.(AnalyzedMsg); ok {
			m, _ = m.Update(done)
		}
	}
	return m
}

func TestBasicCourseOhayou(t *testing.T) {
	a := &fakeAnalyzer{}
	m, _ := newChat(t, simkung.CourseBasic, a)

	if m.Typing() {
		t.Fatal("basic course should start on the phrase menu")
	}
	if !strings.Contains(m.View(), "おはよう") {
		t.Fatal("phrase menu not shown")
	}

	m = press(t, m, "enter")

	if got := a.analyzed(); !reflect.DeepEqual(got, []string{"おはよう"}) {
		t.Fatalf("analyzed %q, want exactly おはよう", got)
	}
	history := m.sess.History()
	if len(history) != 1 || history[0].OriginalText != "おはよう" {
		t.Fatalf("history = %+v", history)
	}
	if m.Loading() {
		t.Error("still loading after the result arrived")
	}
}

func TestBasicCourseNumberKey(t *testing.T) {
	a := &fakeAnalyzer{}
	m, _ := newChat(t, simkung.CourseBasic, a)

	m = press(t, m, "5")

	if got := a.analyzed(); !reflect.DeepEqual(got, []string{"ありがとう"}) {
		t.Errorf("analyzed %q", got)
	}
}

func TestDuplicateSubmitIgnored(t *testing.T) {
	a := &fakeAnalyzer{}
	m, _ := newChat(t, simkung.CourseBasic, a)

	m, first := m.Update(key("enter"))
	if first == nil || !m.Loading() {
		t.Fatal("first submit did not start loading")
	}
	m, second := m.Update(key("enter"))
	if second != nil {
		t.Error("second submit while loading produced a command")
	}
	if !strings.Contains(m.View(), m.t.T("ChatThinking")) {
		t.Error("loading message not shown")
	}
}

func TestFreeModeTyping(t *testing.T) {
	a := &fakeAnalyzer{}
	m, _ := newChat(t, simkung.CourseFree, a)

	if !m.Typing() {
		t.Fatal("free course should start in the input box")
	}
	for _, r := range "こんにちは" {
		m, _ = m.Update(key(string(r)))
	}
	m = press(t, m, "enter")

	if got := a.analyzed(); !reflect.DeepEqual(got, []string{"こんにちは"}) {
		t.Errorf("analyzed %q", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestAnalysisFailure(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("boom")}
	m, _ := newChat(t, simkung.CourseBasic, a)

	m = press(t, m, "enter")

	if len(m.sess.History()) != 0 {
		t.Error("failed analysis added history")
	}
	if !strings.Contains(m.View(), m.t.T("ChatFailed")) {
		t.Error("failure message not shown")
	}
}

func TestNextPhrase(t *testing.T) {
	a := &fakeAnalyzer{next: &simkung.Suggestion{Text: "おやすみ", Meaning: "잘 자"}}
	m, _ := newChat(t, simkung.CourseBasic, a)

	m = press(t, m, "enter")
	if !strings.Contains(m.View(), "おやすみ") {
		t.Error("suggestion not offered")
	}
	m = press(t, m, "n")

	if got := a.analyzed(); !reflect.DeepEqual(got, []string{"おはよう", "おやすみ"}) {
		t.Errorf("analyzed %q", got)
	}
}

func TestNextPhraseRandomFallback(t *testing.T) {
	a := &fakeAnalyzer{}
	m, _ := newChat(t, simkung.CourseBasic, a, WithRand(func(int) int { return 7 }))

	m = press(t, m, "enter")
	m = press(t, m, "n")

	if got := a.analyzed(); !reflect.DeepEqual(got, []string{"おはよう", "わかりました"}) {
		t.Errorf("analyzed %q", got)
	}
}

func TestSpeakAndCopySelection(t *testing.T) {
	var copied []string
	a := &fakeAnalyzer{}
	m, eng := newChat(t, simkung.CourseBasic, a, WithClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	}))

	m = press(t, m, "enter")
	m = press(t, m, "y")
	m = press(t, m, "l")
	m = press(t, m, "l")
	m = press(t, m, "y")
	m = press(t, m, "s")
	m.speaker.Wait()

	want := []string{"おはよう", "おはよう！"}
	if !reflect.DeepEqual(copied, want) {
		t.Errorf("copied %q, want %q", copied, want)
	}
	if got := eng.said(); !reflect.DeepEqual(got, []string{"おはよう！"}) {
		t.Errorf("spoke %q", got)
	}
	if !strings.Contains(m.View(), m.t.T("ChatCopied")) {
		t.Error("copy confirmation not shown")
	}
}

func TestQuizNeedsHistory(t *testing.T) {
	m, _ := newChat(t, simkung.CourseFree, &fakeAnalyzer{})

	m = press(t, m, "tab")
	m = press(t, m, "z")

	if m.sess.Step() != simkung.StepChat {
		t.Errorf("step = %s, want chat", m.sess.Step())
	}
	if !strings.Contains(m.View(), m.t.T("ChatNoQuiz")) {
		t.Error("hint not shown")
	}
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newChat(t, simkung.CourseBasic, &fakeAnalyzer{})
	m = press(t, m, "enter")

	m = press(t, m, "z")
	if m.sess.Step() != simkung.StepQuiz {
		t.Errorf("z: step = %s, want quiz", m.sess.Step())
	}

	m.sess.BackToChat()
	m = press(t, m, "t")
	if m.sess.Step() != simkung.StepSetup {
		t.Errorf("t: step = %s, want setup", m.sess.Step())
	}

	_, cmd := m.Update(key("v"))
	find[OpenVoiceSettingsMsg](t, run(t, cmd))
}
