package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/simkung/simkung/internal/prompt"
	"github.com/simkung/simkung/internal/simkung"
)

const analysisReply = `{
  "words": [
    {"word": "おはよう", "reading": "おはよう", "romaji": "ohayou", "meaning": "좋은 아침", "type": "감탄사"}
  ],
  "dialogue": [
    {"tutorId": "t-1", "tutorName": "Karina", "tutorAge": "25세", "text": "おはよう！", "reading": "Ohayou!", "translation": "좋은 아침!"},
    {"tutorId": "t-2", "tutorName": "Winter", "text": "おはよう〜", "reading": "Ohayou", "translation": "안녕~"}
  ],
  "nextSuggestion": {"text": "おやすみ", "meaning": "잘 자"}
}`

const quizReply = `{
  "questionParts": [
    {"text": "おは", "reading": "oha", "isBlank": false},
    {"text": "よう", "reading": "you", "isBlank": true}
  ],
  "translation": "좋은 아침",
  "options": [
    {"text": "よう", "reading": "you", "explanation": "정답"},
    {"text": "なし", "reading": "nashi", "explanation": "오답"},
    {"text": "ます", "reading": "masu", "explanation": "오답"},
    {"text": "です", "reading": "desu", "explanation": "오답"}
  ],
  "correctAnswerIndex": 0,
  "explanation": "인사말",
  "encouragement": {"tutorName": "Winter", "message": "잘했어!"}
}`

type fakeProvider struct {
	reply string
	err   error
	block bool
	calls []Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, req Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

var tutors = []simkung.Tutor{
	{ID: "t-1", Name: "Karina", Group: "aespa", Personality: "leader"},
	{ID: "t-2", Name: "Winter", Group: "aespa", Personality: "tsundere"},
}

func newTestClient(p Provider, opts ...Option) *Client {
	return NewClient(p, prompt.NewGenerator(""), opts...)
}

func TestAnalyzeSentence(t *testing.T) {
	fp := &fakeProvider{reply: analysisReply}
	c := newTestClient(fp)

	got, err := c.AnalyzeSentence(context.Background(), " おはよう ", tutors)
	if err != nil {
		t.Fatalf("AnalyzeSentence: %v", err)
	}

	if got.OriginalText != "おはよう" {
		t.Errorf("OriginalText = %q", got.OriginalText)
	}
	if len(got.Words) != 1 || got.Words[0].Romaji != "ohayou" {
		t.Errorf("Words = %+v", got.Words)
	}
	if len(got.Dialogue) != 2 || got.Dialogue[0].TutorAge != "25세" || got.Dialogue[1].TutorAge != "" {
		t.Errorf("Dialogue = %+v", got.Dialogue)
	}
	if got.NextSuggestion == nil || got.NextSuggestion.Text != "おやすみ" {
		t.Errorf("NextSuggestion = %+v", got.NextSuggestion)
	}

	if len(fp.calls) != 1 {
		t.Fatalf("provider called %d times", len(fp.calls))
	}
	req := fp.calls[0]
	if req.Name != "analysis" || req.Schema == nil {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.Prompt, `ID: "t-2", Name: "Winter"`) {
		t.Errorf("prompt does not list tutors:\n%s", req.Prompt)
	}
}

func TestAnalyzeSentenceFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		text     string
	}{
		{"provider error", &fakeProvider{err: errors.New("503")}, "おはよう"},
		{"empty reply", &fakeProvider{reply: "  "}, "おはよう"},
		{"malformed json", &fakeProvider{reply: `{"words": [`}, "おはよう"},
		{"missing field", &fakeProvider{reply: `{"words": [], "dialogue": []}`}, "おはよう"},
		{"wrong type", &fakeProvider{reply: `{"words": "x", "dialogue": [], "nextSuggestion": {"text": "a", "meaning": "b"}}`}, "おはよう"},
		{"null fields", &fakeProvider{reply: `{"words": null, "dialogue": null, "nextSuggestion": null}`}, "おはよう"},
		{"empty input", &fakeProvider{reply: analysisReply}, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(tt.provider)
			got, err := c.AnalyzeSentence(context.Background(), tt.text, tutors)
			if !errors.Is(err, ErrAnalyze) {
				t.Fatalf("err = %v, want ErrAnalyze", err)
			}
			if got != nil {
				t.Errorf("result = %+v, want nil", got)
			}
		})
	}
}

func TestAnalyzeSentenceTimeout(t *testing.T) {
	c := newTestClient(&fakeProvider{block: true}, WithTimeout(10*time.Millisecond))

	_, err := c.AnalyzeSentence(context.Background(), "おはよう", tutors)
	if !errors.Is(err, ErrAnalyze) {
		t.Fatalf("err = %v, want ErrAnalyze", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want wrapped deadline", err)
	}
}

func TestGenerateQuiz(t *testing.T) {
	fp := &fakeProvider{reply: quizReply}
	var gotN int
	c := newTestClient(fp, WithRand(func(n int) int {
		gotN = n
		return 1
	}))

	last := &simkung.AnalysisResult{OriginalText: "おはよう"}
	quiz, err := c.GenerateQuiz(context.Background(), last, tutors)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}

	if gotN != len(tutors) {
		t.Errorf("rand drew from %d, want %d", gotN, len(tutors))
	}
	if len(quiz.Options) != 4 || quiz.CorrectAnswerIndex != 0 {
		t.Errorf("quiz = %+v", quiz)
	}
	if !quiz.QuestionParts[1].IsBlank {
		t.Error("second part should be the blank")
	}

	p := fp.calls[0].Prompt
	if !strings.Contains(p, `Generate an encouragement message from Tutor: "Winter".`) {
		t.Errorf("prompt does not name the chosen tutor:\n%s", p)
	}
	if !strings.Contains(p, `based on: "おはよう"`) {
		t.Errorf("prompt does not quote the sentence:\n%s", p)
	}
}

func TestGenerateQuizFailures(t *testing.T) {
	last := &simkung.AnalysisResult{OriginalText: "おはよう"}

	tests := []struct {
		name   string
		reply  string
		err    error
		last   *simkung.AnalysisResult
		tutors []simkung.Tutor
	}{
		{"provider error", "", errors.New("boom"), last, tutors},
		{"no tutors", quizReply, nil, last, nil},
		{"no analysis", quizReply, nil, nil, tutors},
		{"fractional index", strings.Replace(quizReply, `"correctAnswerIndex": 0`, `"correctAnswerIndex": 0.5`, 1), nil, last, tutors},
		{"all null", `{"questionParts": null, "translation": null, "options": null, "correctAnswerIndex": null, "explanation": null, "encouragement": null}`, nil, last, tutors},
		{"missing encouragement", `{"questionParts": [], "translation": "", "options": [], "correctAnswerIndex": 0, "explanation": ""}`, nil, last, tutors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&fakeProvider{reply: tt.reply, err: tt.err})
			_, err := c.GenerateQuiz(context.Background(), tt.last, tt.tutors)
			if !errors.Is(err, ErrQuiz) {
				t.Fatalf("err = %v, want ErrQuiz", err)
			}
		})
	}
}

func TestGenerateQuizTrustsIndex(t *testing.T) {
	reply := strings.Replace(quizReply, `"correctAnswerIndex": 0`, `"correctAnswerIndex": 7`, 1)
	c := newTestClient(&fakeProvider{reply: reply})

	quiz, err := c.GenerateQuiz(context.Background(), &simkung.AnalysisResult{OriginalText: "x"}, tutors)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if quiz.CorrectAnswerIndex != 7 {
		t.Errorf("CorrectAnswerIndex = %d", quiz.CorrectAnswerIndex)
	}
	if _, ok := quiz.CorrectOption(); ok {
		t.Error("out of range index should have no correct option")
	}
}
