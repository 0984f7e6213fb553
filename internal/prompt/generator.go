// Package prompt generates the natural-language prompts sent to the model
// for sentence analysis and quiz generation.
package prompt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/simkung/simkung/internal/simkung"
)

// DefaultLanguage is the language meanings and explanations are written in.
const DefaultLanguage = "Korean"

// Generator renders analysis and quiz prompts.
type Generator struct {
	language string
	analyze  *template.Template
	quiz     *template.Template
}

// AnalyzeData is the input to the analysis template.
type AnalyzeData struct {
	Text     string
	Tutors   []simkung.Tutor
	Language string
	Korean   bool
}

// QuizData is the input to the quiz template.
type QuizData struct {
	OriginalText string
	Tutors       []simkung.Tutor
	Encourager   simkung.Tutor
	Language     string
	Korean       bool
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
}

// NewGenerator creates a generator that asks for explanations in language.
// An empty language means DefaultLanguage.
func NewGenerator(language string) *Generator {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	return &Generator{
		language: language,
		analyze:  template.Must(template.New("analyze").Funcs(funcs).Parse(analyzeTemplate)),
		quiz:     template.Must(template.New("quiz").Funcs(funcs).Parse(quizTemplate)),
	}
}

// Language returns the explanation language.
func (g *Generator) Language() string {
	return g.language
}

// SetTemplates replaces the analysis and quiz templates. Empty strings keep
// the current template.
func (g *Generator) SetTemplates(analyze, quiz string) error {
	if analyze != "" {
		t, err := template.New("analyze").Funcs(funcs).Parse(analyze)
		if err != nil {
			return fmt.Errorf("parsing analyze template: %w", err)
		}
		g.analyze = t
	}
	if quiz != "" {
		t, err := template.New("quiz").Funcs(funcs).Parse(quiz)
		if err != nil {
			return fmt.Errorf("parsing quiz template: %w", err)
		}
		g.quiz = t
	}
	return nil
}

// Analyze renders the prompt for breaking down text and writing a skit
// performed by tutors.
func (g *Generator) Analyze(text string, tutors []simkung.Tutor) (string, error) {
	return execute(g.analyze, AnalyzeData{
		Text:     text,
		Tutors:   tutors,
		Language: g.language,
		Korean:   g.isKorean(),
	})
}

// Quiz renders the prompt for a fill-in-the-blank quiz on originalText.
// encourager is the tutor who must write the encouragement.
func (g *Generator) Quiz(originalText string, tutors []simkung.Tutor, encourager simkung.Tutor) (string, error) {
	return execute(g.quiz, QuizData{
		OriginalText: originalText,
		Tutors:       tutors,
		Encourager:   encourager,
		Language:     g.language,
		Korean:       g.isKorean(),
	})
}

func (g *Generator) isKorean() bool {
	return strings.EqualFold(g.language, "korean")
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

const analyzeTemplate = `
Analyze the Japanese sentence: {{ quote .Text }}.

1. Break it down word by word, including particles.
2. Grammar/Type Formatting Rules:
   - Write meanings and parts of speech in {{ .Language }}.
   - If it's a conjugated form, you MUST include the reading in parentheses.
{{- if .Korean }}
   - Example 1: Instead of 'Te-form', write 'て형(테형)'.
   - Example 2: Instead of 'Masu-form', write 'ます형(마스형)'.
   - Full Example: '동사 (て형(테형), 요청)', '형용사 (과거형)'
{{- else }}
   - Example: 'verb (て-form (te), request)', 'verb (ます-form (masu))'
{{- end }}

3. Dialogue Rules (MEMBERS TALK):
   - This is a SKIT/ROLEPLAY.
   - The characters already KNOW the phrase.
   - They are using it naturally in a conversation with each other.
   - Do NOT explain the meaning in the dialogue. Just use it.
   - Ensure EVERY character listed below speaks at least once.
   - Use the EXACT ID provided in the character list for the 'tutorId' field.
   - Use 'narrator' as the 'tutorId' only for a general explanation.

   - LANGUAGE STRICTNESS:
     - The 'text' field must be 100% Japanese.
     - Do NOT mix {{ .Language }} or English words into the Japanese text.
     - Bad Example: "유우 군~ 大好き이야!" (Mixed scripts).
     - Good Example: "ユウ君〜大好きだよ！" (Pure Japanese).
     - If a word is borrowed, use Katakana.
     - The 'translation' field is written in {{ .Language }}.

   - REAL AGE RETRIEVAL:
     - Infer the real age of each character from their 'Name' and 'Group'.
     - For a real person, calculate the age from their birthdate as of today.
{{- if .Korean }}
     - Format the 'tutorAge' field as '24세' or '25세'.
{{- else }}
     - Format the 'tutorAge' field as a short age label, e.g. '24'.
{{- end }}
     - If the character is fictional or unknown, estimate a suitable age.

   - PRONUNCIATION:
     - Provide the Romaji pronunciation for the full sentence in the 'reading' field (e.g. 'Arigatou gozaimasu').
     - Do NOT use Hiragana/Katakana for the dialogue reading field.

   - CRITICAL PERSONALITY INSTRUCTION:
     - You MUST dramatically embody the "Personality" trait defined for each character.
     - If a character is "Savage" or "Fact-bomber", they should be blunt, sarcastic, or teasing.
     - If a character is "Cute/Aegyo", they should use a cutesy tone and emojis.
     - If a character is "Leader/Serious", they should be calm, organizing, or protective.
     - If a character is "4D/Weird", they should say something random or off-beat.
     - Do NOT make them all sound polite and generic. Make them sound like close friends or group members teasing or talking to each other.

4. Next Lesson:
   - Suggest ONE natural follow-up Japanese phrase/word that a student should learn AFTER {{ quote .Text }}.
   - Give its meaning in {{ .Language }}.

Characters:
{{- range .Tutors }}
ID: {{ quote .ID }}, Name: {{ quote .Name }}, Group: {{ quote .Group }}, Personality: {{ quote .Personality }}
{{- end }}

Output in JSON.
`

const quizTemplate = `
Create a Japanese fill-in-the-blank quiz based on: {{ quote .OriginalText }}.

Requirements:
1. Split the sentence into parts; exactly one part is the blank.
2. Provide readings (Romaji) for the question parts AND the options. Do NOT use Hiragana/Katakana.
3. Provide a {{ .Language }} translation of the full sentence.
4. Provide exactly 4 options and the index (0-3) of the correct one.
5. For EACH option, explain WHY it is correct or incorrect in this context (in {{ .Language }}).
{{- if .Korean }}
   - GRAMMAR FORMATTING: If you mention Japanese conjugation forms (like て형, ます형, etc.) in the explanations, you MUST include the Korean pronunciation in parentheses.
   - Example: "'-ます'형" -> "'-ます'형(마스형)"
   - Example: "'て'형" -> "'て'형(테형)"
{{- else }}
   - GRAMMAR FORMATTING: If you mention Japanese conjugation forms (like て-form), include the pronunciation in parentheses, e.g. "て-form (te)".
{{- end }}
6. Encouragement:
   - Generate an encouragement message from Tutor: {{ quote .Encourager.Name }}.
   - You MUST use this specific tutor.
   - PERSONALITY CHECK: The tutor's message MUST reflect their specific "Personality": {{ quote .Encourager.Personality }}.
   - Example: A "Tsundere" character might say "It's not like I'm proud of you or anything, but good job."
   - Example: A "Savage" character might say "Surprisingly, you got it right."
   - Example: A "Warm" character should be very supportive.

Context Characters:
{{- range .Tutors }}
Name: {{ .Name }}, Personality: {{ .Personality }}
{{- end }}

Output in JSON.
`
