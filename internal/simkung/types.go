// Package simkung provides the core record types for the Japanese tutor chat.
package simkung

// Tutor is a user-defined persona that colors the generated dialogue.
type Tutor struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Group       string `json:"group" yaml:"group"`                            // e.g. "TWICE"
	Personality string `json:"personality" yaml:"personality"`                // free text, e.g. "savage, 4D"
	AvatarSeed  int    `json:"avatarSeed" yaml:"avatar_seed"`                 // placeholder image seed
	ImageURL    string `json:"imageUrl,omitempty" yaml:"image_url,omitempty"` // optional data URI
}

// NarratorID is the speaker id used for lines that belong to no tutor.
const NarratorID = "narrator"

// WordAnalysis is the breakdown of one word or particle.
type WordAnalysis struct {
	Word    string `json:"word"`
	Reading string `json:"reading"` // hiragana/katakana
	Romaji  string `json:"romaji"`
	Meaning string `json:"meaning"`
	Type    string `json:"type"` // part of speech, conjugation reading in parentheses
}

// DialogueLine is one line of the role-play skit.
type DialogueLine struct {
	TutorID     string `json:"tutorId"`
	TutorName   string `json:"tutorName"`
	TutorAge    string `json:"tutorAge,omitempty"`
	Text        string `json:"text"`    // pure Japanese
	Reading     string `json:"reading"` // romaji of the full line
	Translation string `json:"translation"`
}

// Suggestion is the recommended next phrase to learn.
type Suggestion struct {
	Text    string `json:"text"`
	Meaning string `json:"meaning"`
}

// AnalysisResult is the structured breakdown of one input sentence.
// It is appended to the history once and never mutated.
type AnalysisResult struct {
	OriginalText   string         `json:"originalText"`
	Words          []WordAnalysis `json:"words"`
	Dialogue       []DialogueLine `json:"dialogue"`
	NextSuggestion *Suggestion    `json:"nextSuggestion,omitempty"`
}

// QuestionPart is a fragment of the quiz sentence; one of them is the blank.
type QuestionPart struct {
	Text    string `json:"text"`
	Reading string `json:"reading"`
	IsBlank bool   `json:"isBlank"`
}

// QuizOption is one of the four answers.
type QuizOption struct {
	Text        string `json:"text"`
	Reading     string `json:"reading"`
	Explanation string `json:"explanation"` // why it is right or wrong here
}

// Encouragement is a message from one tutor shown after answering.
type Encouragement struct {
	TutorName string `json:"tutorName"`
	Message   string `json:"message"`
}

// QuizData is a fill-in-the-blank question derived from the latest analysis.
type QuizData struct {
	QuestionParts      []QuestionPart `json:"questionParts"`
	Translation        string         `json:"translation"`
	Options            []QuizOption   `json:"options"`
	CorrectAnswerIndex int            `json:"correctAnswerIndex"`
	Explanation        string         `json:"explanation"` // general grammar note
	Encouragement      Encouragement  `json:"encouragement"`
}

// CorrectOption returns the correct option, or false when the index the
// model returned is out of range.
func (q *QuizData) CorrectOption() (QuizOption, bool) {
	if q == nil || q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return QuizOption{}, false
	}
	return q.Options[q.CorrectAnswerIndex], true
}

// TTSSettings are the persisted speech preferences.
type TTSSettings struct {
	VoiceURI string  `json:"voiceURI"`
	Rate     float64 `json:"rate"`
	Pitch    float64 `json:"pitch"`
}

// DefaultTTSSettings returns the settings used when nothing is stored.
func DefaultTTSSettings() TTSSettings {
	return TTSSettings{VoiceURI: "", Rate: 1.0, Pitch: 1.0}
}

// CourseMode selects how the chat screen starts.
type CourseMode string

const (
	CourseBasic CourseMode = "basic" // pick from fixed everyday phrases
	CourseFree  CourseMode = "free"  // type anything
)

// Step is the screen the application is on.
type Step string

const (
	StepSplash       Step = "splash"
	StepSetup        Step = "setup"
	StepCourseSelect Step = "course_select"
	StepChat         Step = "chat"
	StepQuiz         Step = "quiz"
)
