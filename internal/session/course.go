package session

import (
	"math/rand/v2"

	"github.com/simkung/simkung/internal/simkung"
)

// Course is one phrase of the basic course. Label is a message id in the UI
// translations.
type Course struct {
	Text  string
	Label string
}

var basicCourses = []Course{
	{Text: "おはよう", Label: "CourseOhayou"},
	{Text: "おやすみ", Label: "CourseOyasumi"},
	{Text: "いってきます", Label: "CourseIttekimasu"},
	{Text: "ただいま", Label: "CourseTadaima"},
	{Text: "ありがとう", Label: "CourseArigatou"},
	{Text: "すみません", Label: "CourseSumimasen"},
	{Text: "これください", Label: "CourseKorekudasai"},
	{Text: "わかりました", Label: "CourseWakarimashita"},
}

// BasicCourses returns the everyday phrases offered in basic mode.
func BasicCourses() []Course {
	return append([]Course(nil), basicCourses...)
}

// NextPhrase picks what to study after last: the model's suggestion, or a
// random basic phrase when it gave none. intn may be nil.
func NextPhrase(last simkung.AnalysisResult, intn func(int) int) string {
	if s := last.NextSuggestion; s != nil && s.Text != "" {
		return s.Text
	}
	if intn == nil {
		intn = rand.IntN
	}
	return basicCourses[intn(len(basicCourses))].Text
}
