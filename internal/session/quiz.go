package session

import "github.com/simkung/simkung/internal/simkung"

// OptionState is how an answer option is painted.
type OptionState int

const (
	OptionIdle OptionState = iota
	OptionChosenCorrect
	OptionChosenWrong
	// OptionRevealed marks the correct option after a wrong choice.
	OptionRevealed
)

// QuizState is the answer state of the quiz screen. The first selection is
// final.
type QuizState struct {
	data     *simkung.QuizData
	selected int
}

// NewQuizState wraps a generated quiz.
func NewQuizState(data *simkung.QuizData) *QuizState {
	return &QuizState{data: data, selected: -1}
}

// Data returns the quiz.
func (q *QuizState) Data() *simkung.QuizData { return q.data }

// Select answers with option i. It returns false and changes nothing when
// the quiz was already answered or i is not an option.
func (q *QuizState) Select(i int) bool {
	if q.Answered() || q.data == nil || i < 0 || i >= len(q.data.Options) {
		return false
	}
	q.selected = i
	return true
}

// Answered reports whether an option has been chosen.
func (q *QuizState) Answered() bool { return q.selected >= 0 }

// Selected returns the chosen option index, or -1.
func (q *QuizState) Selected() int { return q.selected }

// Correct reports whether the chosen option is the correct one.
func (q *QuizState) Correct() bool {
	return q.Answered() && q.selected == q.data.CorrectAnswerIndex
}

// SelectedOption returns the chosen option.
func (q *QuizState) SelectedOption() (simkung.QuizOption, bool) {
	if !q.Answered() {
		return simkung.QuizOption{}, false
	}
	return q.data.Options[q.selected], true
}

// State returns how option i should be painted.
func (q *QuizState) State(i int) OptionState {
	if !q.Answered() {
		return OptionIdle
	}
	switch {
	case i == q.selected && q.Correct():
		return OptionChosenCorrect
	case i == q.selected:
		return OptionChosenWrong
	case i == q.data.CorrectAnswerIndex:
		return OptionRevealed
	}
	return OptionIdle
}

// BlankText is what fills the blank: nothing before answering, then the
// chosen option's text.
func (q *QuizState) BlankText() string {
	opt, ok := q.SelectedOption()
	if !ok {
		return ""
	}
	return opt.Text
}
