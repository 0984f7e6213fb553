// Package session holds the client-side state of one study session: which
// screen is showing, the tutor roster, the course mode and the history of
// analyzed sentences.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/simkung/simkung/internal/simkung"
	"github.com/sirupsen/logrus"
)

// Analyzer is the generative backend as seen by the session.
type Analyzer interface {
	AnalyzeSentence(ctx context.Context, text string, tutors []simkung.Tutor) (*simkung.AnalysisResult, error)
	GenerateQuiz(ctx context.Context, last *simkung.AnalysisResult, tutors []simkung.Tutor) (*simkung.QuizData, error)
}

// RosterStore persists the tutor roster.
type RosterStore interface {
	LoadTutors() []simkung.Tutor
	SaveTutors(tutors []simkung.Tutor) error
}

var (
	ErrNoTutors  = errors.New("at least one tutor is required")
	ErrNoHistory = errors.New("nothing to quiz on yet")
	ErrBusy      = errors.New("a request is already in flight")
	ErrEmptyText = errors.New("text is empty")
)

// Session is the top-level state. It is safe for concurrent use so that
// requests can run off the UI goroutine.
type Session struct {
	mu      sync.Mutex
	step    simkung.Step
	mode    simkung.CourseMode
	tutors  []simkung.Tutor
	history []simkung.AnalysisResult
	busy    bool

	store RosterStore
	log   *logrus.Logger
}

// New starts a session on the splash screen with the stored roster.
func New(store RosterStore, log *logrus.Logger) *Session {
	return &Session{
		step:   simkung.StepSplash,
		mode:   simkung.CourseFree,
		tutors: store.LoadTutors(),
		store:  store,
		log:    log,
	}
}

// Step returns the current screen.
func (s *Session) Step() simkung.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Mode returns the selected course mode.
func (s *Session) Mode() simkung.CourseMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Tutors returns a copy of the roster.
func (s *Session) Tutors() []simkung.Tutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]simkung.Tutor(nil), s.tutors...)
}

// History returns a copy of the analyzed sentences, oldest first.
func (s *Session) History() []simkung.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]simkung.AnalysisResult(nil), s.history...)
}

// Latest returns the most recent analysis.
func (s *Session) Latest() (simkung.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return simkung.AnalysisResult{}, false
	}
	return s.history[len(s.history)-1], true
}

// Busy reports whether a request is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Start leaves the splash screen for tutor setup.
func (s *Session) Start() {
	s.setStep(simkung.StepSetup)
}

// ManageTutors detours to tutor setup.
func (s *Session) ManageTutors() {
	s.setStep(simkung.StepSetup)
}

// CompleteSetup saves the roster and moves on: back to chat when there is
// history, otherwise to course selection. A save failure is logged only.
func (s *Session) CompleteSetup(tutors []simkung.Tutor) error {
	if len(tutors) == 0 {
		return ErrNoTutors
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tutors = append([]simkung.Tutor(nil), tutors...)
	if err := s.store.SaveTutors(s.tutors); err != nil {
		s.log.WithError(err).Error("Failed to save tutors to storage")
	}

	if len(s.history) > 0 {
		s.step = simkung.StepChat
	} else {
		s.step = simkung.StepCourseSelect
	}
	return nil
}

// SelectCourse records the mode and opens the chat.
func (s *Session) SelectCourse(mode simkung.CourseMode) error {
	if mode != simkung.CourseBasic && mode != simkung.CourseFree {
		return fmt.Errorf("unknown course mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.step = simkung.StepChat
	return nil
}

// AppendAnalysis adds a result to the end of the history.
func (s *Session) AppendAnalysis(result simkung.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, result)
}

// GoToQuiz opens the quiz screen for the latest analysis.
func (s *Session) GoToQuiz() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return ErrNoHistory
	}
	s.step = simkung.StepQuiz
	return nil
}

// BackToChat leaves the quiz screen.
func (s *Session) BackToChat() {
	s.setStep(simkung.StepChat)
}

// Reset clears the history and returns to the splash screen. The roster and
// course mode are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.step = simkung.StepSplash
}

func (s *Session) setStep(step simkung.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

// Analyze sends text to the analyzer with the current roster and appends the
// result. Only one request runs at a time; a second call while one is in
// flight returns ErrBusy without reaching the analyzer.
func (s *Session) Analyze(ctx context.Context, a Analyzer, text string) (*simkung.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	tutors, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.end()

	result, err := a.AnalyzeSentence(ctx, text, tutors)
	if err != nil {
		return nil, err
	}
	s.AppendAnalysis(*result)
	return result, nil
}

// Quiz generates a quiz from the latest analysis. The quiz is not stored.
func (s *Session) Quiz(ctx context.Context, a Analyzer) (*simkung.QuizData, error) {
	last, ok := s.Latest()
	if !ok {
		return nil, ErrNoHistory
	}

	tutors, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.end()

	return a.GenerateQuiz(ctx, &last, tutors)
}

func (s *Session) begin() ([]simkung.Tutor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	return append([]simkung.Tutor(nil), s.tutors...), nil
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}
