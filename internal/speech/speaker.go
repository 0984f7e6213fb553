package speech

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/simkung/simkung/internal/simkung"
	"github.com/sirupsen/logrus"
)

// Speaker speaks one utterance at a time. Starting a new one cancels the
// one in progress.
type Speaker struct {
	engine Engine
	log    *logrus.Logger

	mu       sync.Mutex
	settings simkung.TTSSettings
	voices   []Voice
	loaded   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSpeaker creates a speaker over engine.
func NewSpeaker(engine Engine, settings simkung.TTSSettings, log *logrus.Logger) *Speaker {
	return &Speaker{
		engine:   engine,
		log:      log,
		settings: Normalize(settings),
	}
}

// Engine returns the backend name.
func (s *Speaker) Engine() string { return s.engine.Name() }

// Settings returns the current settings.
func (s *Speaker) Settings() simkung.TTSSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the settings used by later utterances.
func (s *Speaker) SetSettings(settings simkung.TTSSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = Normalize(settings)
}

// Voices returns the engine's voices. The list is fetched once. A failure
// is logged once and leaves the speaker with no voices.
func (s *Speaker) Voices(ctx context.Context) []Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.voices
	}
	s.loaded = true

	voices, err := s.engine.Voices(ctx)
	if err != nil {
		s.log.WithError(err).WithField("engine", s.engine.Name()).Warn("listing voices")
		return nil
	}
	s.voices = voices
	return voices
}

// Speak cancels any utterance in progress and starts speaking text with the
// current settings. It returns without waiting for speech to finish.
func (s *Speaker) Speak(text string) {
	s.speak(text, s.Settings())
}

// Preview speaks PreviewText with settings that have not been saved yet.
func (s *Speaker) Preview(settings simkung.TTSSettings) {
	s.speak(PreviewText, Normalize(settings))
}

func (s *Speaker) speak(text string, settings simkung.TTSSettings) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	u := Utterance{Text: text, Lang: Lang, Rate: settings.Rate, Pitch: settings.Pitch}
	if v, ok := SelectVoice(s.Voices(context.Background()), settings); ok {
		u.Voice = &v
	}

	s.mu.Lock()
	s.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		err := s.engine.Speak(ctx, u)
		if err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
			s.log.WithError(err).WithField("engine", s.engine.Name()).Warn("speaking")
		}
	}()
}

// Stop cancels the utterance in progress and waits for it to end.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Wait blocks until the current utterance, if any, finishes.
func (s *Speaker) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
