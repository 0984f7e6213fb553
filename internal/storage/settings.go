package storage

import (
	"encoding/json"
	"fmt"

	"github.com/simkung/simkung/internal/simkung"
	"github.com/sirupsen/logrus"
)

// Storage keys. They match the keys the browser edition used.
const (
	TutorsKey = "simkung_tutors_data"
	TTSKey    = "simkung_tts_settings"
)

// Settings reads and writes the two persisted blobs on top of a KV.
// Reads are defensive: corrupt data is logged and replaced with defaults,
// never surfaced to the caller.
type Settings struct {
	kv  KV
	log *logrus.Logger
}

// NewSettings wraps kv.
func NewSettings(kv KV, log *logrus.Logger) *Settings {
	return &Settings{kv: kv, log: log}
}

// LoadTutors returns the saved roster. Unparseable data is removed from
// storage and an empty roster is returned; valid JSON that is not an array
// is ignored the same way, but left in place.
func (s *Settings) LoadTutors() []simkung.Tutor {
	raw, ok, err := s.kv.Get(TutorsKey)
	if err != nil {
		s.log.WithError(err).Error("Failed to load tutors from storage")
		return []simkung.Tutor{}
	}
	if !ok || raw == "" {
		return []simkung.Tutor{}
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.discardTutors(err)
		return []simkung.Tutor{}
	}
	if _, isArray := doc.([]any); !isArray {
		s.log.WithField("key", TutorsKey).Warn("stored tutors are not a list, ignoring")
		return []simkung.Tutor{}
	}

	var tutors []simkung.Tutor
	if err := json.Unmarshal([]byte(raw), &tutors); err != nil {
		s.discardTutors(err)
		return []simkung.Tutor{}
	}
	if tutors == nil {
		tutors = []simkung.Tutor{}
	}
	return tutors
}

func (s *Settings) discardTutors(cause error) {
	s.log.WithError(cause).Error("Failed to load tutors from storage")
	if err := s.kv.Remove(TutorsKey); err != nil {
		s.log.WithError(err).Warn("clearing corrupted tutors")
	}
}

// SaveTutors persists the roster verbatim.
func (s *Settings) SaveTutors(tutors []simkung.Tutor) error {
	if tutors == nil {
		tutors = []simkung.Tutor{}
	}
	data, err := json.Marshal(tutors)
	if err != nil {
		return fmt.Errorf("marshaling tutors: %w", err)
	}
	if err := s.kv.Set(TutorsKey, string(data)); err != nil {
		s.log.WithError(err).Error("Failed to save tutors to storage")
		return err
	}
	return nil
}

// LoadTTS returns the saved speech settings, or defaults when missing or
// unreadable. Fields absent from the stored object keep their defaults.
func (s *Settings) LoadTTS() simkung.TTSSettings {
	settings := simkung.DefaultTTSSettings()

	raw, ok, err := s.kv.Get(TTSKey)
	if err != nil {
		s.log.WithError(err).Error("Failed to load TTS settings")
		return settings
	}
	if !ok || raw == "" {
		return settings
	}

	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.WithError(err).Error("Failed to load TTS settings")
		return simkung.DefaultTTSSettings()
	}
	return settings
}

// SaveTTS persists the speech settings.
func (s *Settings) SaveTTS(settings simkung.TTSSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling TTS settings: %w", err)
	}
	if err := s.kv.Set(TTSKey, string(data)); err != nil {
		s.log.WithError(err).Error("Failed to save TTS settings")
		return err
	}
	return nil
}
