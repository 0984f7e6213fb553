// Package speech reads Japanese text aloud through the host's speech engine.
package speech

import (
	"context"
	"math"
	"strings"

	"github.com/simkung/simkung/internal/simkung"
)

// Lang is the language every utterance is spoken in.
const Lang = "ja-JP"

// PreviewText is spoken when trying out a voice.
const PreviewText = "こんにちは。私の声はどうですか？"

// Rate and pitch limits, shared by the settings screen and the engines.
const (
	MinScale  = 0.5
	MaxScale  = 2.0
	ScaleStep = 0.1
)

// Voice is one voice offered by an engine.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance is one request to speak.
type Utterance struct {
	Text  string
	Lang  string
	Voice *Voice
	Rate  float64
	Pitch float64
}

// Engine is a speech backend.
type Engine interface {
	Name() string
	Voices(ctx context.Context) ([]Voice, error)
	// Speak blocks until the utterance finishes or ctx is cancelled.
	Speak(ctx context.Context, u Utterance) error
}

// IsJapanese reports whether v is tagged with a Japanese language code.
func IsJapanese(v Voice) bool {
	return strings.Contains(v.Lang, "ja") || strings.Contains(v.Lang, "JP")
}

// JapaneseVoices filters voices down to the Japanese ones.
func JapaneseVoices(voices []Voice) []Voice {
	var out []Voice
	for _, v := range voices {
		if IsJapanese(v) {
			out = append(out, v)
		}
	}
	return out
}

// SelectVoice picks the voice for settings: the stored id when it still
// exists, else the first Japanese voice, else none.
func SelectVoice(voices []Voice, settings simkung.TTSSettings) (Voice, bool) {
	if settings.VoiceURI != "" {
		for _, v := range voices {
			if v.ID == settings.VoiceURI {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if IsJapanese(v) {
			return v, true
		}
	}
	return Voice{}, false
}

// Clamp limits a rate or pitch to [MinScale, MaxScale] on ScaleStep
// increments. Non-finite values become 1.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	v = math.Round(v/ScaleStep) * ScaleStep
	v = math.Round(v*10) / 10
	return math.Max(MinScale, math.Min(MaxScale, v))
}

// Normalize clamps the rate and pitch of s.
func Normalize(s simkung.TTSSettings) simkung.TTSSettings {
	s.Rate = Clamp(s.Rate)
	s.Pitch = Clamp(s.Pitch)
	return s
}
