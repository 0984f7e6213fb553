package simkung

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCorrectOption(t *testing.T) {
	opts := []QuizOption{{Text: "は"}, {Text: "が"}, {Text: "を"}, {Text: "に"}}

	tests := []struct {
		name   string
		quiz   *QuizData
		want   string
		wantOK bool
	}{
		{"nil quiz", nil, "", false},
		{"in range", &QuizData{Options: opts, CorrectAnswerIndex: 2}, "を", true},
		{"negative", &QuizData{Options: opts, CorrectAnswerIndex: -1}, "", false},
		{"past end", &QuizData{Options: opts, CorrectAnswerIndex: 4}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.quiz.CorrectOption()
			if ok != tt.wantOK {
				t.Fatalf("CorrectOption() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Text != tt.want {
				t.Errorf("CorrectOption() = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestTutorWireNames(t *testing.T) {
	data, err := json.Marshal(Tutor{ID: "1", Name: "Sana", Group: "TWICE", Personality: "cute", AvatarSeed: 7})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"id"`, `"name"`, `"group"`, `"personality"`, `"avatarSeed"`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled tutor %s missing key %s", s, key)
		}
	}
	if strings.Contains(s, "imageUrl") {
		t.Errorf("empty image should be omitted: %s", s)
	}
}

func TestDefaultTTSSettings(t *testing.T) {
	got := DefaultTTSSettings()
	if got.VoiceURI != "" || got.Rate != 1.0 || got.Pitch != 1.0 {
		t.Errorf("DefaultTTSSettings() = %+v", got)
	}
}
