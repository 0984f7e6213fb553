package views

import (
	"strings"
	"testing"

	"github.com/simkung/simkung/internal/logging"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/simkung/simkung/internal/speech"
)

func newVoice(t *testing.T, speaker *speech.Speaker) (VoiceModel, *memStore) {
	t.Helper()
	store := &memStore{}
	m := NewVoiceModel(speaker, store, translator(t), logging.Discard())
	m.SetSize(80, 30)
	m.Open()
	return m, store
}

func TestVoiceSave(t *testing.T) {
	speaker, _ := newSpeaker()
	m, store := newVoice(t, speaker)

	if !strings.Contains(m.View(), "Kyoko") {
		t.Error("default voice not shown")
	}
	if strings.Contains(m.View(), "Alex") {
		t.Error("non-Japanese voice listed")
	}

	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("h"))

	want := simkung.TTSSettings{VoiceURI: "Otoya", Rate: 1.1, Pitch: 0.9}
	if got := m.Settings(); got != want {
		t.Fatalf("Settings() = %+v, want %+v", got, want)
	}
	if speaker.Settings() == want {
		t.Fatal("speaker changed before saving")
	}

	_, cmd := m.Update(key("enter"))
	if msg := find[VoiceClosedMsg](t, run(t, cmd)); !msg.Saved {
		t.Error("closed without Saved")
	}
	if speaker.Settings() != want {
		t.Errorf("speaker settings = %+v", speaker.Settings())
	}
	if len(store.tts) != 1 || store.tts[0] != want {
		t.Errorf("stored = %+v", store.tts)
	}
}

func TestVoiceCancel(t *testing.T) {
	speaker, _ := newSpeaker()
	m, store := newVoice(t, speaker)

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("+"))
	_, cmd := m.Update(key("esc"))

	if msg := find[VoiceClosedMsg](t, run(t, cmd)); msg.Saved {
		t.Error("esc reported Saved")
	}
	if speaker.Settings() != simkung.DefaultTTSSettings() {
		t.Errorf("speaker settings changed to %+v", speaker.Settings())
	}
	if len(store.tts) != 0 {
		t.Error("esc saved settings")
	}
}

func TestVoicePreviewUsesUnsavedSettings(t *testing.T) {
	speaker, eng := newSpeaker()
	m, _ := newVoice(t, speaker)

	m, _ = m.Update(key("j"))
	for range 20 {
		m, _ = m.Update(key("l"))
	}
	m, _ = m.Update(key("p"))
	speaker.Wait()

	if m.Settings().Rate != speech.MaxScale {
		t.Errorf("rate = %v, want clamped to %v", m.Settings().Rate, speech.MaxScale)
	}
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if len(eng.spoken) != 1 || eng.spoken[0].Text != speech.PreviewText || eng.spoken[0].Rate != speech.MaxScale {
		t.Errorf("spoken = %+v", eng.spoken)
	}
}

func TestVoiceNoVoices(t *testing.T) {
	speaker := speech.NewSpeaker(speech.Silent{}, simkung.DefaultTTSSettings(), logging.Discard())
	m, _ := newVoice(t, speaker)

	m, _ = m.Update(key("l"))
	if m.Settings().VoiceURI != "" {
		t.Errorf("voice changed to %q with no voices", m.Settings().VoiceURI)
	}
	if !strings.Contains(m.View(), m.t.T("VoiceNone")) {
		t.Error("no-voice message not shown")
	}
}
