package speech

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Words per minute at rate 1.0 for both command-line engines.
const baseWPM = 175

// commandFunc builds a command; tests replace it.
type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Detect returns the first engine available on this machine: macOS say,
// then espeak-ng, then espeak. When none exists speech is silently skipped.
func Detect() Engine {
	if path, err := exec.LookPath("say"); err == nil {
		return &Say{bin: path, command: exec.CommandContext}
	}
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return &Espeak{bin: path, command: exec.CommandContext}
		}
	}
	return Silent{}
}

// Silent is the engine used when the host has no speech support.
type Silent struct{}

// Name returns "none".
func (Silent) Name() string { return "none" }

// Voices returns no voices.
func (Silent) Voices(context.Context) ([]Voice, error) { return nil, nil }

// Speak does nothing.
func (Silent) Speak(context.Context, Utterance) error { return nil }

// Say drives the macOS say command.
type Say struct {
	bin     string
	command commandFunc
}

// Name returns "say".
func (s *Say) Name() string { return "say" }

// Voices parses `say -v ?`.
func (s *Say) Voices(ctx context.Context) ([]Voice, error) {
	out, err := s.command(ctx, s.bin, "-v", "?").Output()
	if err != nil {
		return nil, fmt.Errorf("listing say voices: %w", err)
	}
	return parseSayVoices(string(out)), nil
}

// Speak runs say. say has no pitch control, so Pitch is ignored.
func (s *Say) Speak(ctx context.Context, u Utterance) error {
	return s.command(ctx, s.bin, sayArgs(u)...).Run()
}

func sayArgs(u Utterance) []string {
	var args []string
	if u.Voice != nil {
		args = append(args, "-v", u.Voice.ID)
	}
	args = append(args, "-r", strconv.Itoa(wpm(u.Rate)), "--", u.Text)
	return args
}

// "Kyoko               ja_JP    # こんにちは、私の名前はKyokoです。"
// "Eddy (Japanese (Japan)) ja_JP    # ..."
var sayLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

func parseSayVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		m := sayLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{ID: name, Name: name, Lang: m[2]})
	}
	return voices
}

// Espeak drives espeak-ng or espeak.
type Espeak struct {
	bin     string
	command commandFunc
}

// Name returns "espeak".
func (e *Espeak) Name() string { return "espeak" }

// Voices parses `espeak-ng --voices`.
func (e *Espeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := e.command(ctx, e.bin, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("listing espeak voices: %w", err)
	}
	return parseEspeakVoices(string(out)), nil
}

// Speak runs espeak.
func (e *Espeak) Speak(ctx context.Context, u Utterance) error {
	return e.command(ctx, e.bin, espeakArgs(u)...).Run()
}

func espeakArgs(u Utterance) []string {
	voice := "ja"
	if u.Voice != nil {
		voice = u.Voice.ID
	}
	// espeak pitch runs 0-99 with 50 as the default.
	pitch := int(50 * Clamp(u.Pitch))
	if pitch > 99 {
		pitch = 99
	}
	return []string{
		"-v", voice,
		"-s", strconv.Itoa(wpm(u.Rate)),
		"-p", strconv.Itoa(pitch),
		"--", u.Text,
	}
}

// " 5  ja              --/M      Japanese           jpx/ja               "
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, Voice{ID: fields[1], Name: fields[3], Lang: fields[1]})
	}
	return voices
}

func wpm(rate float64) int {
	return int(baseWPM * Clamp(rate))
}
