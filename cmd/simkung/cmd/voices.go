package cmd

import (
	"fmt"
	"strings"

	"github.com/simkung/simkung/internal/speech"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List text-to-speech voices and try them",
}

var voicesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List voices of the detected speech engine",
	Long: `List the voices of the speech engine found on this machine (macOS say,
espeak-ng or espeak). Japanese voices are marked with *, the one in use
with >. Use --all to include voices for other languages.`,
	Args: cobra.NoArgs,
	RunE: runVoicesList,
}

var voicesSayCmd = &cobra.Command{
	Use:   "say [text]",
	Short: "Speak Japanese text with the saved voice settings",
	Long: `Speak Japanese text with the saved voice settings. Without text the
preview sentence is spoken. Flags override the settings for this call and
--save stores them.

Example:
  simkung voices say おはようございます
  simkung voices say --voice Otoya --rate 0.8 --save`,
	RunE: runVoicesSay,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
	voicesCmd.AddCommand(voicesListCmd, voicesSayCmd)

	voicesListCmd.Flags().Bool("all", false, "include non-Japanese voices")

	f := voicesSayCmd.Flags()
	f.String("voice", "", "voice id")
	f.Float64("rate", 0, "speaking rate (0.5-2.0)")
	f.Float64("pitch", 0, "pitch (0.5-2.0)")
	f.Bool("save", false, "save the voice settings")
}

func runVoicesList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	speaker := e.speaker()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", e.t.Td("VoiceEngine", map[string]any{"Engine": speaker.Engine()}))

	voices := speaker.Voices(cmd.Context())
	current, hasCurrent := speech.SelectVoice(voices, speaker.Settings())
	japanese := speech.JapaneseVoices(voices)

	list := japanese
	if all {
		list = voices
	}
	if len(list) == 0 {
		fmt.Fprintln(out, e.t.T("VoiceNone"))
		fmt.Fprintln(out, e.t.T("VoiceNoneHint"))
		return nil
	}

	isJapanese := make(map[string]bool, len(japanese))
	for _, v := range japanese {
		isJapanese[v.ID] = true
	}
	for _, v := range list {
		mark := " "
		if hasCurrent && v.ID == current.ID {
			mark = ">"
		}
		ja := " "
		if isJapanese[v.ID] {
			ja = "*"
		}
		fmt.Fprintf(out, "%s%s %-28s %s\n", mark, ja, v.ID, v.Lang)
	}
	return nil
}

func runVoicesSay(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	speaker := e.speaker()
	settings := speaker.Settings()
	f := cmd.Flags()
	if f.Changed("voice") {
		settings.VoiceURI, _ = f.GetString("voice")
	}
	if f.Changed("rate") {
		settings.Rate, _ = f.GetFloat64("rate")
	}
	if f.Changed("pitch") {
		settings.Pitch, _ = f.GetFloat64("pitch")
	}
	speaker.SetSettings(settings)

	text := strings.Join(args, " ")
	if text == "" {
		text = speech.PreviewText
	}
	speaker.Speak(text)
	speaker.Wait()

	if save, _ := f.GetBool("save"); save {
		if err := e.settings.SaveTTS(speaker.Settings()); err != nil {
			return fmt.Errorf("saving voice settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.t.T("VoiceSaved"))
	}
	return nil
}
