package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Break a Japanese sentence down and have your tutors use it",
	Long: `Send a Japanese sentence to the LLM with the saved tutor roster and print
the word-by-word breakdown and the tutors' skit.

Example:
  simkung analyze おはよう
  simkung analyze --json 今日はいい天気ですね`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "print the raw result as JSON")
}

// loadSession opens a session over the saved roster, ready to chat.
func loadSession(e *env) (*session.Session, error) {
	sess := session.New(e.settings, e.log)
	if len(sess.Tutors()) == 0 {
		return nil, fmt.Errorf("%w\n%s", session.ErrNoTutors, e.t.T("CLIAddTutorHint"))
	}
	if err := sess.SelectCourse(simkung.CourseFree); err != nil {
		return nil, err
	}
	return sess, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := loadSession(e)
	if err != nil {
		return err
	}
	analyzer, err := e.analyzer(cmd.Context(), true)
	if err != nil {
		return err
	}

	result, err := sess.Analyze(cmd.Context(), analyzer, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	printAnalysis(out, e.t, *result, sess.Tutors())
	return nil
}

func printAnalysis(w io.Writer, t *i18n.Translator, r simkung.AnalysisResult, tutors []simkung.Tutor) {
	fmt.Fprintf(w, "%s\n\n", r.OriginalText)

	heading(w, t.T("ChatWords"))
	for _, word := range r.Words {
		fmt.Fprintf(w, "  %s %s [%s] %s\n",
			runewidth.FillRight(word.Word, 12),
			runewidth.FillRight(word.Reading, 14),
			word.Romaji,
			word.Type)
		fmt.Fprintf(w, "  %s %s\n", strings.Repeat(" ", 12), word.Meaning)
	}
	fmt.Fprintln(w)

	heading(w, t.T("ChatMembersTalk"))
	for _, line := range r.Dialogue {
		name := line.TutorName
		if tutor, ok := session.FindTutor(tutors, line.TutorID); ok {
			name = tutor.Name + " (" + tutor.Group + ")"
		}
		if line.TutorAge != "" {
			name += " " + line.TutorAge
		}
		fmt.Fprintf(w, "  %s\n", name)
		fmt.Fprintf(w, "    %s\n", line.Text)
		fmt.Fprintf(w, "    %s\n", line.Reading)
		fmt.Fprintf(w, "    %s\n", line.Translation)
	}

	if s := r.NextSuggestion; s != nil && s.Text != "" {
		fmt.Fprintf(w, "\n%s\n", t.Td("CLINext", map[string]any{"Text": s.Text, "Meaning": s.Meaning}))
	}
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("─", runewidth.StringWidth(title)))
}
