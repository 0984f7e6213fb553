package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <text>",
	Short: "Analyze a sentence and take a fill-in-the-blank quiz on it",
	Long: `Analyze a Japanese sentence, then generate a four-option quiz from it
and ask for an answer on stdin. Only the first answer counts.

Example:
  simkung quiz おはようございます
  simkung quiz --answer 2 ありがとう`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuiz,
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().Int("answer", 0, "answer with this option (1-4) instead of asking")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	answer, _ := cmd.Flags().GetInt("answer")

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

	if _, err := sess.Analyze(cmd.Context(), analyzer, strings.Join(args, " ")); err != nil {
		return err
	}
	data, err := sess.Quiz(cmd.Context(), analyzer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	quiz := session.NewQuizState(data)
	printQuestion(out, quiz)

	if answer == 0 {
		answer = askAnswer(cmd.InOrStdin(), out, e.t, len(data.Options))
	}
	if !quiz.Select(answer - 1) {
		return errors.New(e.t.Td("CLINoOption", map[string]any{"N": answer}))
	}

	fmt.Fprintln(out)
	printQuestion(out, quiz)
	printFeedback(out, e.t, quiz, sess.Tutors())
	return nil
}

// askAnswer prompts until a valid option number is read. It returns 0 at
// end of input.
func askAnswer(in io.Reader, out io.Writer, t *i18n.Translator, n int) int {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, t.Td("CLIAnswerPrompt", map[string]any{"Max": n}))
		if !sc.Scan() {
			return 0
		}
		if i, err := strconv.Atoi(strings.TrimSpace(sc.Text())); err == nil && i >= 1 && i <= n {
			return i
		}
	}
}

func printQuestion(w io.Writer, q *session.QuizState) {
	data := q.Data()

	var sentence, readings []string
	for _, p := range data.QuestionParts {
		if p.IsBlank {
			fill := q.BlankText()
			if fill == "" {
				fill = "＿＿＿"
			}
			sentence = append(sentence, "["+fill+"]")
			continue
		}
		sentence = append(sentence, p.Text)
		if p.Reading != "" {
			readings = append(readings, p.Reading)
		}
	}

	fmt.Fprintln(w, strings.Join(sentence, " "))
	if len(readings) > 0 {
		fmt.Fprintln(w, strings.Join(readings, " "))
	}
	fmt.Fprintf(w, "(%s)\n\n", data.Translation)

	for i, opt := range data.Options {
		mark := " "
		switch q.State(i) {
		case session.OptionChosenCorrect:
			mark = "✔"
		case session.OptionChosenWrong:
			mark = "✘"
		case session.OptionRevealed:
			mark = "→"
		}
		fmt.Fprintf(w, " %s %d. %s  %s\n", mark, i+1, opt.Text, opt.Reading)
	}
}

func printFeedback(w io.Writer, t *i18n.Translator, q *session.QuizState, tutors []simkung.Tutor) {
	data := q.Data()
	fmt.Fprintln(w)

	if q.Correct() {
		fmt.Fprintln(w, t.T("QuizCorrect"))
	} else {
		fmt.Fprintln(w, t.T("QuizWrong"))
		if chosen, ok := q.SelectedOption(); ok {
			fmt.Fprintf(w, "  %s %s\n", t.Td("QuizChosen", map[string]any{"Text": chosen.Text}), chosen.Explanation)
		}
		if c, ok := data.CorrectOption(); ok {
			fmt.Fprintf(w, "  %s %s\n", t.Td("QuizAnswer", map[string]any{"Text": c.Text}), c.Explanation)
		}
	}
	fmt.Fprintf(w, "\n%s %s\n", t.T("QuizExplanation"), data.Explanation)

	enc := data.Encouragement
	name := enc.TutorName
	if tutor, ok := session.Encourager(tutors, enc.TutorName); ok {
		name = tutor.Name
	}
	if enc.Message != "" {
		fmt.Fprintf(w, "\n%s: %s\n", name, enc.Message)
	}
}
