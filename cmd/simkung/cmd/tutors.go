package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/simkung/simkung/internal/session"
	"github.com/spf13/cobra"
)

var tutorsCmd = &cobra.Command{
	Use:   "tutors",
	Short: "Manage the tutor roster",
	Long: `List, add and remove the idols who tutor you. The roster is shared with
the TUI and holds at most 8 tutors.`,
}

var tutorsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tutors",
	Args:    cobra.NoArgs,
	RunE:    runTutorsList,
}

var tutorsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tutor",
	Long: `Add a tutor to the roster.

Example:
  simkung tutors add --name Sana --group TWICE --personality "bubbly, loves puns"
  simkung tutors add --name Wonyoung --group IVE --personality calm --image ~/wy.png`,
	Args: cobra.NoArgs,
	RunE: runTutorsAdd,
}

var tutorsRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a tutor by id",
	Args:    cobra.ExactArgs(1),
	RunE:    runTutorsRemove,
}

func init() {
	rootCmd.AddCommand(tutorsCmd)
	tutorsCmd.AddCommand(tutorsListCmd, tutorsAddCmd, tutorsRemoveCmd)

	f := tutorsAddCmd.Flags()
	f.String("name", "", "tutor name")
	f.String("group", "", "group the tutor belongs to")
	f.String("personality", "", "how the tutor talks")
	f.String("image", "", "optional avatar image file")
}

func runTutorsList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	tutors := e.settings.LoadTutors()
	if len(tutors) == 0 {
		fmt.Fprintln(out, e.t.T("CLINoTutors"))
		return nil
	}

	for _, t := range tutors {
		photo := " "
		if t.ImageURL != "" {
			photo = "📷"
		}
		fmt.Fprintf(out, "%s  %s %s %s\n",
			t.ID,
			photo,
			runewidth.FillRight(runewidth.Truncate(t.Name, 16, "…"), 16),
			runewidth.FillRight(runewidth.Truncate(t.Group, 16, "…"), 16))
		fmt.Fprintf(out, "    %s\n", t.Personality)
	}
	return nil
}

func runTutorsAdd(cmd *cobra.Command, args []string) error {
	var d session.TutorDraft
	d.Name, _ = cmd.Flags().GetString("name")
	d.Group, _ = cmd.Flags().GetString("group")
	d.Personality, _ = cmd.Flags().GetString("personality")
	d.ImagePath, _ = cmd.Flags().GetString("image")

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	roster := session.NewRoster(e.settings.LoadTutors(), session.WithFs(e.fs))
	t, err := roster.Add(d)
	if err != nil {
		var draftErr *session.DraftError
		if errors.As(err, &draftErr) {
			flags := make([]string, len(draftErr.Fields))
			for i, f := range draftErr.Fields {
				flags[i] = "--" + f
			}
			return errors.New(e.t.Td("CLIMissingFlags", map[string]any{"Flags": strings.Join(flags, ", ")}))
		}
		return err
	}

	if err := e.settings.SaveTutors(roster.Tutors()); err != nil {
		return fmt.Errorf("saving tutors: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.t.Td("CLITutorAdded", map[string]any{"Name": t.Name, "Group": t.Group, "ID": t.ID}))
	return nil
}

func runTutorsRemove(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	roster := session.NewRoster(e.settings.LoadTutors())
	if !roster.Remove(args[0]) {
		return errors.New(e.t.Td("CLIUnknownTutor", map[string]any{"ID": strconv.Quote(args[0])}))
	}
	if err := e.settings.SaveTutors(roster.Tutors()); err != nil {
		return fmt.Errorf("saving tutors: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.t.Td("CLITutorRemoved", map[string]any{"ID": args[0]}))
	return nil
}
