package cmd

import (
	"fmt"
	"os"

	"github.com/simkung/simkung/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write config.yaml with the default settings to your config directory
(or to the path given with --config).

Edit the file to choose the LLM provider and model, where the tutor roster
is stored and the UI language. API keys are best kept in the environment
or a .env file:

  GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Put your API key in GEMINI_API_KEY (or a .env file)")
	fmt.Fprintln(out, "  2. Run 'simkung tutors add' or start 'simkung' to add tutors")
	fmt.Fprintln(out, "  3. Run 'simkung analyze おはよう' to test the connection")

	return nil
}
