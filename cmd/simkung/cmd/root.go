// Package cmd contains all CLI commands for simkung.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/simkung/simkung/internal/config"
	"github.com/simkung/simkung/internal/i18n"
	"github.com/simkung/simkung/internal/llm"
	"github.com/simkung/simkung/internal/logging"
	"github.com/simkung/simkung/internal/prompt"
	"github.com/simkung/simkung/internal/session"
	"github.com/simkung/simkung/internal/speech"
	"github.com/simkung/simkung/internal/storage"
	"github.com/simkung/simkung/internal/tui"
	"github.com/simkung/simkung/internal/tui/bigchar"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simkung",
	Short: "Learn Japanese by chatting with your favourite idols",
	Long: `simkung (심쿵) is a Japanese study companion for the terminal.

Add the idols you like as tutors, type a Japanese sentence (or pick an
everyday phrase from the basic course) and get a word-by-word breakdown
plus a short skit in which your tutors use the sentence. A fill-in-the-blank
quiz reviews the latest sentence.

Running 'simkung' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath()+")")
	pf.String("provider", "", "LLM provider: gemini, openai or anthropic")
	pf.String("model", "", "LLM model name")
	pf.String("lang", "", "UI language (ko or en)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("llm.provider", pf.Lookup("provider"))
	viper.BindPFlag("llm.model", pf.Lookup("model"))
	viper.BindPFlag("ui.lang", pf.Lookup("lang"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.GetConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SIMKUNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Warning: reading config:", err)
		}
	}
}

// env is what every command works with: config, logger, translator and the
// settings store.
type env struct {
	cfg      *config.Config
	log      *logrus.Logger
	t        *i18n.Translator
	fs       afero.Fs
	settings *storage.Settings

	kv        storage.KV
	logCloser io.Closer
}

func newEnv() (*env, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	t, err := i18n.New(cfg.UI.Lang, log)
	if err != nil {
		closer.Close()
		return nil, err
	}

	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
		"storage":  cfg.Storage.Backend,
	}).Debug("starting")

	return &env{
		cfg:       cfg,
		log:       log,
		t:         t,
		fs:        afero.NewOsFs(),
		settings:  storage.NewSettings(kv, log),
		kv:        kv,
		logCloser: closer,
	}, nil
}

func (e *env) Close() {
	if err := e.kv.Close(); err != nil {
		e.log.WithError(err).Warn("closing storage")
	}
	e.logCloser.Close()
}

// analyzer builds the LLM client from the configuration. With requireKey
// a missing API key is an error; otherwise it is logged and each model call
// fails on its own.
func (e *env) analyzer(ctx context.Context, requireKey bool) (*llm.Client, error) {
	provider, err := llm.NewProvider(ctx, e.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("setting up %s: %w", e.cfg.LLM.Provider, err)
	}
	if !llm.Configured(provider) {
		if requireKey {
			return nil, fmt.Errorf("%s: %w\nSet an API key in %s or the environment",
				provider.Name(), llm.ErrNoAPIKey, config.DefaultConfigPath())
		}
		e.log.WithField("provider", provider.Name()).Warn("no API key configured; analysis and quizzes will fail")
	}
	gen, err := e.prompts()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(provider, gen,
		llm.WithTimeout(e.cfg.LLM.Timeout),
		llm.WithLogger(e.log),
	), nil
}

// prompts builds the prompt generator, loading any template overrides named
// in the configuration.
func (e *env) prompts() (*prompt.Generator, error) {
	gen := prompt.NewGenerator(e.cfg.LLM.ExplainLanguage)

	read := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		b, err := afero.ReadFile(e.fs, path)
		if err != nil {
			return "", fmt.Errorf("reading prompt template: %w", err)
		}
		return string(b), nil
	}
	analyze, err := read(e.cfg.LLM.AnalyzeTemplate)
	if err != nil {
		return nil, err
	}
	quiz, err := read(e.cfg.LLM.QuizTemplate)
	if err != nil {
		return nil, err
	}
	if err := gen.SetTemplates(analyze, quiz); err != nil {
		return nil, err
	}
	return gen, nil
}

// speaker detects the host's speech engine and applies the saved settings.
func (e *env) speaker() *speech.Speaker {
	engine := speech.Detect()
	e.log.WithField("engine", engine.Name()).Debug("speech engine")
	return speech.NewSpeaker(engine, e.settings.LoadTTS(), e.log)
}

// runTUI launches the interactive TUI.
func runTUI(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	analyzer, err := e.analyzer(cmd.Context(), false)
	if err != nil {
		return err
	}

	speaker := e.speaker()
	defer speaker.Stop()

	p := tea.NewProgram(
		tui.NewApp(tui.Deps{
			Session:    session.New(e.settings, e.log),
			Analyzer:   analyzer,
			Speaker:    speaker,
			TTSStore:   e.settings,
			Translator: e.t,
			Log:        e.log,
			Fs:         e.fs,
			Glyphs:     bigchar.Default(),
		}),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
