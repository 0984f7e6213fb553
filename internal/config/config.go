// Package config handles loading and saving user configuration for simkung.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// AppName is used for the XDG sub-directories and the env prefix.
const AppName = "simkung"

// Config holds all user configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and configures the generative backend.
type LLMConfig struct {
	Provider        string        `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic
	Model           string        `yaml:"model" mapstructure:"model"`
	BaseURL         string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey          string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ExplainLanguage string        `yaml:"explain_language" mapstructure:"explain_language"` // language of meanings and translations
	AnalyzeTemplate string        `yaml:"analyze_template,omitempty" mapstructure:"analyze_template"`
	QuizTemplate    string        `yaml:"quiz_template,omitempty" mapstructure:"quiz_template"`
}

// StorageConfig selects where the tutor roster and TTS settings live.
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // sqlite or file
	Path    string `yaml:"path" mapstructure:"path"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Lang string `yaml:"lang" mapstructure:"lang"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Model:           DefaultModel(ProviderGemini),
			Timeout:         60 * time.Second,
			ExplainLanguage: "Korean",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(xdg.DataHome, AppName, "simkung.db"),
		},
		UI: UIConfig{Lang: "ko"},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(xdg.StateHome, AppName, "simkung.log"),
		},
	}
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	default:
		return "gemini-2.5-flash"
	}
}

// SetDefaults registers every default on a viper instance so that env
// variables and flags can override individual keys.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.explain_language", d.LLM.ExplainLanguage)
	v.SetDefault("llm.analyze_template", "")
	v.SetDefault("llm.quiz_template", "")
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("ui.lang", d.UI.Lang)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// FromViper builds a Config from a viper instance that already has its
// config file, env and flags bound.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = APIKeyFromEnv(cfg.LLM.Provider)
	}
	return &cfg, nil
}

// APIKeyFromEnv looks up the conventional environment variables for a provider.
func APIKeyFromEnv(provider string) string {
	var names []string
	switch provider {
	case ProviderOpenAI:
		names = []string{"OPENAI_API_KEY"}
	case ProviderAnthropic:
		names = []string{"ANTHROPIC_API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	for _, name := range names {
		// Trim any whitespace/newlines that might have snuck in
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// Load reads a Config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes a Config to a YAML file, creating the parent directory.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultConfigPath returns the path of config.yaml in the default directory.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}
