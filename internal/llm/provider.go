// Package llm talks to the generative model: it sends the analysis and quiz
// prompts with their response schemas and decodes the replies.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simkung/simkung/internal/config"
)

// Request is one structured-output call.
type Request struct {
	// Name identifies the schema, e.g. "analysis" or "quiz".
	Name   string
	Prompt string
	Schema *Schema
}

// Provider sends a request to a model and returns its raw JSON reply.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrNoAPIKey is returned when a provider is configured without a key.
var ErrNoAPIKey = errors.New("no API key configured")

// NewProvider builds the provider selected in cfg. Without an API key it
// returns a provider whose every call fails with ErrNoAPIKey, so the app
// still starts and only model-backed actions fail.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		switch cfg.Provider {
		case "", config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic:
			return unconfigured{name: cfg.Provider}, nil
		default:
			return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
		}
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case "", config.ProviderGemini:
		return NewGemini(ctx, apiKey, model, cfg.BaseURL)
	case config.ProviderOpenAI:
		return NewOpenAI(apiKey, model, cfg.BaseURL), nil
	case config.ProviderAnthropic:
		return NewAnthropic(apiKey, model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

type unconfigured struct {
	name string
}

func (u unconfigured) Name() string {
	if u.name == "" {
		return config.ProviderGemini
	}
	return u.name
}

func (u unconfigured) Generate(context.Context, Request) (string, error) {
	return "", fmt.Errorf("%s: %w", u.Name(), ErrNoAPIKey)
}

// Configured reports whether p can reach a model.
func Configured(p Provider) bool {
	_, missing := p.(unconfigured)
	return !missing
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
