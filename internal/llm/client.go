package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/simkung/simkung/internal/logging"
	"github.com/simkung/simkung/internal/prompt"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/sirupsen/logrus"
)

// Generic failures shown to the user. The underlying cause is wrapped
// alongside and logged.
var (
	ErrAnalyze = errors.New("failed to analyze text")
	ErrQuiz    = errors.New("failed to generate quiz")
)

// Client builds prompts, calls the provider and decodes the replies.
type Client struct {
	provider Provider
	prompts  *prompt.Generator
	timeout  time.Duration
	log      *logrus.Logger
	intn     func(n int) int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Zero means no timeout beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for failures and debug output.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRand replaces the source used to pick the encouraging tutor.
func WithRand(intn func(n int) int) Option {
	return func(c *Client) { c.intn = intn }
}

// NewClient creates a client over provider.
func NewClient(provider Provider, prompts *prompt.Generator, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		prompts:  prompts,
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	return c
}

// AnalyzeSentence breaks text down and has tutors act out a skit with it.
// The result's OriginalText is always text itself. Every failure is
// reported as ErrAnalyze.
func (c *Client) AnalyzeSentence(ctx context.Context, text string, tutors []simkung.Tutor) (*simkung.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, c.fail(ErrAnalyze, "Analysis", errors.New("empty text"))
	}

	p, err := c.prompts.Analyze(text, tutors)
	if err != nil {
		return nil, c.fail(ErrAnalyze, "Analysis", err)
	}

	var result simkung.AnalysisResult
	schema := AnalysisSchema(c.prompts.Language())
	if err := c.generate(ctx, Request{Name: "analysis", Prompt: p, Schema: schema}, &result); err != nil {
		return nil, c.fail(ErrAnalyze, "Analysis", err)
	}

	result.OriginalText = text
	c.log.WithFields(logrus.Fields{
		"text":     text,
		"words":    len(result.Words),
		"dialogue": len(result.Dialogue),
	}).Info("analyzed sentence")
	return &result, nil
}

// GenerateQuiz creates a fill-in-the-blank quiz from the last analysis.
// One tutor, chosen uniformly at random, writes the encouragement. Every
// failure is reported as ErrQuiz.
func (c *Client) GenerateQuiz(ctx context.Context, last *simkung.AnalysisResult, tutors []simkung.Tutor) (*simkung.QuizData, error) {
	if last == nil {
		return nil, c.fail(ErrQuiz, "Quiz", errors.New("no analysis to quiz on"))
	}
	if len(tutors) == 0 {
		return nil, c.fail(ErrQuiz, "Quiz", errors.New("no tutors"))
	}

	encourager := tutors[c.intn(len(tutors))]
	p, err := c.prompts.Quiz(last.OriginalText, tutors, encourager)
	if err != nil {
		return nil, c.fail(ErrQuiz, "Quiz", err)
	}

	var quiz simkung.QuizData
	schema := QuizSchema(c.prompts.Language())
	if err := c.generate(ctx, Request{Name: "quiz", Prompt: p, Schema: schema}, &quiz); err != nil {
		return nil, c.fail(ErrQuiz, "Quiz", err)
	}

	c.log.WithFields(logrus.Fields{
		"text":       last.OriginalText,
		"encourager": encourager.Name,
		"options":    len(quiz.Options),
	}).Info("generated quiz")
	return &quiz, nil
}

func (c *Client) generate(ctx context.Context, req Request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.log.WithFields(logrus.Fields{
		"provider": c.provider.Name(),
		"schema":   req.Name,
	}).Debug(req.Prompt)

	raw, err := c.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("empty response")
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if req.Schema != nil {
		if err := req.Schema.Validate(doc); err != nil {
			return fmt.Errorf("response does not match schema: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) fail(sentinel error, what string, cause error) error {
	c.log.WithError(cause).WithField("provider", c.provider.Name()).Errorf("%s error", what)
	return fmt.Errorf("%w: %w", sentinel, cause)
}
