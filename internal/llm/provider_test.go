package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/simkung/simkung/internal/config"
	"github.com/simkung/simkung/internal/simkung"
)

func TestAnthropicGenerate(t *testing.T) {
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		io.WriteString(w, `{"content":[{"type":"text","text":"`+"```json\\n{\\\"a\\\":1}\\n```"+`"}]}`)
	}))
	defer srv.Close()

	a := NewAnthropic(" key\n", "claude-test", srv.URL)
	got, err := a.Generate(context.Background(), Request{
		Name:   "quiz",
		Prompt: "make a quiz",
		Schema: &Schema{Type: TypeObject, Required: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("Generate() = %q", got)
	}

	if gotReq.Model != "claude-test" || len(gotReq.Messages) != 1 {
		t.Fatalf("request = %+v", gotReq)
	}
	content := gotReq.Messages[0].Content
	if !strings.HasPrefix(content, "make a quiz") || !strings.Contains(content, `"required":["a"]`) {
		t.Errorf("prompt does not carry the schema:\n%s", content)
	}
}

func TestAnthropicAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	_, err := NewAnthropic("bad", "m", srv.URL).Generate(context.Background(), Request{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "invalid x-api-key") {
		t.Errorf("err = %v", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	o := NewOpenAI("key", "gpt-test", srv.URL+"/v1")
	got, err := o.Generate(context.Background(), Request{
		Name:   "analysis",
		Prompt: "analyze",
		Schema: &Schema{Type: TypeObject},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("Generate() = %q", got)
	}

	format, _ := gotReq["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", gotReq["response_format"])
	}
	js, _ := format["json_schema"].(map[string]any)
	if js["name"] != "analysis" {
		t.Errorf("json_schema = %v", js)
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"", config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic} {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: name, APIKey: "  "})
		if err != nil {
			t.Fatalf("NewProvider(%q) without key: %v", name, err)
		}
		if Configured(p) {
			t.Errorf("NewProvider(%q) without key is configured", name)
		}
	}
	if _, err := NewProvider(ctx, config.LLMConfig{Provider: "cohere"}); err == nil {
		t.Error("expected error for unknown provider without key")
	}
	if _, err := NewProvider(ctx, config.LLMConfig{Provider: "cohere", APIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	p, err := NewProvider(ctx, config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	a, ok := p.(*Anthropic)
	if !ok || a.model != config.DefaultModel(config.ProviderAnthropic) {
		t.Errorf("provider = %#v", p)
	}

	p, err = NewProvider(ctx, config.LLMConfig{Provider: config.ProviderGemini, APIKey: "k", Model: "gemini-x"})
	if err != nil {
		t.Fatalf("NewProvider gemini: %v", err)
	}
	if p.Name() != "gemini" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestMissingKeyFailsPerCall(t *testing.T) {
	ctx := context.Background()
	p, err := NewProvider(ctx, config.LLMConfig{Provider: config.ProviderOpenAI})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	c := newTestClient(p)

	_, err = c.AnalyzeSentence(ctx, "おはよう", tutors)
	if !errors.Is(err, ErrAnalyze) || !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("AnalyzeSentence err = %v, want ErrAnalyze wrapping ErrNoAPIKey", err)
	}

	_, err = c.GenerateQuiz(ctx, &simkung.AnalysisResult{OriginalText: "おはよう"}, tutors)
	if !errors.Is(err, ErrQuiz) {
		t.Errorf("GenerateQuiz err = %v, want ErrQuiz", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1]\n```":           `[1]`,
		"  {}  ":                  `{}`,
	}
	for in, want := range tests {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
