package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicAPIURL = "https://api.anthropic.com/v1/messages"
	anthropicMaxTok = 4096
)

// Anthropic is a Messages API client. The API has no schema-enforced output
// mode, so the schema is appended to the prompt.
type Anthropic struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

// message represents an Anthropic API message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents an Anthropic API request.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// response represents an Anthropic API response.
type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropic creates an Anthropic provider. baseURL replaces the messages
// endpoint when set.
func NewAnthropic(apiKey, model, baseURL string) *Anthropic {
	url := anthropicAPIURL
	if baseURL != "" {
		url = strings.TrimRight(baseURL, "/") + "/v1/messages"
	}
	return &Anthropic{
		apiKey: strings.TrimSpace(apiKey),
		url:    url,
		model:  model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Name returns "anthropic".
func (a *Anthropic) Name() string { return "anthropic" }

// Generate sends the prompt and returns the text of the first content block.
func (a *Anthropic) Generate(ctx context.Context, r Request) (string, error) {
	prompt, err := withSchema(r.Prompt, r.Schema)
	if err != nil {
		return "", err
	}

	req := request{
		Model:     a.model,
		MaxTokens: anthropicMaxTok,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshaling response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return stripFences(apiResp.Content[0].Text), nil
}

func withSchema(prompt string, schema *Schema) (string, error) {
	if schema == nil {
		return prompt, nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nRespond with ONLY a JSON object, no prose and no code fences, matching this JSON schema:\n")
	sb.Write(data)
	return sb.String(), nil
}
