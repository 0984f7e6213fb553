package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI calls any OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	api   *openai.Client
	model string
}

// NewOpenAI creates an OpenAI provider. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Generate sends the prompt with a JSON schema response format.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	if req.Schema != nil {
		format = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Name,
				Schema: req.Schema,
			},
		}
	}

	resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return stripFences(resp.Choices[0].Message.Content), nil
}
