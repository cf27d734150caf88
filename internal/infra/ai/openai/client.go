package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/mindtype/insights/internal/domain/ai"
)

const maxTokens = 4096

// Client adapts an OpenAI-compatible chat completion endpoint to the
// domain ai.Client port. BaseURL may point at any compatible provider.
type Client struct {
	api    *openai.Client
	model  string
	apiKey string
}

func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, apiKey: apiKey}
}

func (c *Client) Generate(ctx context.Context, instruction string, mode domai.Mode, temperature float32) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", domai.ErrConfigurationMissing
	}

	model := c.model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
	}
	if mode == domai.ModeJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", domai.ErrQuotaExceeded
		}
		return "", fmt.Errorf("%w: %v", domai.ErrUpstreamFailure, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", domai.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
