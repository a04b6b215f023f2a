// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API root.
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 1024
)

// GroqBackend calls an OpenAI-compatible chat completions API, Groq by default.
type GroqBackend struct {
	client *openai.Client
	cfg    types.SummarizerConfig
}

// NewGroqBackend builds a backend from cfg. The API key is trimmed of
// surrounding whitespace; an empty key is an error. httpClient may be nil.
func NewGroqBackend(cfg types.SummarizerConfig, httpClient *http.Client) (*GroqBackend, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("language model API key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	return &GroqBackend{client: openai.NewClientWithConfig(oc), cfg: cfg}, nil
}

// Model returns the model identifier requests are sent with.
func (g *GroqBackend) Model() string { return g.cfg.Model }

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (g *GroqBackend) Complete(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("language model API returned %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("calling language model API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("language model API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
