// Package gemini queries Google Gemini through its OpenAI-compatible
// chat completions endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/coderefine/internal/config"
	"github.com/bryanwahyu/coderefine/internal/domain/review"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-1.5-flash"

	defaultMaxTokens = 2048
)

type Client struct {
	api       *openai.Client
	hasKey    bool
	model     string
	timeout   time.Duration
	maxTokens int
}

// NewClient builds a client from explicit configuration. An empty API key is
// allowed: every Query then fails fast with review.ErrNoCredentials.
func NewClient(cfg config.Gemini) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		api:       openai.NewClientWithConfig(oc),
		hasKey:    strings.TrimSpace(cfg.APIKey) != "",
		model:     model,
		timeout:   cfg.Timeout,
		maxTokens: maxTokens,
	}
}

// Query makes a single attempt, without retries.
func (c *Client) Query(ctx context.Context, prompt string) (*review.AnalysisResult, error) {
	if !c.hasKey {
		return nil, review.ErrNoCredentials
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, review.ErrEmptyResponse
	}

	return decodeResult(resp.Choices[0].Message.Content)
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", review.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", review.ErrUnavailable, err)
}
