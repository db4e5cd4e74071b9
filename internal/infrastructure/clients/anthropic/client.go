package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/pkg/config"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
	providerName     = "anthropic"
)

// Client calls the Anthropic Messages API.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

var _ providers.CompletionProvider = (*Client)(nil)

// NewClient creates an Anthropic completion client. Extra request options
// (base URL, HTTP client) are passed through to the SDK.
func NewClient(cfg *config.AIConfig, opts ...option.RequestOption) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Complete sends the prompt pair as a single user turn and concatenates the text blocks.
func (c *Client) Complete(ctx context.Context, in providers.CompletionRequest) (*providers.CompletionResponse, error) {
	maxTokens := c.maxTokens
	if in.MaxOutputTokens > 0 {
		maxTokens = in.MaxOutputTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.UserPrompt)),
		},
	}
	if in.Temperature > 0 {
		params.Temperature = anthropic.Float(in.Temperature)
	}
	if in.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.SystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: anthropic request failed with status %d", providers.ErrCompletionUnauthorized, apiErr.StatusCode)
		}
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic response missing text content")
	}

	return &providers.CompletionResponse{Text: text.String(), Provider: providerName, Model: c.model}, nil
}
