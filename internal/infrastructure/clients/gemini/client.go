package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/pkg/config"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"
	providerName = "gemini"
)

// Client calls the Gemini generateContent API.
type Client struct {
	client *genai.Client
	model  string
}

var _ providers.CompletionProvider = (*Client)(nil)

// Option customises the genai client configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at another Gemini-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(cc *genai.ClientConfig) { cc.HTTPOptions.BaseURL = u }
}

// NewClient creates a Gemini completion client.
func NewClient(ctx context.Context, cfg *config.AIConfig, opts ...Option) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Complete sends one user turn with the system prompt as instruction.
func (c *Client) Complete(ctx context.Context, in providers.CompletionRequest) (*providers.CompletionResponse, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(in.Temperature)),
	}
	if in.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(in.MaxOutputTokens)
	}
	if in.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(in.SystemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(in.UserPrompt, genai.RoleUser)}, gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: gemini request failed with status %d", providers.ErrCompletionUnauthorized, apiErr.Code)
		}
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("gemini response missing text content")
	}

	return &providers.CompletionResponse{Text: text.String(), Provider: providerName, Model: c.model}, nil
}
