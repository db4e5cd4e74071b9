package providers

import (
	"context"
	"errors"
)

// ErrCompletionUnauthorized indicates the provider rejected the API credentials.
var ErrCompletionUnauthorized = errors.New("completion provider unauthorized")

// CompletionRequest is a single structured-output request to a text generation model.
type CompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxOutputTokens int
	Temperature     float64
}

// CompletionResponse carries the raw model text; callers parse it.
type CompletionResponse struct {
	Text     string
	Provider string
	Model    string
}

// CompletionProvider is the AI enrichment collaborator.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}
