package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.AIConfig{APIKey: "sk-test", Timeout: 5 * time.Second}, WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func TestComplete_ReturnsFirstOutputText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, defaultModel, payload["model"])
		assert.EqualValues(t, 800, payload["max_output_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"reasoning","text":""},{"type":"output_text","text":"{\"prep_time\":\"15 dk\"}"}]}]}`))
	})

	resp, err := c.Complete(context.Background(), providers.CompletionRequest{
		SystemPrompt:    "sys",
		UserPrompt:      "user",
		MaxOutputTokens: 800,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"prep_time":"15 dk"}`, resp.Text)
	assert.Equal(t, "openai", resp.Provider)
}

func TestComplete_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrCompletionUnauthorized))
}

func TestComplete_ServerErrorAndEmptyOutput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
	assert.Error(t, err)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	})
	_, err = c.Complete(context.Background(), providers.CompletionRequest{UserPrompt: "x"})
	assert.Error(t, err)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(&config.AIConfig{})
	assert.Error(t, err)
}
