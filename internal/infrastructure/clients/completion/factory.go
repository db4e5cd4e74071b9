package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/anthropic"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/gemini"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/openai"
	"github.com/zatekoja/recipemigration/pkg/config"
)

// NewProvider builds the configured completion provider. A nil provider with a
// nil error means enrichment is disabled.
func NewProvider(ctx context.Context, cfg *config.AIConfig) (providers.CompletionProvider, error) {
	if cfg == nil {
		return nil, nil
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	log.Info().Str("provider", name).Str("model", cfg.Model).Msg("Initializing completion provider")

	switch name {
	case "", "none":
		return nil, nil
	case "openai":
		c, err := openai.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "anthropic":
		c, err := anthropic.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
