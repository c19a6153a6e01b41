package upstream

import (
	"context"
	"fmt"

	"github.com/cookedfr/cookedfr/internal/config"
)

// NewGenerator builds the Generator for the configured provider.
func NewGenerator(ctx context.Context, cfg *config.UpstreamConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Provider)
	}
}
