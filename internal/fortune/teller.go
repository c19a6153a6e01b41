package fortune

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cookedfr/cookedfr/internal/upstream"
)

// Teller turns a name into a fortune with exactly one upstream call.
// It holds no per-request state and is safe for concurrent use.
type Teller struct {
	generator upstream.Generator
	model     string
	logger    zerolog.Logger
}

// NewTeller constructs a Teller for the given model identifier.
func NewTeller(generator upstream.Generator, model string, logger zerolog.Logger) *Teller {
	return &Teller{
		generator: generator,
		model:     model,
		logger:    logger.With().Str("component", "teller").Logger(),
	}
}

// Tell returns the trimmed fortune for name. An empty name fails with
// ErrInvalidName before any upstream call. Upstream failures and empty
// results are returned as *GenerationError. Nothing is retried.
func (t *Teller) Tell(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}

	text, err := t.generator.Generate(ctx, BuildPrompt(t.model, name))
	if err != nil {
		return "", &GenerationError{Kind: upstream.KindOf(err), Err: err}
	}

	fortune := strings.TrimSpace(text)
	if fortune == "" {
		return "", &GenerationError{Kind: upstream.KindEmptyResult, Err: upstream.ErrEmptyResult}
	}

	t.logger.Debug().Int("name_len", len(name)).Int("fortune_len", len(fortune)).Msg("fortune generated")
	return fortune, nil
}
