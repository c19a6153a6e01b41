package upstream

import (
	"context"
)

// Prompt is the two-message request sent to the completion API.
type Prompt struct {
	Model  string
	System string
	User   string
}

// Generator produces text for a prompt.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_generator.go -package=mocks . Generator
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// HealthChecker is implemented by generators that can probe their API.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Ensure clients implement Generator.
var (
	_ Generator     = (*OpenAIClient)(nil)
	_ HealthChecker = (*OpenAIClient)(nil)
	_ Generator     = (*GeminiClient)(nil)
)
