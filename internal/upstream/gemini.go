package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/cookedfr/cookedfr/internal/config"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini client. BaseURL overrides the API host.
func NewGeminiClient(ctx context.Context, cfg *config.UpstreamConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// Generate passes the system persona as the system instruction and the
// user message as the only content turn.
func (c *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.User, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, prompt.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	})
	if err != nil {
		return "", classifyGenAIError(ctx, err)
	}
	if result == nil {
		return "", &Error{Kind: KindMalformedResponse, Message: "empty response"}
	}
	if len(result.Candidates) == 0 {
		if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return "", &Error{Kind: KindEmptyResult, Err: fmt.Errorf("prompt blocked (%s): %w", fb.BlockReason, ErrEmptyResult)}
		}
		return "", &Error{Kind: KindMalformedResponse, Message: "no candidates in response"}
	}

	return result.Text(), nil
}

func classifyGenAIError(ctx context.Context, err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.Code, apiErr.Message)
	}
	return transportError(ctx, err)
}
