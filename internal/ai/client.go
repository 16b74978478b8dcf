package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrGeneration is matched by every provider failure. Callers only need to
// know that the model could not answer.
var ErrGeneration = errors.New("text generation failed")

// NoResponse stands in for an empty model answer.
const NoResponse = "No response generated."

// Client is the interface for AI providers
type Client interface {
	// Generate sends a single prompt and returns the model's text answer.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a client for one API key. The key comes from the user's
// session, so clients are created per request.
type Factory func(ctx context.Context, apiKey string) (Client, error)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Settings select and tune a provider.
type Settings struct {
	Provider string
	Model    string
	// BaseURL overrides the Groq endpoint (tests, proxies)
	BaseURL string
}

// NewFactory returns the Factory for the configured provider.
func NewFactory(s Settings) (Factory, error) {
	switch strings.ToLower(s.Provider) {
	case "", ProviderGemini:
		return func(ctx context.Context, apiKey string) (Client, error) {
			return NewGeminiClient(ctx, apiKey, s.Model)
		}, nil
	case ProviderGroq:
		return func(_ context.Context, apiKey string) (Client, error) {
			return NewGroqClient(apiKey, s.Model, s.BaseURL), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", s.Provider)
}

// generationError wraps a provider failure so it matches ErrGeneration.
func generationError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGeneration, provider, err)
}

func orNoResponse(text string) string {
	if strings.TrimSpace(text) == "" {
		return NoResponse
	}
	return text
}
