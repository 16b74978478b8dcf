package ai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type geminiClient struct {
	llm llms.Model
}

// NewGeminiClient creates a Gemini client through langchaingo.
func NewGeminiClient(ctx context.Context, apiKey, model string) (Client, error) {
	if apiKey == "" {
		return nil, generationError("gemini", errors.New("missing API key"))
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, generationError("gemini", err)
	}
	return &geminiClient{llm: llm}, nil
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", generationError("gemini", err)
	}
	return orNoResponse(resp), nil
}
