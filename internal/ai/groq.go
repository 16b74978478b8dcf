package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqURL          = "https://api.groq.com/openai/v1/chat/completions"
	DefaultGroqModel = "llama-3.3-70b-versatile"
)

type groqClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewGroqClient creates a client for Groq's OpenAI-compatible chat API.
func NewGroqClient(apiKey, model, url string) Client {
	if model == "" {
		model = DefaultGroqModel
	}
	if url == "" {
		url = groqURL
	}
	return &groqClient{
		apiKey:     apiKey,
		model:      model,
		url:        url,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *groqClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", generationError("groq", errors.New("missing API key"))
	}

	reqBody := groqRequest{
		Model:       c.model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", generationError("groq", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", generationError("groq", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", generationError("groq", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", generationError("groq", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", generationError("groq", fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return "", generationError("groq", fmt.Errorf("decode response: %w", err))
	}
	if groqResp.Error != nil {
		return "", generationError("groq", errors.New(groqResp.Error.Message))
	}
	if len(groqResp.Choices) == 0 {
		return NoResponse, nil
	}
	return orNoResponse(groqResp.Choices[0].Message.Content), nil
}
