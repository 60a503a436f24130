package llm

import (
	"context"
	"os"
	"time"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() Config {
	return Config{
		APIKey:  os.Getenv("GOOGLE_GEMINI_API_KEY"),
		Model:   "gemini-3-flash-preview",
		Timeout: 30 * time.Second,
	}
}

// NewGeminiClient creates a client using the Gemini SDK. Returns nil
// if no API key is configured; a nil client fails every call with a
// not_configured error instead of panicking.
func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.APIKey == "" {
		return nil
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// Complete generates text for the prompt pair at the given
// temperature.
func (c *GeminiClient) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c == nil || c.client == nil {
		return "", &ServiceError{
			Provider: "gemini",
			Code:     CodeNotConfigured,
			Message:  "no API key configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		return "", &ServiceError{
			Provider: "gemini",
			Code:     CodeRequestFailed,
			Message:  "generate content",
			Err:      err,
		}
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", &ServiceError{
			Provider: "gemini",
			Code:     CodeEmptyResponse,
			Message:  "empty response from API",
		}
	}

	// Extract text from response parts
	var text string
	if result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}
	}

	if text == "" {
		return "", &ServiceError{
			Provider: "gemini",
			Code:     CodeEmptyResponse,
			Message:  "no text in response",
		}
	}

	return text, nil
}

// IsConfigured returns whether the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c != nil && c.client != nil
}

// Model returns the model name.
func (c *GeminiClient) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
