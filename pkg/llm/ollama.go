package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const ollamaDefaultURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server. It exists for offline
// use; the wire format follows the /api/chat endpoint.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaClient creates a client for a local Ollama server. Returns
// nil if no model is configured; a nil client fails every call with a
// not_configured error instead of panicking.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.Model == "" {
		return nil
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = ollamaDefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ollamaRequest is the /api/chat request format.
type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

// ollamaResponse is the /api/chat response format.
type ollamaResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Complete generates text for the prompt pair at the given
// temperature.
func (c *OllamaClient) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c == nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeNotConfigured,
			Message:  "no model configured",
		}
	}

	messages := make([]ollamaMessage, 0, 2)
	if system != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: user})

	reqBody := ollamaRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}
	if temperature > 0 {
		reqBody.Options = &ollamaOptions{Temperature: temperature}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeRequestFailed,
			Message:  "marshal request",
			Err:      err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeRequestFailed,
			Message:  "create request",
			Err:      err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeRequestFailed,
			Message:  "send request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeRequestFailed,
			Message:  "read response",
			Err:      err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     fmt.Sprintf("http_%d", resp.StatusCode),
			Message:  string(respBody),
		}
	}

	var chatResp ollamaResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeRequestFailed,
			Message:  "unmarshal response",
			Err:      err,
		}
	}

	if chatResp.Message.Content == "" {
		return "", &ServiceError{
			Provider: "ollama",
			Code:     CodeEmptyResponse,
			Message:  "no text in response",
		}
	}

	return chatResp.Message.Content, nil
}

// IsConfigured returns whether the client has a model set.
func (c *OllamaClient) IsConfigured() bool {
	return c != nil
}

// Model returns the model name.
func (c *OllamaClient) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// IsAvailable probes the server with a short timeout.
func (c *OllamaClient) IsAvailable() bool {
	if c == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
