// Package llm implements the client for the external chat-completions
// generation endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultBaseURL is the default chat-completions API base URL.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultTemperature is the fixed sampling temperature.
	DefaultTemperature = 0.8

	// DefaultMaxTokens bounds the completion length.
	DefaultMaxTokens = 1800

	// DefaultTimeout bounds the single generation attempt. Expiry surfaces
	// as a GenerationError wrapping the transport error.
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the generation client.
type Config struct {
	// BaseURL is the chat-completions API base URL, without the
	// /chat/completions suffix. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model name. Defaults to DefaultModel if empty.
	Model string

	// APIKey is the bearer credential for the endpoint.
	APIKey string

	// Temperature is the sampling temperature. Defaults to DefaultTemperature
	// if zero.
	Temperature float64

	// MaxTokens bounds the completion. Defaults to DefaultMaxTokens if zero.
	MaxTokens int

	// Timeout bounds the request. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Client calls a chat-completions style generation endpoint. It makes
// exactly one attempt per Generate call; fallback behavior on failure is the
// caller's responsibility.
type Client struct {
	baseURL     string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewClient creates a new generation client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		apiKey:      cfg.APIKey,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate sends the prompt as a single user message and returns the trimmed
// completion text. Non-success statuses and transport failures both return a
// GenerationError; there is no retry.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", GenerationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", GenerationError{Status: resp.StatusCode, Body: string(body)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", GenerationError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", GenerationError{Err: fmt.Errorf("no choices in response")}
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
