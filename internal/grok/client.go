// Package grok is a minimal client for the xAI chat-completions API. One
// call issues one HTTPS POST; there is no retry, no queuing, and no state
// shared between calls.
package grok

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

const defaultBaseURL = "https://api.x.ai/v1"

// maxBodySnippet caps how much of an error response body is surfaced.
const maxBodySnippet = 512

// Options configures a Client. Zero values fall back to the defaults the
// original tool shipped with.
type Options struct {
	Model     string // default "grok-3"
	MaxTokens int    // default 16000
	// Temperature defaults to 0.7 when nil. A non-nil zero is honored, so
	// deterministic sampling stays expressible.
	Temperature *float64
	BaseURL     string // override for tests
	Timeout     time.Duration
}

// Client issues completion requests. The API key is held in memory only and
// is written solely into the Authorization header.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewClient creates a completion client for the given API key.
func NewClient(apiKey string, opts Options) *Client {
	if opts.Model == "" {
		opts.Model = "grok-3"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 16000
	}
	temperature := 0.7
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      apiKey,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: temperature,
	}
}

// Model returns the model identifier requests are sent with.
func (c *Client) Model() string { return c.model }

// Usage holds token counts from a completion response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is a successful completion.
type Result struct {
	Text  string
	Model string
	Usage Usage
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Complete sends the composed prompt as a single user message and returns
// the generated text, or an *APIError classifying the failure. Cancelling
// ctx aborts the request and returns the context error.
func (c *Client) Complete(ctx context.Context, composedPrompt string) (*Result, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: composedPrompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Kind: KindTransport, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Detail: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := KindServer
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = KindAuth
		}
		return nil, &APIError{Kind: kind, Status: resp.StatusCode, Detail: snippet(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &APIError{Kind: KindParse, Status: resp.StatusCode, Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, &APIError{Kind: KindParse, Status: resp.StatusCode, Detail: "response has no choices[0].message.content"}
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return &Result{
		Text:  parsed.Choices[0].Message.Content,
		Model: model,
		Usage: parsed.Usage,
	}, nil
}

// snippet trims and caps a response body for inclusion in error detail.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		s = s[:maxBodySnippet] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
