package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tablechat/internal"
	"tablechat/internal/config"
)

const groundedSystemPrompt = "You are a data-analysis assistant. Answer the user's question using ONLY the spreadsheet rows provided below as context. If the context does not contain the answer, say so.\n\n"

const ungroundedSystemPrompt = "You are a data-analysis assistant. No spreadsheet context is available for this question; answer from general knowledge and say that no matching rows were found."

// Client implements ports.CompletionClient against an OpenAI-style chat
// completions endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a live completions client from explicit configuration.
func NewClient(cfg config.CompletionsConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing completions API key")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Generate produces an answer grounded on the given context snippets. The
// snippets are joined with blank lines into the system message; an empty
// context list falls back to an ungrounded response rather than erroring.
func (c *Client) Generate(ctx context.Context, prompt string, contextSnippets []string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("missing prompt")
	}
	maxTokens := c.maxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	system := ungroundedSystemPrompt
	if len(contextSnippets) > 0 {
		system = groundedSystemPrompt + strings.Join(contextSnippets, "\n\n")
	}

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: c.model,
		Messages: []msg{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	internal.DefaultLogger.Debug("completions request: model=%s context_snippets=%d prompt_chars=%d",
		c.model, len(contextSnippets), len(prompt))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completions request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completions http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("completions response missing choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// MockClient is the degraded completions variant selected at startup when no
// API key is configured. Same interface, canned behavior.
type MockClient struct {
	// Delay simulates call latency in tests; zero means none.
	Delay time.Duration
}

// Generate returns a canned answer that echoes the grounding context so the
// UI flow stays exercisable without credentials.
func (m *MockClient) Generate(ctx context.Context, prompt string, contextSnippets []string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if len(contextSnippets) == 0 {
		return fmt.Sprintf("(mock) No completions service is configured and no matching rows were found for %q.", prompt), nil
	}
	return fmt.Sprintf("(mock) No completions service is configured. The most relevant row for %q was: %s", prompt, contextSnippets[0]), nil
}
