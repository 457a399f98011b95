// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reasoning implements the HTTP client for the reasoning
// collaborator, an OpenAI-compatible chat completions API. The assessment and
// composition stages build their prompts on top of Client.Chat.
//
// See docs/ARCHITECTURE.md § External Collaborators.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/inbox-intel/internal/httputil"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

// defaultAPIBase is the chat completions endpoint.
const defaultAPIBase = "https://api.groq.com/openai/v1/chat/completions"

const defaultMaxTokens = 4096

// Client calls the reasoning API. The zero HTTPClient falls back to
// http.DefaultClient; an empty BaseURL falls back to the production endpoint,
// tests point it at an httptest server.
type Client struct {
	Config     types.AIConfig
	HTTPClient *http.Client
	BaseURL    string
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Chat sends a single-turn prompt and returns the model's text answer.
// Rate-limit responses are retried with backoff; every other non-200 status
// is an error the caller decides how to recover from.
func (c *Client) Chat(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Config.Timeout)
		defer cancel()
	}

	reqBody := chatRequest{
		Model:       c.Config.Model,
		Temperature: temperature,
		MaxTokens:   defaultMaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	base := c.BaseURL
	if base == "" {
		base = defaultAPIBase
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling reasoning API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reasoning API returned %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing reasoning response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("reasoning response contains no choices")
	}

	return cr.Choices[0].Message.Content, nil
}

// StripFences removes a surrounding Markdown code fence from a model answer.
// Models asked for raw JSON still wrap it in ```json fences often enough that
// every JSON consumer runs its answer through this first.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// Language tag on the opening fence line ("json", "yaml", ...).
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
