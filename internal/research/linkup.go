// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

// excerptLimit bounds each snippet excerpt; the composer only needs enough
// text for keyword grounding.
const excerptLimit = 200

// LinkupBackend queries the Linkup web search API. An empty BaseURL falls
// back to the production endpoint, tests point it at an httptest server.
type LinkupBackend struct {
	Config  types.ResearchConfig
	Client  *http.Client
	BaseURL string
}

// defaultLinkupBase is the Linkup search endpoint.
const defaultLinkupBase = "https://api.linkup.so/v1/search"

// Name returns the backend identifier.
func (b *LinkupBackend) Name() string { return "linkup" }

// linkupRequest is the request body for the Linkup search API.
type linkupRequest struct {
	Query      string `json:"q"`
	Depth      string `json:"depth"`
	OutputType string `json:"outputType"`
}

// linkupResponse is the response body from the Linkup search API.
type linkupResponse struct {
	Results []struct {
		Name    string `json:"name"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search performs a single search call. Zero results is a valid outcome, not
// an error. The caller owns retries, of which there are none by contract.
func (b *LinkupBackend) Search(ctx context.Context, query string, maxResults int) ([]types.Snippet, error) {
	depth := b.Config.Depth
	if depth == "" {
		depth = "standard"
	}

	bodyBytes, err := json.Marshal(linkupRequest{
		Query:      query,
		Depth:      depth,
		OutputType: "searchResults",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	base := b.BaseURL
	if base == "" {
		base = defaultLinkupBase
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Config.APIKey)
	req.Header.Set("User-Agent", b.Config.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}

	var lr linkupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	var snippets []types.Snippet
	for _, r := range lr.Results {
		if maxResults > 0 && len(snippets) >= maxResults {
			break
		}
		snippets = append(snippets, types.Snippet{
			Title:   r.Name,
			URL:     r.URL,
			Excerpt: truncate(r.Content, excerptLimit),
		})
	}
	return snippets, nil
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
