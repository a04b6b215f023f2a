// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// tavilySearchURL is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilySearchURL = "https://api.tavily.com/search"

const defaultSearchDepth = "advanced"

// TavilyBackend queries the Tavily search API.
type TavilyBackend struct {
	Client *http.Client
	// Endpoint overrides the search URL; empty means the public API.
	Endpoint string
}

// Name returns the backend identifier.
func (b *TavilyBackend) Name() string { return "tavily" }

// Search posts the query to Tavily and maps its results. HTTP 429 and 503
// responses are retried per httputil.DoWithRetry.
func (b *TavilyBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) (types.SearchOutput, error) {
	if cfg.APIKey == "" {
		return types.SearchOutput{}, fmt.Errorf("tavily API key is empty")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	depth := cfg.Depth
	if depth == "" {
		depth = defaultSearchDepth
	}

	body, err := json.Marshal(tavilyRequest{
		Query:         query,
		MaxResults:    maxResults,
		SearchDepth:   depth,
		IncludeAnswer: cfg.IncludeAnswer,
	})
	if err != nil {
		return types.SearchOutput{}, fmt.Errorf("marshaling request: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	endpoint := b.Endpoint
	if endpoint == "" {
		endpoint = tavilySearchURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return types.SearchOutput{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return types.SearchOutput{}, fmt.Errorf("tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.SearchOutput{}, fmt.Errorf("tavily API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return types.SearchOutput{}, fmt.Errorf("parsing tavily response: %w", err)
	}

	out := types.SearchOutput{Query: query, Answer: tr.Answer}
	for _, r := range tr.Results {
		out.Results = append(out.Results, types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Score:   r.Score,
		})
	}
	return out, nil
}

// Tavily API JSON structures.
type tavilyRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
