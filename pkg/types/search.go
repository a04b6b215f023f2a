// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-assistant pipeline.
// Each stage (search, fetch, synthesis, summarize) consumes the previous
// stage's output through these types; nothing here outlives a single run.
package types

// SearchResult is one ranked candidate page returned by the web search API.
type SearchResult struct {
	// Rank is the 1-based position of the result after truncation to top-N.
	Rank int `json:"rank" yaml:"rank"`

	// Title is the page title as reported by the search service.
	Title string `json:"title" yaml:"title"`

	// URL is the address the fetch stage downloads.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short content excerpt the search service returns.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Score is the service's relevance score, when it reports one.
	Score float64 `json:"score" yaml:"score"`
}

// SearchOutput is the full response of one search call.
type SearchOutput struct {
	// Query is the exact query string that was searched.
	Query string `json:"query" yaml:"query"`

	// Answer is the short synthesized answer some services return
	// alongside results. Empty when the service provides none.
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"`

	// Results lists the ranked results, best first.
	Results []SearchResult `json:"results" yaml:"results"`
}
