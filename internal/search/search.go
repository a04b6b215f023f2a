// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search API and returns a bounded, ranked list
// of candidate pages for the fetch stage.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// DefaultMaxResults is the top-N bound applied when the config leaves it unset.
const DefaultMaxResults = 5

// ErrEmptyQuery is returned when the query has no searchable text.
var ErrEmptyQuery = errors.New("query is empty: provide a research question")

// Backend searches a single web search service.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) (types.SearchOutput, error)
}

// Search sends query to the backend exactly once and returns at most
// cfg.MaxResults results, ranked from 1. Results without a URL and repeated
// URLs are dropped before the bound is applied. Backend failures are returned
// as-is wrapped with the backend name; there is no fallback.
func Search(ctx context.Context, query string, backend Backend, cfg types.SearchConfig) (types.SearchOutput, error) {
	if strings.TrimSpace(query) == "" {
		return types.SearchOutput{}, ErrEmptyQuery
	}
	if backend == nil {
		return types.SearchOutput{}, fmt.Errorf("no search backend configured")
	}

	out, err := backend.Search(ctx, query, cfg)
	if err != nil {
		return types.SearchOutput{}, fmt.Errorf("%s search: %w", backend.Name(), err)
	}
	out.Query = query

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	seen := make(map[string]bool)
	var kept []types.SearchResult
	for _, r := range out.Results {
		u := strings.TrimSpace(r.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		r.URL = u
		r.Title = strings.TrimSpace(r.Title)
		kept = append(kept, r)
		if len(kept) == maxResults {
			break
		}
	}
	for i := range kept {
		kept[i].Rank = i + 1
	}
	out.Results = kept
	return out, nil
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out types.SearchOutput, w io.Writer) {
	if out.Answer != "" {
		fmt.Fprintf(w, "%s\n\n", out.Answer)
	}
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-6s  %s\n", "Rank", "Title", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range out.Results {
		fmt.Fprintf(w, "%-4d  %s  %-6.2f  %s\n", r.Rank, padRight(truncate(r.Title, 50), 50), r.Score, r.URL)
	}

	fmt.Fprintf(w, "\n%d results\n", len(out.Results))
}

// FormatJSON writes the search output as indented JSON to w.
func FormatJSON(out types.SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatYAML writes the search output as YAML to w.
func FormatYAML(out types.SearchOutput, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// truncate cuts s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
