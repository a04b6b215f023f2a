// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// fakeFetcher serves canned pages and errors keyed by URL.
type fakeFetcher struct {
	pages map[string]types.Page
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (types.Page, error) {
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return types.Page{}, err
	}
	return f.pages[rawURL], nil
}

func TestFetchAllSkipsFailures(t *testing.T) {
	results := []types.SearchResult{
		{Rank: 1, Title: "One", URL: "https://one.example"},
		{Rank: 2, Title: "Two", URL: "https://two.example"},
		{Rank: 3, Title: "Three", URL: "https://three.example"},
	}
	f := &fakeFetcher{
		pages: map[string]types.Page{
			"https://one.example":   {URL: "https://one.example", Title: "Page One", Text: "first body"},
			"https://three.example": {URL: "https://three.example", Text: "third body"},
		},
		errs: map[string]error{"https://two.example": errors.New("HTTP 404")},
	}

	s, err := FetchAll(context.Background(), f, results, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://one.example", "https://two.example", "https://three.example"}, f.calls)
	require.Equal(t, 2, s.Fetched())
	assert.Equal(t, "Page One", s.Pages[0].Title)
	assert.Equal(t, "Three", s.Pages[1].Title, "search title fills a missing page title")
	require.Equal(t, 1, s.Failed())
	assert.Equal(t, types.FetchFailure{URL: "https://two.example", Err: "HTTP 404"}, s.Failures[0])
}

func TestFetchAllOneCallPerResult(t *testing.T) {
	var results []types.SearchResult
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example"} {
		results = append(results, types.SearchResult{URL: u})
	}
	f := &fakeFetcher{errs: map[string]error{}}
	for _, r := range results {
		f.errs[r.URL] = ErrNoText
	}

	s, err := FetchAll(context.Background(), f, results, nil)
	require.NoError(t, err)
	assert.Len(t, f.calls, len(results))
	assert.Equal(t, 0, s.Fetched())
	assert.Equal(t, len(results), s.Failed())
}

func TestFetchAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := []types.SearchResult{{URL: "https://a.example"}, {URL: "https://b.example"}}
	f := &fakeFetcher{errs: map[string]error{
		"https://a.example": context.Canceled,
		"https://b.example": context.Canceled,
	}}

	_, err := FetchAll(ctx, f, results, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, f.calls, 1)
}

func TestFetchAllEmpty(t *testing.T) {
	s, err := FetchAll(context.Background(), &fakeFetcher{}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Fetched())
	assert.Equal(t, 0, s.Failed())
}

func TestFetchAllLogsRuneCount(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := &fakeFetcher{pages: map[string]types.Page{
		"https://fr.example": {URL: "https://fr.example", Title: "Café", Text: "déjà vu"},
	}}

	_, err := FetchAll(context.Background(), f, []types.SearchResult{{Rank: 1, URL: "https://fr.example"}}, zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterMessage("fetched page").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["chars"])
}
