// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads search result pages and extracts their readable
// body text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// ErrNoText is returned when a page downloads but yields no readable text.
var ErrNoText = errors.New("no readable text")

// Fetcher downloads one URL and returns its cleaned body text.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (types.Page, error)
}

// Summary holds the outcome of fetching a batch of search results.
type Summary struct {
	Pages    []types.Page
	Failures []types.FetchFailure
}

// Fetched returns the number of pages that parsed successfully.
func (s Summary) Fetched() int { return len(s.Pages) }

// Failed returns the number of skipped URLs.
func (s Summary) Failed() int { return len(s.Failures) }

// FetchAll calls f once per result, in rank order. A URL that fails to
// download or parse is logged, recorded in Failures and skipped; the batch
// continues. Pages keep the search result title when the extractor found none.
// FetchAll stops early only when ctx is done, returning ctx.Err().
func FetchAll(ctx context.Context, f Fetcher, results []types.SearchResult, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var s Summary
	for _, r := range results {
		page, err := f.Fetch(ctx, r.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s, fmt.Errorf("fetching %s: %w", r.URL, ctxErr)
			}
			log.Warn("skipping page", zap.String("url", r.URL), zap.Int("rank", r.Rank), zap.Error(err))
			s.Failures = append(s.Failures, types.FetchFailure{URL: r.URL, Err: err.Error()})
			continue
		}
		if page.Title == "" {
			page.Title = r.Title
		}
		log.Debug("fetched page",
			zap.String("url", r.URL),
			zap.String("extractor", string(page.Extractor)),
			zap.Int("chars", utf8.RuneCountInString(page.Text)),
			zap.Bool("truncated", page.Truncated),
		)
		s.Pages = append(s.Pages, page)
	}
	return s, nil
}
