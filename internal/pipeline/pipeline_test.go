// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/fetch"
	"github.com/pdiddy/research-assistant/internal/summarize"
	"github.com/pdiddy/research-assistant/internal/synthesis"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// --- fakes ---

type fakeSearcher struct {
	results []types.SearchResult
	answer  string
	err     error
	queries []string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, query string, _ types.SearchConfig) (types.SearchOutput, error) {
	f.queries = append(f.queries, query)
	return types.SearchOutput{Answer: f.answer, Results: f.results}, f.err
}

type fakeFetcher struct {
	failing map[string]bool
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (types.Page, error) {
	f.calls = append(f.calls, rawURL)
	if f.failing[rawURL] {
		return types.Page{}, fetch.ErrNoText
	}
	return types.Page{URL: rawURL, Title: "Title of " + rawURL, Text: "body text from " + rawURL}, nil
}

type fakeSummarizer struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeSummarizer) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func urls(n int) []types.SearchResult {
	var rs []types.SearchResult
	for i := 1; i <= n; i++ {
		rs = append(rs, types.SearchResult{Title: fmt.Sprintf("Result %d", i), URL: fmt.Sprintf("https://site%d.example/page", i)})
	}
	return rs
}

func newTestPipeline(t *testing.T, s *fakeSearcher, f *fakeFetcher, sum *fakeSummarizer) *Pipeline {
	t.Helper()
	dir := t.TempDir()
	return &Pipeline{
		Searcher:   s,
		Fetcher:    f,
		Summarizer: sum,
		Config: types.PipelineConfig{
			Search: types.SearchConfig{MaxResults: 5},
			Output: types.OutputConfig{
				ContextFile: filepath.Join(dir, DefaultContextFile),
				OutputFile:  filepath.Join(dir, DefaultOutputFile),
			},
		},
		Logger: zap.NewNop(),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// --- properties ---

func TestRunSearchesOnceWithExactQuery(t *testing.T) {
	s := &fakeSearcher{results: urls(3)}
	p := newTestPipeline(t, s, &fakeFetcher{}, &fakeSummarizer{reply: "summary"})

	query := "How do LLM agents use tools?"
	_, err := p.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []string{query}, s.queries)
}

func TestRunFetchesEachBoundedResult(t *testing.T) {
	s := &fakeSearcher{results: urls(8)}
	f := &fakeFetcher{}
	p := newTestPipeline(t, s, f, &fakeSummarizer{reply: "summary"})

	res, err := p.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, f.calls, 5, "fetch count equals the top-N bounded result count")
	assert.Len(t, res.Search.Results, 5)
	assert.Len(t, res.Pages, 5)
}

func TestRunContextExcludesFailedPages(t *testing.T) {
	s := &fakeSearcher{results: urls(4)}
	f := &fakeFetcher{failing: map[string]bool{"https://site2.example/page": true}}
	p := newTestPipeline(t, s, f, &fakeSummarizer{reply: "summary"})

	res, err := p.Run(context.Background(), "q")
	require.NoError(t, err)

	doc := readFile(t, res.ContextPath)
	for _, u := range []string{"https://site1.example/page", "https://site3.example/page", "https://site4.example/page"} {
		assert.Contains(t, doc, "body text from "+u)
	}
	assert.NotContains(t, doc, "site2.example")
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "https://site2.example/page", res.Failures[0].URL)
}

func TestRunSummarizerGetsContextAndQuery(t *testing.T) {
	s := &fakeSearcher{results: urls(2), answer: "Short answer."}
	sum := &fakeSummarizer{reply: "## Overview\nDone."}
	p := newTestPipeline(t, s, &fakeFetcher{}, sum)

	res, err := p.Run(context.Background(), "agents and tools")
	require.NoError(t, err)

	doc := synthesis.BuildContext("agents and tools", "Short answer.", res.Pages)
	assert.Equal(t, strings.TrimRight(doc, "\n"), strings.TrimRight(readFile(t, res.ContextPath), "\n"))

	want, err := summarize.RenderPrompt("agents and tools", doc)
	require.NoError(t, err)
	require.Len(t, sum.prompts, 1)
	assert.Equal(t, want, sum.prompts[0])
	assert.Equal(t, "## Overview\nDone.\n", readFile(t, res.OutputPath))
	assert.Equal(t, "## Overview\nDone.", res.Summary)
}

func TestRunOverwritesOutputs(t *testing.T) {
	s := &fakeSearcher{results: urls(1)}
	sum := &fakeSummarizer{reply: "first summary"}
	p := newTestPipeline(t, s, &fakeFetcher{}, sum)

	_, err := p.Run(context.Background(), "first query")
	require.NoError(t, err)

	sum.reply = "second summary"
	res, err := p.Run(context.Background(), "second query")
	require.NoError(t, err)

	out := readFile(t, res.OutputPath)
	assert.Equal(t, "second summary\n", out)
	doc := readFile(t, res.ContextPath)
	assert.Contains(t, doc, "second query")
	assert.NotContains(t, doc, "first query")
}

func TestRunNoResults(t *testing.T) {
	s := &fakeSearcher{}
	f := &fakeFetcher{}
	sum := &fakeSummarizer{reply: "x"}
	p := newTestPipeline(t, s, f, sum)

	_, err := p.Run(context.Background(), "obscure")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Empty(t, f.calls)
	assert.Empty(t, sum.prompts)
	assert.NoFileExists(t, p.Config.Output.ContextFile)
	assert.NoFileExists(t, p.Config.Output.OutputFile)
}

func TestRunAllPagesFail(t *testing.T) {
	s := &fakeSearcher{results: urls(2)}
	f := &fakeFetcher{failing: map[string]bool{
		"https://site1.example/page": true,
		"https://site2.example/page": true,
	}}
	sum := &fakeSummarizer{reply: "x"}
	p := newTestPipeline(t, s, f, sum)

	_, err := p.Run(context.Background(), "q")
	require.ErrorIs(t, err, ErrNoContent)
	assert.Contains(t, err.Error(), "2 of 2 pages failed")
	assert.Empty(t, sum.prompts)
	assert.NoFileExists(t, p.Config.Output.ContextFile)
}

func TestRunSearchFailureAborts(t *testing.T) {
	s := &fakeSearcher{err: errors.New("401 unauthorized")}
	f := &fakeFetcher{}
	p := newTestPipeline(t, s, f, &fakeSummarizer{})

	_, err := p.Run(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
	assert.Empty(t, f.calls)
}

func TestRunSummarizerFailureKeepsPreviousOutput(t *testing.T) {
	s := &fakeSearcher{results: urls(1)}
	sum := &fakeSummarizer{reply: "good summary"}
	p := newTestPipeline(t, s, &fakeFetcher{}, sum)

	_, err := p.Run(context.Background(), "q")
	require.NoError(t, err)

	sum.err = errors.New("model unavailable")
	_, err = p.Run(context.Background(), "q again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizing")
	assert.Equal(t, "good summary\n", readFile(t, p.Config.Output.OutputFile))
}

func TestRunEmptyQuery(t *testing.T) {
	s := &fakeSearcher{results: urls(1)}
	p := newTestPipeline(t, s, &fakeFetcher{}, &fakeSummarizer{})

	_, err := p.Run(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, s.queries)
}

func TestRunRequiresDelegates(t *testing.T) {
	p := &Pipeline{}
	_, err := p.Run(context.Background(), "q")
	assert.Error(t, err)
}
