// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one research query through search, fetch, context
// synthesis and summarization, in that order, and writes the two output
// documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/fetch"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/internal/summarize"
	"github.com/pdiddy/research-assistant/internal/synthesis"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	DefaultContextFile = "research_context.md"
	DefaultOutputFile  = "research_output.md"
)

var (
	// ErrNoResults is returned when the search stage finds nothing to fetch.
	ErrNoResults = errors.New("search returned no results")

	// ErrNoContent is returned when every search result failed to fetch or parse.
	ErrNoContent = errors.New("no page could be fetched and parsed")
)

// Pipeline holds the three external delegates and the run configuration.
type Pipeline struct {
	Searcher   search.Backend
	Fetcher    fetch.Fetcher
	Summarizer summarize.Backend
	Config     types.PipelineConfig
	Logger     *zap.Logger
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Query       string
	Search      types.SearchOutput
	Pages       []types.Page
	Failures    []types.FetchFailure
	ContextPath string
	OutputPath  string
	Summary     string
	Elapsed     time.Duration
}

// Run executes the pipeline for query. Zero search results return
// ErrNoResults and every page failing returns ErrNoContent; neither writes a
// file. Any other stage error aborts the run. The context document is written
// before summarization, so it stays on disk when the summarizer fails.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	if p.Searcher == nil || p.Fetcher == nil || p.Summarizer == nil {
		return nil, fmt.Errorf("pipeline requires a searcher, a fetcher and a summarizer")
	}

	start := time.Now()
	res := &Result{
		RunID:       uuid.NewString(),
		Query:       query,
		ContextPath: p.Config.Output.ContextFile,
		OutputPath:  p.Config.Output.OutputFile,
	}
	if res.ContextPath == "" {
		res.ContextPath = DefaultContextFile
	}
	if res.OutputPath == "" {
		res.OutputPath = DefaultOutputFile
	}

	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", res.RunID))

	log.Info("searching", zap.String("query", query), zap.String("backend", p.Searcher.Name()))
	out, err := search.Search(ctx, query, p.Searcher, p.Config.Search)
	if err != nil {
		return nil, err
	}
	res.Search = out
	if len(out.Results) == 0 {
		return nil, ErrNoResults
	}
	log.Info("search complete", zap.Int("results", len(out.Results)), zap.Bool("answer", out.Answer != ""))

	fs, err := fetch.FetchAll(ctx, p.Fetcher, out.Results, log)
	if err != nil {
		return nil, err
	}
	res.Pages = fs.Pages
	res.Failures = fs.Failures
	log.Info("fetch complete", zap.Int("fetched", fs.Fetched()), zap.Int("failed", fs.Failed()))
	if fs.Fetched() == 0 {
		return nil, fmt.Errorf("%w: %d of %d pages failed", ErrNoContent, fs.Failed(), len(out.Results))
	}

	doc := synthesis.BuildContext(query, out.Answer, fs.Pages)
	if err := synthesis.WriteDocument(res.ContextPath, doc); err != nil {
		return nil, fmt.Errorf("writing context document: %w", err)
	}
	log.Info("context written", zap.String("path", res.ContextPath), zap.Int("bytes", len(doc)))

	summary, err := summarize.Summarize(ctx, p.Summarizer, query, doc)
	if err != nil {
		return nil, fmt.Errorf("summarizing: %w", err)
	}
	res.Summary = summary

	if err := synthesis.WriteDocument(res.OutputPath, summary); err != nil {
		return nil, fmt.Errorf("writing research output: %w", err)
	}

	res.Elapsed = time.Since(start)
	log.Info("research complete", zap.String("path", res.OutputPath), zap.Duration("elapsed", res.Elapsed))
	return res, nil
}
