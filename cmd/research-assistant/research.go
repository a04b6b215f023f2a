// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/fetch"
	"github.com/pdiddy/research-assistant/internal/pipeline"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/internal/summarize"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const queryPrompt = "What would you like to research? "

var researchCmd = &cobra.Command{
	Use:   "research [query...]",
	Short: "Research a question and write a summarized report",
	Long: `Run the research pipeline for one question. Positional arguments are joined
into the query; with no arguments the question is read from stdin.

The pipeline searches the web, fetches and parses the top results, writes the
parsed text to the context file, and writes the LLM summary to the output file.
Both files are overwritten on every run.

With --repeat the command keeps prompting until "exit", "quit" or end of input.
A failed run prints its error and the prompt returns.`,
	RunE: runResearch,
}

func init() {
	addResearchFlags(researchCmd)
	rootCmd.AddCommand(researchCmd)
}

// addResearchFlags registers the pipeline flags shared by the root and
// research commands.
func addResearchFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("repeat", false, "keep prompting for queries until exit, quit or EOF")
	cmd.Flags().Bool("render", false, "render the summary as styled terminal markdown")
	cmd.Flags().Int("max-results", search.DefaultMaxResults, "maximum search results to fetch")
	cmd.Flags().String("model", summarize.DefaultModel, "language model used for the summary")
	cmd.Flags().String("context-file", pipeline.DefaultContextFile, "path of the context document")
	cmd.Flags().String("output-file", pipeline.DefaultOutputFile, "path of the research output document")
}

// runner executes one pipeline run. *pipeline.Pipeline satisfies it.
type runner interface {
	Run(ctx context.Context, query string) (*pipeline.Result, error)
}

// sessionOptions controls the interactive loop.
type sessionOptions struct {
	Repeat bool
	Render bool
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	repeat, _ := cmd.Flags().GetBool("repeat")
	render, _ := cmd.Flags().GetBool("render")
	opts := sessionOptions{Repeat: repeat, Render: render}

	if len(args) > 0 {
		return researchOnce(cmd.Context(), p, strings.Join(args, " "), cmd.OutOrStdout(), opts)
	}
	return session(cmd.Context(), p, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
}

// newPipeline wires the Tavily, readability and Groq delegates. Both API keys
// must resolve before any network call is made.
func newPipeline(cfg types.PipelineConfig) (*pipeline.Pipeline, error) {
	tavilyKey, err := resolver.Require(tavilyKeyName)
	if err != nil {
		return nil, err
	}
	groqKey, err := resolver.Require(groqKeyName)
	if err != nil {
		return nil, err
	}
	cfg.Search.APIKey = tavilyKey
	cfg.Summarizer.APIKey = groqKey

	client := &http.Client{}
	summarizer, err := summarize.NewGroqBackend(cfg.Summarizer, client)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Searcher:   &search.TavilyBackend{Client: client, Endpoint: cfg.Search.Endpoint},
		Fetcher:    &fetch.ReadabilityFetcher{Client: client, Config: cfg.Fetch},
		Summarizer: summarizer,
		Config:     cfg,
		Logger:     logger,
	}, nil
}

// session prompts for queries on in. Without Repeat it runs one query and
// returns its error. With Repeat it loops until exit, quit or EOF, printing
// run errors to errOut and continuing. Cancelling ctx ends the session while
// it waits for input: Repeat returns nil, a single prompt returns ctx.Err().
func session(ctx context.Context, r runner, in io.Reader, out, errOut io.Writer, opts sessionOptions) error {
	scanCtx, stopScan := context.WithCancel(ctx)
	defer stopScan()
	lines := scanLines(scanCtx, in)
	for {
		query, err := readQuery(ctx, lines, out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if opts.Repeat {
					fmt.Fprintln(out)
					return nil
				}
				return search.ErrEmptyQuery
			}
			if ctx.Err() != nil {
				fmt.Fprintln(out)
				if opts.Repeat {
					return nil
				}
				return ctx.Err()
			}
			return err
		}
		if isExit(query) {
			return nil
		}

		err = researchOnce(ctx, r, query, out, opts)
		if !opts.Repeat {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}

// line is one scanned input line, or the error that ended the input.
type line struct {
	text string
	err  error
}

// scanLines reads in on its own goroutine so a pending read never blocks
// cancellation. The channel closes after the final io.EOF or read error; the
// goroutine stops sending once ctx is done.
func scanLines(ctx context.Context, in io.Reader) <-chan line {
	lines := make(chan line)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- line{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		} else {
			err = fmt.Errorf("reading query: %w", err)
		}
		select {
		case lines <- line{err: err}:
		case <-ctx.Done():
		}
	}()
	return lines
}

// readQuery prints the prompt and returns the next trimmed input line. It
// returns io.EOF at end of input and ctx.Err() when ctx is cancelled first.
func readQuery(ctx context.Context, lines <-chan line, out io.Writer) (string, error) {
	fmt.Fprint(out, queryPrompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

func isExit(query string) bool {
	switch strings.ToLower(query) {
	case "exit", "quit":
		return true
	}
	return false
}

// researchOnce runs the pipeline for query and prints the summary and the
// files written.
func researchOnce(ctx context.Context, r runner, query string, out io.Writer, opts sessionOptions) error {
	res, err := r.Run(ctx, query)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoResults) || errors.Is(err, pipeline.ErrNoContent) {
			return fmt.Errorf("nothing to summarize for %q: %w", query, err)
		}
		return err
	}
	return printResult(res, out, opts.Render)
}

func printResult(res *pipeline.Result, out io.Writer, render bool) error {
	summary := res.Summary
	if render {
		rendered, err := renderMarkdown(summary)
		if err != nil {
			logger.Warn("rendering summary failed, printing raw markdown", zap.Error(err))
		} else {
			summary = rendered
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Research Result:")
	fmt.Fprintln(out, summary)
	fmt.Fprintln(out)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "Skipped %s: %v\n", f.URL, f.Err)
	}
	fmt.Fprintf(out, "Sources parsed: %d of %d\n", len(res.Pages), len(res.Search.Results))
	fmt.Fprintf(out, "Context written to %s\n", res.ContextPath)
	fmt.Fprintf(out, "Summary written to %s\n", res.OutputPath)
	return nil
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
