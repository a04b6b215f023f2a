// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run the web search step only",
	Long: `Search the web with Tavily and print the ranked results without fetching
or summarizing them. Output is a table by default; --json and --yaml emit the
full result set including Tavily's short answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", search.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("yaml", false, "output results as YAML")
	searchCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	key, err := resolver.Require(tavilyKeyName)
	if err != nil {
		return err
	}
	cfg.Search.APIKey = key

	backend := &search.TavilyBackend{Client: &http.Client{}, Endpoint: cfg.Search.Endpoint}
	out, err := search.Search(cmd.Context(), strings.Join(args, " "), backend, cfg.Search)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON:
		return search.FormatJSON(out, w)
	case asYAML:
		return search.FormatYAML(out, w)
	}
	search.FormatTable(out, w)
	return nil
}
