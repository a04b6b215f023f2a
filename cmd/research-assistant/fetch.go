// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch one page and print its readable text",
	Long: `Download a single URL and run the same extraction the pipeline uses:
go-readability first, then a plain HTML fallback. Prints the title and body
text, or the full page record with --json.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Bool("json", false, "output the page record as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	f := &fetch.ReadabilityFetcher{Client: &http.Client{}, Config: cfg.Fetch}
	page, err := f.Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	fmt.Fprintf(w, "Title:     %s\n", page.Title)
	if page.SiteName != "" {
		fmt.Fprintf(w, "Site:      %s\n", page.SiteName)
	}
	if page.Byline != "" {
		fmt.Fprintf(w, "Byline:    %s\n", page.Byline)
	}
	fmt.Fprintf(w, "Extractor: %s\n", page.Extractor)
	if page.Truncated {
		fmt.Fprintln(w, "Note:      text truncated")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, page.Text)
	return nil
}
