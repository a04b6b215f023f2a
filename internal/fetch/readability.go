// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	DefaultMaxChars     = 20000
	DefaultMaxBodyBytes = 5 << 20
)

// ReadabilityFetcher downloads pages over HTTP and extracts the main article
// text with go-readability, falling back to a goquery pass when readability
// finds nothing.
type ReadabilityFetcher struct {
	Client *http.Client
	Config types.FetchConfig
}

// Fetch downloads rawURL and returns its readable text. Non-HTML responses,
// non-200 statuses and bodies over the size limit are errors.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) (types.Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return types.Page{}, fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return types.Page{}, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	cfg := f.Config
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Page{}, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en;q=0.9")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return types.Page{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Page{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}
	if ct := resp.Header.Get("Content-Type"); !isHTML(ct) {
		return types.Page{}, fmt.Errorf("unsupported content type %q", ct)
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return types.Page{}, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return types.Page{}, fmt.Errorf("body exceeds %d bytes", maxBytes)
	}

	// Relative links resolve against the final URL after redirects.
	pageURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}
	page, err := Parse(pageURL, body, cfg.MaxChars)
	if err != nil {
		return types.Page{}, err
	}
	page.URL = rawURL
	return page, nil
}

// Parse extracts readable text from an HTML document. It tries
// go-readability first and the goquery extractor second; when both find
// nothing it returns ErrNoText. Text is truncated to maxChars runes
// (DefaultMaxChars when maxChars is 0).
func Parse(pageURL *url.URL, html []byte, maxChars int) (types.Page, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	page := types.Page{URL: pageURL.String()}

	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err == nil {
		page.Title = strings.TrimSpace(article.Title)
		page.Byline = strings.TrimSpace(article.Byline)
		page.SiteName = strings.TrimSpace(article.SiteName)
		page.Text = normalizeText(article.TextContent)
		page.Extractor = types.ExtractorReadability
	}

	if page.Text == "" {
		title, text, qErr := extractWithGoquery(html)
		if qErr != nil && err != nil {
			return types.Page{}, fmt.Errorf("parsing HTML: %w", err)
		}
		if page.Title == "" {
			page.Title = title
		}
		page.Text = text
		page.Extractor = types.ExtractorGoquery
	}

	if page.Text == "" {
		return types.Page{}, ErrNoText
	}

	page.Text, page.Truncated = truncateRunes(page.Text, maxChars)
	return page, nil
}

// isHTML reports whether a Content-Type header names an HTML document. A
// missing header is accepted since many servers omit it.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// normalizeText collapses runs of spaces inside lines and runs of blank lines
// to a single blank line.
func normalizeText(s string) string {
	var b strings.Builder
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
			if blank {
				b.WriteString("\n")
			}
		}
		b.WriteString(line)
		blank = false
	}
	return b.String()
}

// truncateRunes cuts s to at most max runes.
func truncateRunes(s string, max int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return strings.TrimSpace(string(runes[:max])), true
}
