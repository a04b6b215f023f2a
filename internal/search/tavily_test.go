// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTavilyJSON = `{
  "query": "what is htmx",
  "answer": "htmx is a library that extends HTML with AJAX attributes.",
  "results": [
    {"title": "</> htmx - high power tools for html", "url": "https://htmx.org/", "content": "htmx gives you access to AJAX...", "score": 0.97},
    {"title": "htmx on GitHub", "url": "https://github.com/bigskysoftware/htmx", "content": "high power tools for HTML", "score": 0.81}
  ],
  "response_time": 1.42
}`

// tavilyTestServer records the decoded request body and auth header.
func tavilyTestServer(t *testing.T, status int, body string, gotReq *tavilyRequest, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		if gotReq != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(gotReq))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func withTavilyURL(t *testing.T, u string) {
	t.Helper()
	old := tavilySearchURL
	tavilySearchURL = u
	t.Cleanup(func() { tavilySearchURL = old })
}

func TestTavilyBackendSearch(t *testing.T) {
	var req tavilyRequest
	var auth string
	ts := tavilyTestServer(t, http.StatusOK, sampleTavilyJSON, &req, &auth)
	defer ts.Close()
	withTavilyURL(t, ts.URL)

	b := &TavilyBackend{Client: ts.Client()}
	out, err := b.Search(context.Background(), "what is htmx", testCfg())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tvly-test", auth)
	assert.Equal(t, tavilyRequest{Query: "what is htmx", MaxResults: 5, SearchDepth: "advanced", IncludeAnswer: true}, req)

	assert.Equal(t, "htmx is a library that extends HTML with AJAX attributes.", out.Answer)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "https://htmx.org/", out.Results[0].URL)
	assert.Equal(t, "htmx gives you access to AJAX...", out.Results[0].Snippet)
	assert.InDelta(t, 0.97, out.Results[0].Score, 1e-9)
}

func TestTavilyBackendCustomDepth(t *testing.T) {
	var req tavilyRequest
	ts := tavilyTestServer(t, http.StatusOK, `{"results": []}`, &req, nil)
	defer ts.Close()
	withTavilyURL(t, ts.URL)

	cfg := testCfg()
	cfg.Depth = "basic"
	cfg.MaxResults = 0
	cfg.IncludeAnswer = false

	b := &TavilyBackend{Client: ts.Client()}
	out, err := b.Search(context.Background(), "q", cfg)
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.Equal(t, "basic", req.SearchDepth)
	assert.Equal(t, DefaultMaxResults, req.MaxResults)
	assert.False(t, req.IncludeAnswer)
}

func TestTavilyBackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": {"error": "Unauthorized: missing or invalid API key."}}`, "HTTP 401"},
		{"server error", http.StatusInternalServerError, `oops`, "HTTP 500"},
		{"malformed json", http.StatusOK, `{not json`, "parsing tavily response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := tavilyTestServer(t, tt.status, tt.body, nil, nil)
			defer ts.Close()
			withTavilyURL(t, ts.URL)

			b := &TavilyBackend{Client: ts.Client()}
			_, err := b.Search(context.Background(), "q", testCfg())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTavilyBackendMissingKey(t *testing.T) {
	cfg := testCfg()
	cfg.APIKey = ""

	b := &TavilyBackend{}
	_, err := b.Search(context.Background(), "q", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is empty")
}
