// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Extractor names the method that produced a page's text.
type Extractor string

const (
	ExtractorReadability Extractor = "readability"
	ExtractorGoquery     Extractor = "goquery"
)

// Page is the cleaned body text of one fetched URL.
type Page struct {
	// URL is the address that was fetched.
	URL string `json:"url" yaml:"url"`

	// Title is the extracted document title, falling back to the search
	// result title when the page has none.
	Title string `json:"title" yaml:"title"`

	// Byline is the author line, if the extractor found one.
	Byline string `json:"byline,omitempty" yaml:"byline,omitempty"`

	// SiteName is the publishing site, if the extractor found one.
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`

	// Text is the plain body text with whitespace normalized.
	Text string `json:"text" yaml:"text"`

	// Truncated reports whether Text was cut to the configured limit.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`

	// Extractor records which extraction method produced Text.
	Extractor Extractor `json:"extractor" yaml:"extractor"`
}

// FetchFailure records a URL the fetch stage skipped.
type FetchFailure struct {
	URL string `json:"url" yaml:"url"`
	Err string `json:"error" yaml:"error"`
}
