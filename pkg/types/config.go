package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single request, including retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey authenticates against the search service.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`

	// Endpoint overrides the search API URL. Empty means the public service.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// MaxResults is the top-N bound on results passed downstream (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Depth is the search depth: "basic" or "advanced" (default "advanced").
	Depth string `json:"depth" yaml:"depth" mapstructure:"depth"`

	// IncludeAnswer asks the service for a short synthesized answer.
	IncludeAnswer bool `json:"include_answer" yaml:"include_answer" mapstructure:"include_answer"`
}

// FetchConfig holds settings for the fetch and parse stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxChars truncates extracted text per page (default 20000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// MaxBodyBytes caps the downloaded HTML size (default 5 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// SummarizerConfig holds settings for the language model stage.
type SummarizerConfig struct {
	// BaseURL is the OpenAI-compatible API root (default Groq).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey authenticates against the language model service.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`

	// Model is the hosted model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Temperature is the sampling temperature (default 0.5).
	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the generated summary length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds the completion call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig names the two markdown files a run writes.
type OutputConfig struct {
	// ContextFile is the context document path (default "research_context.md").
	ContextFile string `json:"context_file" yaml:"context_file" mapstructure:"context_file"`

	// OutputFile is the research output document path (default "research_output.md").
	OutputFile string `json:"output_file" yaml:"output_file" mapstructure:"output_file"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Summarizer SummarizerConfig `json:"summarizer" yaml:"summarizer" mapstructure:"summarizer"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
}
