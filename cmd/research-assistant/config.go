// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/fetch"
	"github.com/pdiddy/research-assistant/internal/pipeline"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/internal/summarize"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	defaultUserAgent = "research-assistant/0.1"

	envPrefix = "RESEARCH_ASSISTANT"

	tavilyKeyName = "TAVILY_API_KEY"
	groqKeyName   = "GROQ_API_KEY"
)

// setDefaults registers every config key so file, environment and default
// values all reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("search.endpoint", "")
	v.SetDefault("search.user_agent", defaultUserAgent)
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.max_retries", 3)
	v.SetDefault("search.max_results", search.DefaultMaxResults)
	v.SetDefault("search.depth", "advanced")
	v.SetDefault("search.include_answer", true)

	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.timeout", 20*time.Second)
	v.SetDefault("fetch.max_retries", 1)
	v.SetDefault("fetch.max_chars", fetch.DefaultMaxChars)
	v.SetDefault("fetch.max_body_bytes", fetch.DefaultMaxBodyBytes)

	v.SetDefault("summarizer.base_url", summarize.DefaultBaseURL)
	v.SetDefault("summarizer.model", summarize.DefaultModel)
	v.SetDefault("summarizer.temperature", summarize.DefaultTemperature)
	v.SetDefault("summarizer.max_tokens", summarize.DefaultMaxTokens)
	v.SetDefault("summarizer.timeout", 120*time.Second)

	v.SetDefault("output.context_file", pipeline.DefaultContextFile)
	v.SetDefault("output.output_file", pipeline.DefaultOutputFile)
}

// configureEnv maps keys like search.max_results to RESEARCH_ASSISTANT_SEARCH_MAX_RESULTS.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig decodes the pipeline configuration from v.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Search.MaxResults < 0 {
		return types.PipelineConfig{}, fmt.Errorf("search.max_results must not be negative, got %d", cfg.Search.MaxResults)
	}
	if cfg.Summarizer.Temperature < 0 || cfg.Summarizer.Temperature > 2 {
		return types.PipelineConfig{}, fmt.Errorf("summarizer.temperature must be in [0,2], got %v", cfg.Summarizer.Temperature)
	}
	return cfg, nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	flags := cmd.Flags()
	if flags.Changed("max-results") {
		cfg.Search.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("model") {
		cfg.Summarizer.Model, _ = flags.GetString("model")
	}
	if flags.Changed("context-file") {
		cfg.Output.ContextFile, _ = flags.GetString("context-file")
	}
	if flags.Changed("output-file") {
		cfg.Output.OutputFile, _ = flags.GetString("output-file")
	}
}

// commandConfig loads the global config and applies cmd's flags.
func commandConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return types.PipelineConfig{}, err
	}
	applyFlags(cmd, &cfg)
	return cfg, nil
}
