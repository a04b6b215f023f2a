// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI. The root
// command runs the full research pipeline: web search, page fetch and parse,
// context synthesis, and LLM summarization.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/research-assistant/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is replaced in PersistentPreRunE once --verbose is known.
	logger = zap.NewNop()

	// resolver holds API keys from the environment, .env and .secrets/.
	resolver = &secrets.Resolver{}
)

// rootCmd is the base command for the research-assistant CLI. Without a
// subcommand it behaves like "research".
var rootCmd = &cobra.Command{
	Use:   "research-assistant [query...]",
	Short: "Search the web, read the results, and summarize them with an LLM",
	Long: `research-assistant answers a research question in four steps: it searches
the web with Tavily, downloads and parses the top results, assembles their text
into a context document, and asks a Groq-hosted language model for a summary.

The context document and the summary are written as markdown files in the
working directory and overwritten on every run. API keys are read from
TAVILY_API_KEY and GROQ_API_KEY in the environment, a .env file, or .secrets/.

Query words after the program name are read as a subcommand first, so
"research-assistant search engines history" runs the search subcommand. Use
"research-assistant research <query>" when a question starts with search,
fetch, research, version or help.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l

		r, err := secrets.NewResolver(".env", ".secrets/")
		if err != nil {
			return err
		}
		resolver = r
		if path := viper.ConfigFileUsed(); path != "" {
			logger.Debug("using config file", zap.String("path", path))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runResearch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/research-assistant.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	addResearchFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	setDefaults(viper.GetViper())
	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

// newLogger builds a console logger on stderr. Verbose lowers the level to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// A second signal falls through to the default handler and kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
