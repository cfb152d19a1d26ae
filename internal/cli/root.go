// Package cli implements the askseer command line.
package cli

import (
	"os"

	"askseer-mcp/internal/infrastructure/config"
	"askseer-mcp/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X askseer-mcp/internal/cli.Version=...".
var Version = "dev"

type flags struct {
	configFile string

	transport      string
	httpAddr       string
	maxConnections int

	provider  string
	model     string
	baseURL   string
	apiKey    string
	maxTokens int

	outputMode string
	logLevel   string
	noSandbox  bool
}

func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "askseer",
		Short: "MCP server that evaluates user interfaces against usability heuristics",
		Long: `askseer serves one MCP tool, "evaluate". Given a URL or a PNG screenshot it
renders the page in headless Chromium when needed and asks a language model to
judge the UI against Nielsen's ten usability heuristics.

By default the model is reached through the MCP client (sampling), so the
server needs no API key of its own.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default: $ASKSEER_CONFIG or ./askseer.yaml)")
	pf.StringVar(&f.provider, "provider", "", "model backend: sampling, openrouter, anthropic, langchain")
	pf.StringVar(&f.model, "model", "", "model name for API backends")
	pf.StringVar(&f.baseURL, "base-url", "", "override the model API base URL")
	pf.StringVar(&f.apiKey, "api-key", "", "model API key")
	pf.IntVar(&f.maxTokens, "max-tokens", 0, "max completion tokens (default 1000)")
	pf.StringVar(&f.outputMode, "output-mode", "", "structured or text")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&f.noSandbox, "no-sandbox", false, "run Chromium without its sandbox (containers)")

	root.AddCommand(
		newServeCommand(f),
		newEvaluateCommand(f),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults, file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(env.NewEnvService(config.EnvPrefix), f.configFile)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("transport") {
		cfg.Transport = f.transport
	}
	if changed("http-addr") {
		cfg.HTTPAddr = f.httpAddr
	}
	if changed("max-connections") {
		cfg.MaxConnections = f.maxConnections
	}
	if changed("provider") {
		cfg.LLM.Provider = f.provider
	}
	if changed("model") {
		cfg.LLM.Model = f.model
	}
	if changed("base-url") {
		cfg.LLM.BaseURL = f.baseURL
	}
	if changed("api-key") {
		cfg.LLM.APIKey = f.apiKey
	}
	if changed("max-tokens") {
		cfg.MaxOutputTokens = f.maxTokens
	}
	if changed("output-mode") {
		cfg.OutputMode = f.outputMode
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("no-sandbox") {
		cfg.Browser.NoSandbox = f.noSandbox
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
