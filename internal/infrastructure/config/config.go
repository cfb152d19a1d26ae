// Package config resolves askseer settings.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by the caller)
//  2. Environment variables (ASKSEER_*)
//  3. YAML config file (--config, ASKSEER_CONFIG or ./askseer.yaml)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/env"

	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix         = "ASKSEER_"
	DefaultConfigFile = "askseer.yaml"

	TransportStdio = "stdio"
	TransportHTTP  = "http"

	ProviderSampling   = "sampling"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderLangChain  = "langchain"
)

type Config struct {
	Transport       string `yaml:"transport"`
	HTTPAddr        string `yaml:"http_addr"`
	MaxConnections  int    `yaml:"max_connections"`
	OutputMode      string `yaml:"output_mode"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`

	LLM     LLMConfig     `yaml:"llm"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
	OTEL    OTELConfig    `yaml:"otel"`

	// ConfigFile is the file that was loaded, empty if none.
	ConfigFile string `yaml:"-"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

type BrowserConfig struct {
	Bin               string        `yaml:"bin"`
	ControlURL        string        `yaml:"control_url"`
	NoSandbox         bool          `yaml:"no_sandbox"`
	ViewportWidth     int           `yaml:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height"`
	MaxWidth          int           `yaml:"max_width"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type OTELConfig struct {
	Endpoint string `yaml:"endpoint"`
	Headers  string `yaml:"headers"`
}

func Defaults() *Config {
	return &Config{
		Transport:       TransportStdio,
		HTTPAddr:        ":8080",
		OutputMode:      string(entity.OutputModeStructured),
		MaxOutputTokens: 1000,
		LLM: LLMConfig{
			Provider: ProviderSampling,
		},
		Browser: BrowserConfig{
			ViewportWidth:     1280,
			ViewportHeight:    800,
			MaxWidth:          1024,
			NavigationTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load applies defaults, then path (or the discovered config file), then
// the environment. An explicitly named file must exist.
func Load(e *env.EnvService, path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		if p, ok := e.Lookup("CONFIG"); ok {
			path, explicit = p, true
		} else {
			path = DefaultConfigFile
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	applyEnv(cfg, e)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, e *env.EnvService) {
	cfg.Transport = e.GetString("TRANSPORT", cfg.Transport)
	cfg.HTTPAddr = e.GetString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.MaxConnections = e.GetInt("MAX_CONNECTIONS", cfg.MaxConnections)
	cfg.OutputMode = e.GetString("OUTPUT_MODE", cfg.OutputMode)
	cfg.MaxOutputTokens = e.GetInt("MAX_OUTPUT_TOKENS", cfg.MaxOutputTokens)

	cfg.LLM.Provider = e.GetString("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.Model = e.GetString("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.BaseURL = e.GetString("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = e.GetString("LLM_API_KEY", cfg.LLM.APIKey)

	cfg.Browser.Bin = e.GetString("BROWSER_BIN", cfg.Browser.Bin)
	cfg.Browser.ControlURL = e.GetString("BROWSER_CONTROL_URL", cfg.Browser.ControlURL)
	cfg.Browser.NoSandbox = e.GetBool("BROWSER_NO_SANDBOX", cfg.Browser.NoSandbox)
	cfg.Browser.ViewportWidth = e.GetInt("BROWSER_VIEWPORT_WIDTH", cfg.Browser.ViewportWidth)
	cfg.Browser.ViewportHeight = e.GetInt("BROWSER_VIEWPORT_HEIGHT", cfg.Browser.ViewportHeight)
	cfg.Browser.MaxWidth = e.GetInt("BROWSER_MAX_WIDTH", cfg.Browser.MaxWidth)
	cfg.Browser.NavigationTimeout = e.GetDuration("NAVIGATION_TIMEOUT", cfg.Browser.NavigationTimeout)

	cfg.Log.Level = e.GetString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = e.GetString("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = e.GetString("LOG_FILE", cfg.Log.File)

	cfg.OTEL.Endpoint = e.GetString("OTEL_ENDPOINT", cfg.OTEL.Endpoint)
	cfg.OTEL.Headers = e.GetString("OTEL_HEADERS", cfg.OTEL.Headers)
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, http)", c.Transport)
	}

	if !entity.OutputMode(c.OutputMode).Valid() {
		return fmt.Errorf("unknown output mode %q (supported: structured, text)", c.OutputMode)
	}

	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("max_output_tokens must be positive, got %d", c.MaxOutputTokens)
	}

	switch c.LLM.Provider {
	case ProviderSampling:
	case ProviderOpenRouter, ProviderAnthropic, ProviderLangChain:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm provider %s requires an API key (ASKSEER_LLM_API_KEY)", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown llm provider %q (supported: sampling, openrouter, anthropic, langchain)", c.LLM.Provider)
	}

	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout must be positive")
	}
	if c.Browser.MaxWidth < 0 {
		return fmt.Errorf("browser max_width must not be negative")
	}

	return nil
}
