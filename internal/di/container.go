package di

import (
	"context"
	"fmt"
	"time"

	"askseer-mcp/internal/adapter/mcpserver"
	"askseer-mcp/internal/application/port/input"
	"askseer-mcp/internal/application/port/output"
	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/browser/rod"
	"askseer-mcp/internal/infrastructure/config"
	"askseer-mcp/internal/infrastructure/llm/anthropic"
	"askseer-mcp/internal/infrastructure/llm/langchain"
	"askseer-mcp/internal/infrastructure/llm/openrouter"
	"askseer-mcp/internal/infrastructure/llm/sampling"
	"askseer-mcp/internal/infrastructure/logger"
	"askseer-mcp/internal/infrastructure/telemetry"
	"askseer-mcp/internal/usecase/evaluator"
)

type Container struct {
	Config    *config.Config
	Logger    output.LoggerPort
	Browser   *rod.BrowserAdapter
	Completer output.Completer
	Evaluator input.Evaluator
	Server    *mcpserver.Server
	Telemetry *telemetry.Telemetry
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: cfg.OTEL.Endpoint,
		Headers:  cfg.OTEL.Headers,
	})
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	completer, err := NewCompleter(cfg.LLM, log)
	if err != nil {
		_ = tel.Shutdown(ctx)
		_ = log.Close()
		return nil, err
	}

	browser := rod.NewBrowserAdapter(rod.BrowserConfig{
		Headless:       true,
		NoSandbox:      cfg.Browser.NoSandbox,
		Bin:            cfg.Browser.Bin,
		ControlURL:     cfg.Browser.ControlURL,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		MaxWidth:       cfg.Browser.MaxWidth,
	})

	uc, err := evaluator.New(browser, completer, log, evaluator.Config{
		OutputMode:        entity.OutputMode(cfg.OutputMode),
		MaxOutputTokens:   cfg.MaxOutputTokens,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
	},
		evaluator.WithMetrics(tel.Metrics),
		evaluator.WithTracer(tel.Tracer),
	)
	if err != nil {
		browser.Close()
		_ = tel.Shutdown(ctx)
		_ = log.Close()
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	log.Info("Container initialized",
		"provider", completer.Name(),
		"output_mode", cfg.OutputMode,
		"transport", cfg.Transport,
		"config_file", cfg.ConfigFile,
	)

	return &Container{
		Config:    cfg,
		Logger:    log,
		Browser:   browser,
		Completer: completer,
		Evaluator: uc,
		Server:    mcpserver.NewServer(uc, log),
		Telemetry: tel,
	}, nil
}

// NewCompleter selects the model backend named by cfg.Provider.
func NewCompleter(cfg config.LLMConfig, log output.LoggerPort) (output.Completer, error) {
	switch cfg.Provider {
	case config.ProviderSampling, "":
		return sampling.NewAdapter(log.Named("sampling")), nil
	case config.ProviderOpenRouter:
		orCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			orCfg.BaseURL = cfg.BaseURL
		}
		orCfg.Logger = log.Named("openrouter")
		return openrouter.NewOpenRouterAdapter(orCfg), nil
	case config.ProviderAnthropic:
		return anthropic.NewAdapter(anthropic.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		}), nil
	case config.ProviderLangChain:
		lc, err := langchain.NewAdapter(langchain.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create langchain completer: %w", err)
		}
		return lc, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.Telemetry.Shutdown(ctx); err != nil {
			c.Logger.Warn("Telemetry shutdown failed", "error", err)
		}
		cancel()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
