package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"askseer-mcp/internal/di"
	"askseer-mcp/internal/infrastructure/config"
	"askseer-mcp/internal/infrastructure/telemetry"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
)

func newServeCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server on stdio (default) or streamable HTTP.

On stdio, stdout carries the protocol; logs go to stderr or --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.transport, "transport", "", "stdio or http")
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", "", "listen address for the http transport (default :8080)")
	cmd.Flags().IntVar(&f.maxConnections, "max-connections", 0, "max concurrent HTTP connections, 0 for no limit")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.Version = Version

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if cfg.Transport == config.TransportHTTP {
		return serveHTTP(ctx, container, cfg)
	}

	err = container.Server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("MCP server stopped", "error", err)
		return err
	}
	container.Logger.Info("MCP server stopped")
	return nil
}

func serveHTTP(ctx context.Context, container *di.Container, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}

	srv := &http.Server{
		Handler:           container.Server.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	container.Logger.Info("MCP server is running",
		"transport", config.TransportHTTP,
		"addr", ln.Addr().String(),
		"endpoint", "/mcp",
		"max_connections", cfg.MaxConnections,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	container.Logger.Info("MCP server stopped")
	return nil
}
