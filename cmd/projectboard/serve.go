package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/rpggio/projectboard/internal/app"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		mode string
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over MCP and JSON-RPC",
		Long: `Serve the board.

In stdio mode the MCP protocol is spoken on stdin/stdout and logs go to stderr.
In http mode the router exposes:

  POST /rpc      JSON-RPC 2.0 board commands
  GET  /events   server-sent events with a snapshot per change
  GET  /metrics  Prometheus metrics
  GET  /health   liveness
  /mcp           streamable MCP`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport.Mode = mode
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Keep stdout clean for JSON-RPC in stdio mode.
			logWriter := io.Writer(os.Stdout)
			if cfg.Transport.Mode == "stdio" {
				logWriter = os.Stderr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, cfg, logWriter)
			if err != nil {
				return err
			}
			defer cleanup()

			if cfg.Transport.Mode == "stdio" {
				return runStdio(ctx, a)
			}
			return runHTTP(ctx, a, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
		},
	}
	cmd.Flags().StringVarP(&mode, "transport", "t", "http", "stdio or http")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	return cmd
}

func runStdio(ctx context.Context, a *app.App) error {
	a.Logger.Info("starting stdio transport", "auth", "disabled", "projects", a.State.Len())

	// Run blocks until stdin closes or ctx is canceled.
	err := a.MCPServer(version).Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	a.Logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, a *app.App, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.HTTPHandler(version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", "addr", addr, "auth", a.Config.Auth.Enabled, "projects", a.State.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return shutdown(a.Logger, httpServer)
}

func shutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
