// Command projectboard runs the project board as an MCP server, an HTTP
// service or an interactive terminal board.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/projectboard/internal/app"
	"github.com/rpggio/projectboard/internal/config"
)

var version = "dev"

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "projectboard",
		Short: "Track projects on an active/finished board",
		Long: `projectboard keeps a two-column board of projects. Projects are added
through a validated form and moved between the active and finished columns.

The board can be served over MCP (stdio or streamable HTTP) and JSON-RPC,
or used directly in the terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $PROJECTBOARD_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite journal path (overrides db.path)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	cmd.AddCommand(
		newServeCmd(opts),
		newBoardCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newMoveCmd(opts),
	)
	return cmd
}

// loadConfig reads the config file and environment, then applies flag
// overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv("PROJECTBOARD_CONFIG_PATH", o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.DB.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// openApp builds the application, logging to w unless a log file is set.
func openApp(ctx context.Context, cfg config.Config, w io.Writer) (*app.App, func(), error) {
	logger, closeLog := newLogger(cfg, w)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		closeLog()
	}
	return a, cleanup, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, func()) {
	closeLog := func() {}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			w = fileWriter
			closeLog = func() { _ = file.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeLog
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
