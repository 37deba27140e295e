// Package app assembles the board, its subscribers and its services from
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nats-io/nats.go"

	"github.com/rpggio/projectboard/internal/config"
	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/rpggio/projectboard/internal/events"
	"github.com/rpggio/projectboard/internal/mcp"
	"github.com/rpggio/projectboard/internal/metrics"
	"github.com/rpggio/projectboard/internal/sqlite"
	"github.com/rpggio/projectboard/internal/transport"
)

// App owns every long-lived component of a running board.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	DB       *sqlite.DB
	State    *project.State
	Projects *project.Service
	Activity *activity.Service
	APIKeys  *sqlite.APIKeyRepository
	Metrics  *metrics.Metrics

	nc   *nats.Conn
	subs []*project.Subscription
}

// New opens the journal, restores the board and attaches the subscribers.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		State:   project.NewState(),
		APIKeys: sqlite.NewAPIKeyRepository(db),
	}

	journal := project.NewJournal(sqlite.NewProjectRepository(db), logger)
	if err := journal.Load(ctx, a.State); err != nil {
		_ = db.Close()
		return nil, err
	}

	a.Projects = project.NewService(a.State, cfg.Validation.Rules(), logger)
	a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
	a.Metrics = metrics.New(a.State)

	// activity_log references projects, so the journal must see a change first.
	a.subs = append(a.subs,
		journal.Attach(a.State),
		activity.NewRecorder(a.Activity).Attach(a.State),
		a.Metrics.Attach(a.State),
	)

	if cfg.Events.NATSURL != "" {
		nc, err := events.Connect(cfg.Events.NATSURL, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.nc = nc
		a.subs = append(a.subs, events.NewPublisher(nc, cfg.Events.SubjectPrefix, logger).Attach(a.State))
		logger.Info("publishing board changes", "nats_url", cfg.Events.NATSURL, "prefix", cfg.Events.SubjectPrefix)
	}

	logger.Info("board ready", "db", db.Path(), "in_memory", db.InMemory(), "projects", a.State.Len())
	return a, nil
}

// MCPServer builds an MCP server over the app services.
func (a *App) MCPServer(version string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			Activity: a.Activity,
		},
		Rules:         a.Config.Validation.Rules(),
		Resolver:      a.APIKeys,
		AuthEnabled:   a.Config.Auth.Enabled,
		TransportMode: a.Config.Transport.Mode,
		Version:       version,
		Logger:        a.Logger,
	})
}

// HTTPHandler builds the HTTP router: JSON-RPC, health, metrics, the event
// stream and streamable MCP.
func (a *App) HTTPHandler(version string) http.Handler {
	mcpServer := a.MCPServer(version)
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
			Logger:         a.Logger,
		},
	)

	var auth func(http.Handler) http.Handler
	if a.Config.Auth.Enabled {
		auth = transport.AuthMiddleware(a.APIKeys)
	}

	return transport.NewServer(mcp.NewHandler(a.Projects, a.Activity), transport.Options{
		Auth:    auth,
		Board:   a.State,
		Metrics: a.Metrics.Handler(),
		MCP:     mcpHandler,
		Logger:  a.Logger,
	})
}

// Close detaches the subscribers and releases connections.
func (a *App) Close() error {
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	a.subs = nil

	var errs []error
	if a.nc != nil {
		if err := a.nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, fmt.Errorf("drain nats: %w", err))
		}
		a.nc = nil
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		a.DB = nil
	}
	return errors.Join(errs...)
}
