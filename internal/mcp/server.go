package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Rules         project.Rules // zero means project.DefaultRules
	Resolver      OwnerResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates an MCP server exposing the board tools and resources.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	rules := cfg.Rules
	if rules == (project.Rules{}) {
		rules = project.DefaultRules()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "projectboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerResources(server, cfg.Services.Projects, rules)
	registerTools(server, NewHandler(cfg.Services.Projects, cfg.Services.Activity))

	// The last middleware added runs first, so callers are known before logging.
	server.AddReceivingMiddleware(trafficLogger(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLogger(cfg.Logger, "outbound"))

	// Stdio is local-only, so tokens are only checked over HTTP.
	var resolver OwnerResolver
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		resolver = cfg.Resolver
	}
	server.AddReceivingMiddleware(ownerMiddleware(resolver))

	return server
}
