package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/projectboard/internal/mcp"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Options selects the optional endpoints of the router. A nil field disables
// the matching endpoint.
type Options struct {
	// Auth guards /rpc, /events and /mcp.
	Auth    func(http.Handler) http.Handler
	Board   Board
	Metrics http.Handler
	MCP     http.Handler
	Logger  *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler   RPCHandler
	board     Board
	logger    *slog.Logger
	heartbeat time.Duration
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler RPCHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		handler:   handler,
		board:     opts.Board,
		logger:    logger,
		heartbeat: 30 * time.Second,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Post("/rpc", srv.handleRPC)
		if srv.board != nil {
			r.Get("/events", srv.handleEvents)
		}
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	msgs, batch, err := ReadMessages(r.Body)
	if err != nil {
		if errors.Is(err, errParse) {
			writeJSON(w, http.StatusOK, NewError(nil, ErrParseCode, "parse error", nil))
			return
		}
		writeJSON(w, http.StatusOK, NewError(nil, ErrInvalidReq, "invalid request", nil))
		return
	}

	responses := make([]Response, 0, len(msgs))
	for _, msg := range msgs {
		if resp, ok := s.call(r.Context(), msg); ok {
			responses = append(responses, resp)
		}
	}

	switch {
	case len(responses) == 0:
		w.WriteHeader(http.StatusNoContent)
	case batch:
		writeJSON(w, http.StatusOK, responses)
	default:
		writeJSON(w, http.StatusOK, responses[0])
	}
}

// call runs one request. The bool is false for notifications.
func (s *Server) call(ctx context.Context, msg json.RawMessage) (Response, bool) {
	req, err := ParseRequest(msg)
	if err != nil {
		return NewError(nil, ErrInvalidReq, "invalid request", nil), true
	}

	owner, _ := OwnerFromContext(ctx)
	s.logger.DebugContext(ctx, "rpc call", "method", req.Method, "owner", owner, "notification", req.IsNotification())

	result, err := s.handler.Handle(ctx, req.Method, req.Params)
	if req.IsNotification() {
		if err != nil {
			s.logger.WarnContext(ctx, "rpc notification failed", "method", req.Method, "error", err)
		}
		return Response{}, false
	}
	if err != nil {
		return handlerError(req.ID, err), true
	}
	return NewResult(req.ID, result), true
}

func handlerError(id json.RawMessage, err error) Response {
	var apiErr *mcp.APIError
	switch {
	case errors.As(err, &apiErr):
		return NewError(id, ErrApplication, apiErr.Message, apiErr)
	case errors.Is(err, mcp.ErrUnknownMethod):
		return NewError(id, ErrMethodNotFound, err.Error(), nil)
	case errors.Is(err, mcp.ErrInvalidParams):
		return NewError(id, ErrInvalidParams, err.Error(), nil)
	default:
		return NewError(id, ErrInternal, err.Error(), nil)
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
