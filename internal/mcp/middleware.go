package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const ownerKey contextKey = iota

// localOwner is the caller identity when no token is checked.
const localOwner = "local"

// maxLoggedPayload caps the bytes of a request or result written to the log.
const maxLoggedPayload = 2048

var errUnauthorized = errors.New("unauthorized")

// OwnerResolver resolves the owner of a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

func ownerFrom(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey).(string)
	return v
}

// handshake methods run before a client can present credentials.
func isHandshake(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// ownerMiddleware stamps every request with its caller. With a resolver the
// caller comes from the bearer token; without one every request is local.
func ownerMiddleware(resolver OwnerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if resolver == nil {
				return next(context.WithValue(ctx, ownerKey, localOwner), method, req)
			}
			if isHandshake(method) {
				return next(ctx, method, req)
			}
			owner, err := ownerFromRequest(ctx, resolver, req)
			if err != nil {
				return nil, err
			}
			return next(context.WithValue(ctx, ownerKey, owner), method, req)
		}
	}
}

func ownerFromRequest(ctx context.Context, resolver OwnerResolver, req sdkmcp.Request) (string, error) {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: no request headers", errUnauthorized)
	}
	token, ok := strings.CutPrefix(extra.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}
	owner, err := resolver.ResolveOwner(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	if owner == "" {
		return "", fmt.Errorf("%w: invalid bearer token", errUnauthorized)
	}
	return owner, nil
}

// trafficLogger writes each request and its result at debug level.
func trafficLogger(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			call := slog.Group("call", "direction", direction, "method", method, "owner", ownerFrom(ctx))
			logger.Debug("mcp request", call, "params", payloadString(paramsOf(req)))

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			if err != nil {
				logger.Debug("mcp error", call, "error", err)
			} else {
				logger.Debug("mcp result", call, "result", payloadString(result))
			}
			return result, err
		}
	}
}

// paramsOf tolerates requests whose params are a typed nil.
func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func payloadString(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return string(data[:maxLoggedPayload]) + "...(truncated)"
	}
	return string(data)
}
