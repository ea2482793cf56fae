package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ganttline/internal/transport"
)

// DefaultTenant owns the chart when authentication is off.
const DefaultTenant = transport.DefaultTenant

// getTenantID returns the tenant the auth middleware resolved, or "".
func getTenantID(ctx context.Context) string {
	v, _ := transport.TenantFromContext(ctx)
	return v
}

func getSessionID(ctx context.Context) string {
	v, _ := transport.SessionIDFromContext(ctx)
	return v
}

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver = transport.TenantResolver

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake and notifications carry no tenant work.
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", transport.ErrUnauthorized)
			}

			token := bearerToken(extra.Header.Get("Authorization"))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", transport.ErrUnauthorized)
			}

			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil || tenantID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", transport.ErrUnauthorized)
			}

			ctx = transport.WithTenant(ctx, tenantID)
			return next(ctx, method, req)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// noAuthMiddleware injects a default tenant when auth is disabled.
func noAuthMiddleware(defaultTenant string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = transport.WithTenant(ctx, defaultTenant)
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware records which client session made a change, from the
// Mcp-Session-Id header (HTTP), _meta.session_id (stdio) or the SDK session.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string

			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				sessionID = strings.TrimSpace(extra.Header.Get(transport.SessionHeader))
			}
			if sessionID == "" {
				sessionID = metaSessionID(req)
			}
			if sessionID == "" {
				sessionID = safeSessionID(req)
			}

			if sessionID != "" {
				ctx = transport.WithSessionID(ctx, sessionID)
			}
			return next(ctx, method, req)
		}
	}
}

// metaSessionID reads _meta.session_id. Some notifications carry typed-nil
// params whose GetMeta panics.
func metaSessionID(req sdkmcp.Request) (sessionID string) {
	defer func() { recover() }()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	if sid, ok := params.GetMeta()["session_id"].(string); ok {
		return sid
	}
	return ""
}
