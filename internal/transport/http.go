package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/timeline"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, tenantID, sessionID, method string, params json.RawMessage) (any, error)
}

// ChartRenderer renders a tenant's chart as SVG.
type ChartRenderer interface {
	RenderSVG(ctx context.Context, tenantID string, req chart.TimelineRequest, w io.Writer) error
}

// Server wires HTTP handlers.
type Server struct {
	handler  MCPHandler
	renderer ChartRenderer
	logger   *slog.Logger
	public   map[string]http.Handler
	private  map[string]http.Handler
}

// Option configures the router.
type Option func(*Server)

// WithRenderer serves GET /chart.svg.
func WithRenderer(renderer ChartRenderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithPublicRoute mounts h at pattern outside authentication, e.g. /metrics.
func WithPublicRoute(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.public[pattern] = h
	}
}

// WithRoute mounts h at pattern behind authentication, e.g. the streamable MCP endpoint.
func WithRoute(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.private[pattern] = h
	}
}

// WithLogger logs failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, opts ...Option) *chi.Mux {
	srv := &Server{
		handler: handler,
		logger:  slog.New(slog.DiscardHandler),
		public:  make(map[string]http.Handler),
		private: make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(srv)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	for pattern, h := range srv.public {
		r.Handle(pattern, h)
	}

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		} else {
			r.Use(DefaultTenantMiddleware(DefaultTenant))
		}
		r.Use(SessionMiddleware)

		r.Post("/rpc", srv.handleMCP)
		if srv.renderer != nil {
			r.Get("/chart.svg", srv.handleSVG)
		}
		for pattern, h := range srv.private {
			r.Handle(pattern, h)
		}
		if _, ok := srv.private["/mcp"]; !ok {
			r.Post("/mcp", srv.handleMCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrorFor(err))
		return
	}

	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), tenantID, sessionID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		rpcErr := ErrorFor(err)
		if rpcErr.Code == CodeInternal {
			s.logger.Error("rpc failed", "method", req.Method, "tenant_id", tenantID, "request_id", middleware.GetReqID(r.Context()), "error", err)
		}
		WriteError(w, req.ID, rpcErr)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	req := chart.TimelineRequest{Granularity: q.Get("granularity")}
	if raw := q.Get("column_width"); raw != "" {
		width, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid column_width", http.StatusBadRequest)
			return
		}
		req.ColumnWidth = width
	}

	// Render fully before writing so errors can still set the status.
	var buf bytes.Buffer
	if err := s.renderer.RenderSVG(r.Context(), tenantID, req, &buf); err != nil {
		if errors.Is(err, chart.ErrInvalidSettings) || errors.Is(err, timeline.ErrUnknownGranularity) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("render failed", "tenant_id", tenantID, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}
