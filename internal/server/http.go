package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default listen address for the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"
	// MCPEndpointPath is where the MCP endpoint is mounted.
	MCPEndpointPath = "/mcp"
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	Addr             string
	DisableStreaming bool

	// Health is required.
	Health *HealthChecker
	// Sessions is optional; without it mcp-go's default session handling is used.
	Sessions *SessionManager
	// Metrics may be nil.
	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// HTTPServer serves MCP over streamable HTTP plus the health probes.
type HTTPServer struct {
	config HTTPServerConfig
	router chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	closed     bool
}

// NewHTTPServer builds the router for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Health == nil {
		return nil, fmt.Errorf("health checker is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(MCPEndpointPath),
	}
	if config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	if config.Sessions != nil {
		opts = append(opts, mcpserver.WithSessionIdManager(config.Sessions))
	}
	streamable := mcpserver.NewStreamableHTTPServer(mcpServer, opts...)

	s := &HTTPServer{config: config}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metricsMiddleware)

	config.Health.RegisterHealthEndpoints(r)
	r.Handle(MCPEndpointPath, otelhttp.NewHandler(streamable, "mcp"))

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// metricsMiddleware records http_requests_total by route pattern so that
// unknown paths do not create new label values.
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	if s.config.Metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.config.Metrics.RecordHTTPRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// Start listens on the configured address and serves until Shutdown.
func (s *HTTPServer) Start() error {
	l, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(l)
}

// Serve serves on l until Shutdown and marks the server ready once
// accepting. http.ErrServerClosed is returned as nil.
func (s *HTTPServer) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: a transcript call may download many files.
		IdleTimeout: 120 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = l.Close()
		return nil
	}
	s.httpServer = srv
	s.listener = l
	s.mu.Unlock()

	s.config.Logger.Info("starting streamable HTTP server",
		"addr", l.Addr().String(),
		"endpoint", MCPEndpointPath,
		"streaming", !s.config.DisableStreaming,
	)
	s.config.Health.SetReady(true)

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.config.Health.SetReady(false)
	if s.config.Sessions != nil {
		s.config.Sessions.Stop()
	}

	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once serving, otherwise the configured one.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}
