package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/zoom-mcp/internal/config"
	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
	"github.com/teemow/zoom-mcp/internal/zoom"
)

// ServerContext holds what the MCP tools share across calls. Credentials are
// never stored here; every tool call builds its own zoom.Client.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	config      config.Config
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	userAgent   string

	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger handed to Zoom clients.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithAuditLogger sets the audit logger used by the tool wrappers.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.auditLogger = al }
}

// WithHTTPClient replaces the shared outbound HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(sc *ServerContext) {
		if hc != nil {
			sc.httpClient = hc
		}
	}
}

// WithUserAgent sets the default User-Agent for Zoom requests. A user agent
// from the configuration takes precedence.
func WithUserAgent(ua string) Option {
	return func(sc *ServerContext) { sc.userAgent = ua }
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, cfg config.Config, opts ...Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.httpClient == nil {
		// One transport for every call; otelhttp adds client spans.
		sc.httpClient = &http.Client{
			Timeout:   cfg.Zoom.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if cfg.Zoom.UserAgent != "" {
		sc.userAgent = cfg.Zoom.UserAgent
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the configuration the server was started with.
func (sc *ServerContext) Config() config.Config {
	return sc.config
}

// HTTPClient returns the shared outbound HTTP client.
func (sc *ServerContext) HTTPClient() *http.Client {
	return sc.httpClient
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// NewZoomClient builds a Zoom client for one tool call from the caller's
// credentials and the server-wide settings.
func (sc *ServerContext) NewZoomClient(creds zoom.Credentials) (*zoom.Client, error) {
	opts := []zoom.Option{
		zoom.WithHTTPClient(sc.httpClient),
		zoom.WithLogger(logging.NewSlogAdapter(sc.logger)),
		zoom.WithMetrics(sc.metrics),
		zoom.WithUserAgent(sc.userAgent),
	}
	if sc.config.Zoom.APIBaseURL != "" {
		opts = append(opts, zoom.WithBaseURL(sc.config.Zoom.APIBaseURL))
	}
	if sc.config.Zoom.TokenURL != "" {
		opts = append(opts, zoom.WithTokenURL(sc.config.Zoom.TokenURL))
	}

	return zoom.NewClient(creds, opts...)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
