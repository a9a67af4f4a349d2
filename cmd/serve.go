package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/zoom-mcp/internal/config"
	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
	"github.com/teemow/zoom-mcp/internal/server"
	"github.com/teemow/zoom-mcp/internal/tools/zoom_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	providerShutdownTimeout = 10 * time.Second
)

// serveOptions holds the resolved serve flags.
type serveOptions struct {
	transport        string
	httpAddr         string
	configPath       string
	debug            bool
	disableStreaming bool

	metricsEnabled bool
	metricsAddr    string

	// onListen is called with the bound MCP address in streamable-http mode.
	onListen func(addr string)
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the Zoom recording tools:
zoom_refresh_token, zoom_list_recordings, zoom_get_recording_details and
zoom_get_meeting_transcript.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp, with /healthz and /readyz

Configuration:
  --config FILE or ZOOM_MCP_CONFIG points at an optional YAML file. ZOOM_API_BASE_URL,
  ZOOM_TOKEN_URL, ZOOM_REQUEST_TIMEOUT, ZOOM_USER_AGENT, LOG_LEVEL and LOG_FORMAT
  override it.

Metrics:
  In streamable-http mode Prometheus metrics are served on a dedicated port
  (--metrics-addr, default :9090). METRICS_ENABLED and METRICS_ADDR apply when
  the flags are not set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeEnv(cmd, &opts)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runServe(ctx, opts, os.Stdin, os.Stdout, os.Stderr)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file. Can also use ZOOM_MCP_CONFIG env var.")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable SSE streaming for the streamable-http transport")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyServeEnv fills metrics options from the environment when the
// corresponding flag was not set explicitly.
func applyServeEnv(cmd *cobra.Command, opts *serveOptions) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED")); err == nil {
			opts.metricsEnabled = v
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metricsAddr = addr
		}
	}
}

func runServe(ctx context.Context, opts serveOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.transport != transportStdio && opts.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if opts.debug {
		level = slog.LevelDebug
	}
	// stdout belongs to the stdio transport.
	logger := logging.NewLogger(stderr, level, cfg.Log.Format)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), providerShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	scOpts := []server.Option{
		server.WithLogger(logger),
		server.WithUserAgent("zoom-mcp/" + version),
	}
	if provider.Enabled() {
		scOpts = append(scOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		)
	}

	serverContext, err := server.NewServerContext(ctx, cfg, scOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	logger.Info("starting zoom-mcp",
		"version", version,
		"transport", opts.transport,
		"api_base_url", cfg.Zoom.APIBaseURL,
	)

	if opts.transport == transportStdio {
		return runStdioServer(ctx, mcpSrv, stdin, stdout, logger)
	}
	return runStreamableHTTPServer(ctx, mcpSrv, serverContext, provider, opts, logger)
}

// newMCPServer creates the MCP server with every Zoom tool registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("zoom-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	if err := zoom_tools.RegisterZoomTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Zoom tools: %w", err)
	}
	return mcpSrv, nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, stdin, stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, opts serveOptions, logger *slog.Logger) error {
	sessions := server.NewSessionManager(logger)
	health := server.NewHealthChecker(sc, version).WithSessions(sessions)

	httpSrv, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Addr:             opts.httpAddr,
		DisableStreaming: opts.disableStreaming,
		Health:           health,
		Sessions:         sessions,
		Metrics:          sc.Metrics(),
		Logger:           logger,
	})
	if err != nil {
		sessions.Stop()
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	var metricsSrv *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() {
		metricsSrv, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			InstrumentationProvider: provider,
			Logger:                  logger,
		})
		if err != nil {
			sessions.Stop()
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	httpListener, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		sessions.Stop()
		return fmt.Errorf("failed to listen on %s: %w", opts.httpAddr, err)
	}

	var metricsListener net.Listener
	if metricsSrv != nil {
		metricsListener, err = net.Listen("tcp", opts.metricsAddr)
		if err != nil {
			_ = httpListener.Close()
			sessions.Stop()
			return fmt.Errorf("metrics server failed to start: %w", err)
		}
		logger.Info("metrics endpoint", "url", "http://"+metricsListener.Addr().String()+"/metrics")
	}

	if opts.onListen != nil {
		opts.onListen(httpListener.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpSrv.Serve(httpListener)
	})
	if metricsSrv != nil {
		g.Go(func() error {
			return metricsSrv.Serve(metricsListener)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		var errs []error
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("error shutting down metrics server: %w", err))
			}
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down HTTP server: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}
