package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ganttline/internal/config"
	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/mcp"
	"github.com/rpggio/ganttline/internal/metrics"
	"github.com/rpggio/ganttline/internal/render"
	"github.com/rpggio/ganttline/internal/sqlite"
	"github.com/rpggio/ganttline/internal/transport"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := sqlite.OpenMemory(cfg.Store.Name)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	defaults, err := cfg.Chart.Settings()
	if err != nil {
		return fmt.Errorf("chart defaults: %w", err)
	}
	style := render.DefaultConfig()
	if cfg.Render.StylePath != "" {
		if style, err = render.LoadConfig(cfg.Render.StylePath); err != nil {
			return fmt.Errorf("render style: %w", err)
		}
	}

	projectRepo := sqlite.NewProjectRepository(db)
	chartRepo := sqlite.NewChartRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	if err := registerAPIKeys(ctx, keys, cfg.Auth); err != nil {
		return err
	}

	projectSvc := project.NewService(projectRepo, chartRepo, activityRepo, logger)
	chartSvc := chart.NewService(chartRepo, projectSvc, activityRepo, logger,
		chart.WithDefaults(defaults),
		chart.WithRenderConfig(style),
	)
	activitySvc := activity.NewService(activityRepo, logger)

	services := mcp.Services{
		Projects: projectSvc,
		Charts:   chartSvc,
		Activity: activitySvc,
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(keys)
	}
	router := transport.NewServer(mcp.NewHandler(services), auth,
		transport.WithRoute("/mcp", streamableHandler(mcpServer)),
		transport.WithPublicRoute("/metrics", metrics.Handler()),
		transport.WithRenderer(chartSvc),
		transport.WithLogger(logger),
	)
	return runHTTPMode(ctx, logger, router, net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)))
}

func registerAPIKeys(ctx context.Context, keys *sqlite.APIKeyRepository, auth config.AuthConfig) error {
	pairs, err := auth.APIKeys()
	if err != nil {
		return err
	}
	for token, tenantID := range pairs {
		if err := keys.Add(ctx, token, tenantID, "configured"); err != nil {
			return fmt.Errorf("register api key for %s: %w", tenantID, err)
		}
	}
	return nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func streamableHandler(mcpServer *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
