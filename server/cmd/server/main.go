package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/statuswatch/statuswatch/pkg/types"
	"github.com/statuswatch/statuswatch/server/internal/alerts"
	"github.com/statuswatch/statuswatch/server/internal/api"
	"github.com/statuswatch/statuswatch/server/internal/auth"
	"github.com/statuswatch/statuswatch/server/internal/config"
	"github.com/statuswatch/statuswatch/server/internal/esstore"
	"github.com/statuswatch/statuswatch/server/internal/health"
	"github.com/statuswatch/statuswatch/server/internal/ingest"
	"github.com/statuswatch/statuswatch/server/internal/resolve"
	"github.com/statuswatch/statuswatch/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("statuswatch-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"elasticsearch", cfg.Server.Elasticsearch.Addresses,
		"services", cfg.Server.Services,
		"auth_mode", cfg.Server.Auth.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := types.NewRegistry(cfg.Server.Services...)

	// Elasticsearch-backed status store. The client connects lazily on first
	// use, so an unreachable cluster at startup is not fatal.
	store := esstore.New(esstore.Config{
		Addresses:    cfg.Server.Elasticsearch.Addresses,
		IndexPrefix:  cfg.Server.Elasticsearch.IndexPrefix,
		PingTimeout:  cfg.Server.Elasticsearch.PingTimeout,
		QueryTimeout: cfg.Server.Elasticsearch.QueryTimeout,
	})
	probe := health.New(store)

	// Alerts engine — evaluates rules on every accepted observation.
	alertEngine := alerts.New(cfg.Server.Alerts)

	gateway := ingest.New(registry, store, probe, alertEngine)
	resolver := resolve.New(registry, store, probe)

	// WebSocket hub — pushes the bulk status snapshot to connected clients.
	hub := ws.New(resolver, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/", api.New(registry, probe, gateway, resolver, alertEngine))

	handler := auth.Middleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		httpMux,
	)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.HTTPHost, cfg.Server.HTTPPort),
		Handler: handler,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("statuswatch-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
