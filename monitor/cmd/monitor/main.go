package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/statuswatch/statuswatch/monitor/internal/config"
	"github.com/statuswatch/statuswatch/monitor/internal/emitter"
	"github.com/statuswatch/statuswatch/monitor/internal/shipper"
	"github.com/statuswatch/statuswatch/monitor/internal/source"
	"github.com/statuswatch/statuswatch/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single check cycle and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("statuswatch-monitor starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"interval", cfg.Monitor.Interval,
		"transport", cfg.Monitor.Transport,
		"services", len(cfg.Monitor.Services),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var services []emitter.Service
	for _, svc := range cfg.Monitor.Services {
		checker, err := source.New(svc)
		if err != nil {
			slog.Error("skipping service — could not build checker", "service", svc.Name, "err", err)
			continue
		}
		services = append(services, emitter.Service{Name: svc.Name, Checker: checker})
		slog.Info("registered service", "name", svc.Name, "source", svc.Source)
	}
	if len(services) == 0 {
		slog.Error("no usable services configured")
		os.Exit(1)
	}

	var sink shipper.Sink
	switch cfg.Monitor.Transport {
	case "file":
		sink, err = shipper.NewFile(cfg.Monitor.OutputDir)
		if err != nil {
			slog.Error("failed to set up file sink", "err", err)
			os.Exit(1)
		}
	default:
		sink = shipper.NewAPI(
			cfg.Monitor.APIEndpoint,
			cfg.Monitor.Auth.EffectiveHeader(),
			cfg.Monitor.Auth.Key(),
		)
	}

	em := emitter.New(services, cfg.Monitor.HostName, sink, cfg.Monitor.Interval)

	if *once {
		em.RunCycle(ctx)
		return
	}

	// Watch the config file so statically declared statuses can be flipped
	// without a restart. Structural changes (new services, transport) still
	// require one.
	go func() {
		err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			for _, svc := range updated.Monitor.Services {
				if svc.Source != "static" && svc.Source != "" {
					continue
				}
				status := types.StatusUp
				if svc.Status != "" {
					status = types.Status(svc.Status)
				}
				if em.SetStatus(svc.Name, status) {
					slog.Info("static status updated", "service", svc.Name, "status", status)
				}
			}
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	em.Run(ctx)
	slog.Info("statuswatch-monitor shutting down")
}
