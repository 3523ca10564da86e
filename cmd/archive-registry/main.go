package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"archive-registry/internal/adapter/handler/cli"
	"archive-registry/internal/adapter/probe"
	"archive-registry/internal/adapter/storage/archive"
	"archive-registry/internal/adapter/storage/memory"
	"archive-registry/internal/application"
	"archive-registry/internal/config"
	"archive-registry/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, loadServices); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// loadServices wires the application for a single command run.
func loadServices(ctx context.Context, configPath string) (*cli.Services, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	// One-shot commands never need a background reload.
	cfg.Registry.RefreshInterval = 0

	appLogger := logger.New(cfg.Logger, os.Stderr)

	source := archive.NewSource(cfg.Registry, appLogger)
	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)
	store := application.NewStore(source, cacheRepo, cfg.Cache.GetDefaultExpiration(), appLogger)
	prober := probe.NewProber(cfg.Probe, appLogger)

	services := &cli.Services{
		Registry:    application.NewRegistryService(ctx, store, appLogger, *cfg),
		Maintenance: application.NewMaintenanceService(store, prober, appLogger, *cfg),
		Writer:      archive.NewFileRepository(cfg.Registry.Dir, appLogger),
	}
	return services, func() { _ = appLogger.Sync() }, nil
}
