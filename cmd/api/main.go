package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	deliveryHttp "archive-registry/internal/adapter/delivery/http"
	handlerHttp "archive-registry/internal/adapter/handler/http"
	"archive-registry/internal/adapter/storage/archive"
	"archive-registry/internal/adapter/storage/memory"
	"archive-registry/internal/application"
	"archive-registry/internal/config"
	"archive-registry/internal/logger"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	appLogger.Info("Initializing dependencies...", zap.String("registrySource", cfg.Registry.Source))

	source := archive.NewSource(cfg.Registry, appLogger)
	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)
	store := application.NewStore(source, cacheRepo, cfg.Cache.GetDefaultExpiration(), appLogger)

	registryService := application.NewRegistryService(rootCtx, store, appLogger, *cfg)
	if _, err := registryService.Reload(rootCtx); err != nil {
		appLogger.Warn("Initial registry load failed, will retry on first request", zap.Error(err))
	}

	registryHandler := handlerHttp.NewRegistryHandler(registryService, appLogger)

	// --- HTTP Router & Server ---
	appLogger.Info("Setting up HTTP router...")
	r := router.New()
	deliveryHttp.RegisterRoutes(r, registryHandler, appLogger)

	server := &fasthttp.Server{
		Handler: deliveryHttp.LoggingMiddleware(r.Handler, appLogger),
		Name:    cfg.App.Name,
	}

	go func() {
		<-rootCtx.Done()
		appLogger.Info("Shutting down HTTP server...")
		if err := server.Shutdown(); err != nil {
			appLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	serverAddr := ":" + cfg.Server.Port
	appLogger.Info("Starting HTTP server", zap.String("address", serverAddr))

	if err := server.ListenAndServe(serverAddr); err != nil {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
