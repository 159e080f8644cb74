package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oggyb/lunchmatch/internal/api"
	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/cache"
	"github.com/oggyb/lunchmatch/internal/config"
	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/logger"
	"github.com/oggyb/lunchmatch/internal/server"
	"github.com/oggyb/lunchmatch/internal/service/lunch"
	"github.com/oggyb/lunchmatch/internal/storage"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env", "err", err)
	}

	cfg, err := config.Load(os.Getenv("LUNCHMATCH_CONFIG"))
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	photos, err := storage.New(ctx, cfg)
	if err != nil {
		log.Error("failed to init photo store", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(cfg, database, redisCache, photos, log)

	if cfg.App.ENV == "development" {
		if _, err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	grpcServer := server.NewGRPCServer(cfg, issuer, log, lunch.NewRegistrar(appCtx))
	httpServer := server.NewHTTPServer(cfg, api.NewRouter(appCtx, issuer), log)

	errs := make(chan error, 2)
	go func() { errs <- grpcServer.ListenAndServe() }()
	go func() { errs <- httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errs:
		if err != nil {
			log.Error("server stopped", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	grpcServer.Stop()
	log.Info("stopped")
}
