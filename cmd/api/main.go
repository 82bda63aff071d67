// Package main is the entry point for the account service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/viewtube/account-service/docs"
	"github.com/viewtube/account-service/internal/api"
	"github.com/viewtube/account-service/internal/infrastructure/config"
	mongodb "github.com/viewtube/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/viewtube/account-service/internal/infrastructure/db/redis"
	"github.com/viewtube/account-service/internal/infrastructure/queue"
	"github.com/viewtube/account-service/internal/infrastructure/storage"
	"github.com/viewtube/account-service/pkg/logger"
)

// @title        ViewTube Account Service API
// @version      1.0
// @description  User accounts, sessions and channel profiles for the ViewTube platform.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	store, err := storage.New(ctx, storage.Config{
		Region:   cfg.S3.Region,
		Bucket:   cfg.S3.Bucket,
		Endpoint: cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("media store init failed")
	}

	cleanup := queue.NewDispatcher(0, store, log)
	cleanup.Start(ctx)

	e := api.NewRouter(db, rdb, store, cleanup, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("account service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("account service stopped")
}
