package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/router"
	"github.com/pageza/recipebook/backend/internal/server"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/migrations"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.AutoMigrate {
		if err := database.RunMigrations(db, migrations.Files); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to redis")
	}

	deps := router.Dependencies{
		DB:       db,
		Redis:    redisClient,
		Notifier: service.NewEmailService(cfg),
	}
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize media storage")
		}
		deps.Media = service.NewS3MediaStore(s3Config)
	} else {
		logging.Warn().Msg("S3 bucket not configured, uploads are disabled")
	}

	srv := server.New(cfg, deps)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info().Msg("server stopped")
}
