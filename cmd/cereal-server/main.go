// Package main is the entrypoint for the Cereal server.
//
// @title           Cereal API
// @version         1.0
// @description     License and artifact distribution server. Validates license keys and gates artifact downloads behind them.
//
// @contact.name   Cereal
// @contact.url    https://github.com/cerealdev/cereal
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:3000
// @BasePath  /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin API key authentication. Use format: Bearer crl_xxx
//
// @tag.name licenses
// @tag.description License issuance and validation
// @tag.name products
// @tag.description Product registration and tier sets
// @tag.name downloads
// @tag.description License-gated artifact downloads
// @tag.name artifacts
// @tag.description Artifact upload and indexing
// @tag.name apikeys
// @tag.description Admin API key management
// @tag.name health
// @tag.description Server health checks
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cerealdev/cereal/internal/api"
	"github.com/cerealdev/cereal/internal/config"
	"github.com/cerealdev/cereal/internal/db"
	"github.com/cerealdev/cereal/internal/storage"
	"github.com/rs/zerolog"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := time.Now()

	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if os.Getenv("ENV") != string(config.EnvProduction) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	logger.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Msg("Starting Cereal server")

	// Load configuration
	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	// Connect to database
	database, err := db.New(ctx, db.DefaultConfig(cfg.DatabaseURL), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return 1
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to run database migrations")
		return 1
	}

	// Initialize artifact storage backend
	var blobs storage.Backend
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3Cfg, err := config.LoadS3Config(cfg.StorageConfig)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load storage configuration")
			return 1
		}
		blobs, err = storage.NewS3Backend(ctx, s3Cfg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize S3 storage backend")
			return 1
		}
		logger.Info().Str("bucket", s3Cfg.Bucket).Msg("Using S3 artifact storage")
	default:
		blobs, err = storage.NewLocalBackend(cfg.UploadsDir)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize local storage backend")
			return 1
		}
		logger.Info().Str("dir", cfg.UploadsDir).Msg("Using local artifact storage")
	}

	// Build the router
	router := api.NewRouter(api.Config{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.CORSOrigins,
		BaseURL:        cfg.BaseURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		EnableDocs:     cfg.EnableDocs,
		Started:        started,
		Version:        Version,
		Commit:         Commit,
		BuildDate:      BuildDate,
	}, database, blobs, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		return 1
	}

	logger.Info().Msg("Server stopped")
	return 0
}
