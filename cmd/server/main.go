// @title           Style Preset Backend API
// @version         1.0.0
// @description     Turns free-text style descriptions into Lightroom-compatible XMP presets and rendered previews.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/config"
	"style-preset-backend/internal/database"
	"style-preset-backend/internal/handlers"
	"style-preset-backend/internal/logging"
	"style-preset-backend/internal/preview"
	"style-preset-backend/internal/records"
	"style-preset-backend/internal/services"
	"style-preset-backend/internal/supabase"
	"style-preset-backend/internal/xmp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(os.Getenv("ENVIRONMENT"))
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Environment)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobStore, err := newBlobStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	recordStore, closeRecords, err := newRecordStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize record storage")
	}
	defer closeRecords()

	service := services.NewPresetService(
		preview.NewRenderer(cfg.PreviewMaxDimension, cfg.PreviewJPEGQuality),
		xmp.NewEncoder(cfg.XMPToolkit),
		blobStore,
		recordStore,
		logger,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(cfg, service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}

// newBlobStore uses Supabase Storage when configured, local disk otherwise.
func newBlobStore(cfg *config.Config, logger zerolog.Logger) (blobs.Store, error) {
	if cfg.UseSupabaseStorage() {
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("bucket", cfg.SupabaseStorageBucket).Msg("storing files in Supabase Storage")
		return supabase.NewBlobStore(client, cfg.SupabaseStorageBucket), nil
	}

	logger.Info().Str("dir", cfg.DataDir).Msg("storing files on local disk")
	return blobs.NewLocalStore(cfg.DataDir)
}

// newRecordStore uses Postgres when DATABASE_URL is set and runs pending
// migrations; otherwise records live in a JSON file.
func newRecordStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (records.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info().Str("path", cfg.MetadataPath).Msg("storing records in JSON file")
		store, err := records.NewJSONStore(cfg.MetadataPath)
		return store, func() {}, err
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info().Msg("storing records in Postgres")
	return database.NewRecordStore(db), func() { db.Close() }, nil
}
