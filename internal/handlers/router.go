package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"style-preset-backend/internal/blobs"
	"style-preset-backend/internal/config"
	"style-preset-backend/internal/middleware"
	"style-preset-backend/internal/services"
)

// NewRouter registers every route on a fresh engine.
func NewRouter(cfg *config.Config, service *services.PresetService, logger zerolog.Logger) *gin.Engine {
	presetsHandler := NewPresetsHandler(service, cfg.BaseURL, cfg.MaxUploadBytes)
	filesHandler := NewFilesHandler(service, cfg.BaseURL)
	auth := middleware.AuthMiddleware(cfg)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Health check (no auth)
	router.GET("/health", HealthHandler)

	api := router.Group("/api/v1")

	// Style matching
	api.GET("/styles", presetsHandler.ListStyles)
	api.POST("/match", presetsHandler.Match)

	// Preset generation
	api.POST("/generate_preset", auth, presetsHandler.Generate)
	api.POST("/presets", auth, presetsHandler.CreatePreset)

	// Stored files
	api.GET("/presets", filesHandler.ListKind(blobs.Presets))
	api.GET("/uploads", filesHandler.ListKind(blobs.Uploads))
	api.GET("/previews", filesHandler.ListKind(blobs.Previews))
	api.GET("/presets/:filename", filesHandler.Download(blobs.Presets))
	api.GET("/uploads/:filename", filesHandler.Download(blobs.Uploads))
	api.GET("/previews/:filename", filesHandler.Download(blobs.Previews))
	api.GET("/files", filesHandler.ListFiles)
	api.DELETE("/files/:filename", auth, filesHandler.DeleteFile)

	return router
}
