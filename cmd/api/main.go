package main

import (
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/luccarvs/PlaylistImport-API/internal/adapters/auth"
	"github.com/luccarvs/PlaylistImport-API/internal/adapters/catalog"
	handler "github.com/luccarvs/PlaylistImport-API/internal/adapters/http"
	"github.com/luccarvs/PlaylistImport-API/internal/adapters/progress"
	"github.com/luccarvs/PlaylistImport-API/internal/adapters/spotify"
	"github.com/luccarvs/PlaylistImport-API/internal/adapters/storage"
	"github.com/luccarvs/PlaylistImport-API/internal/app"
	"github.com/luccarvs/PlaylistImport-API/internal/config"

	_ "github.com/luccarvs/PlaylistImport-API/docs"
)

// @title			PlaylistImport API
// @version		1.0
// @description	API for importing source-platform playlists into the internal music catalog,
// @description	with per-session pollable progress and per-track failure reporting.

// @license.name	MIT

// @host		localhost:8080
// @BasePath	/

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Bearer token issued by the auth provider
func main() {
	cfg := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open playlist store", "path", cfg.DatabasePath, "err", err)
	}
	defer store.Close()

	// Create adapters
	httpClient := &http.Client{}
	sourceClient := spotify.NewClient(httpClient, cfg.SpotifyBaseURL)
	catalogClient := catalog.NewClient(httpClient, cfg.CatalogBaseURL)
	verifier := auth.NewClient(httpClient, cfg.AuthBaseURL)
	tracker := progress.NewMemoryTracker()

	// Create application service
	importService := app.NewService(sourceClient, catalogClient, store, tracker, cfg.SearchRateLimit, logger)

	// Setup HTTP server
	r := gin.Default()
	h := handler.NewHandler(importService, verifier)
	h.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port
	logger.Info("starting PlaylistImport API", "addr", addr)
	logger.Info("catalog search rate limit", "per_second", cfg.SearchRateLimit)
	logger.Info("swagger UI", "url", "http://localhost"+addr+"/swagger/index.html")

	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}
