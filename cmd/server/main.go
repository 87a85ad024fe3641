package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmops/mrep/backend-go/internal/api"
	"github.com/pharmops/mrep/backend-go/internal/cache"
	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/internal/pipeline"
	"github.com/pharmops/mrep/backend-go/internal/repository/postgres"
	"github.com/pharmops/mrep/backend-go/internal/service"
	"github.com/pharmops/mrep/backend-go/internal/storage"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		summaryCache = cache.NewNoopSummaryCache()
	}

	var archive storage.ObjectStorage = storage.NewNoopStorage()
	if cfg.Storage.Enabled {
		archive, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
	}

	reportService := service.NewReportService(
		pipeline.NewRunner(0),
		postgres.NewFactRepository(db),
		postgres.NewReportRepository(db),
		summaryCache,
		archive,
	)
	summaryService := service.NewSummaryService(reportService, nil)

	router := api.NewRouter(&api.Services{
		ReportService:  reportService,
		SummaryService: summaryService,
		UploadDir:      cfg.App.UploadDir,
	}, cfg.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
