// The sync sidecar hosts the Drive endpoints in a separate process so a slow
// folder pull never blocks the API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/pharmops/mrep/backend-go/internal/cache"
	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/internal/drive"
	"github.com/pharmops/mrep/backend-go/internal/pipeline"
	"github.com/pharmops/mrep/backend-go/internal/repository/postgres"
	"github.com/pharmops/mrep/backend-go/internal/service"
	"github.com/pharmops/mrep/backend-go/internal/storage"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	if cfg.Drive.CredentialsJSON == "" {
		log.Fatal("GOOGLE_DRIVE_CREDENTIALS_JSON must be set for the sync sidecar")
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

	reportService := service.NewReportService(
		pipeline.NewRunner(0),
		postgres.NewFactRepository(db),
		postgres.NewReportRepository(db),
		summaryCache,
		storage.NewNoopStorage(),
	)

	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to create drive client: %v", err)
	}
	ingestService := drive.NewIngestService(driveService, reportService)
	handler := drive.NewHandler(driveService, ingestService)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + syncPort(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: 5 * time.Minute, // folder pulls are slow
	}

	go func() {
		logger.Log.Info().Str("addr", srv.Addr).Msg("Starting sync sidecar")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start sync sidecar")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down sync sidecar...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Sync sidecar forced to shutdown")
	}
}

func syncPort() string {
	if port := os.Getenv("SYNC_PORT"); port != "" {
		return port
	}
	return "8090"
}
