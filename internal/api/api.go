package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pharmops/mrep/backend-go/internal/api/handlers"
	"github.com/pharmops/mrep/backend-go/internal/api/middleware"
	"github.com/pharmops/mrep/backend-go/internal/service"
)

type Services struct {
	ReportService  *service.ReportService
	SummaryService *service.SummaryService
	UploadDir      string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.ReportService != nil {
		uploadHandler := handlers.NewUploadHandler(services.ReportService, services.UploadDir)
		apiGroup.POST("/uploads/:slot", uploadHandler.Upload)

		reportHandler := handlers.NewReportHandler(services.ReportService, services.SummaryService)
		reportsGroup := apiGroup.Group("/reports")
		{
			reportsGroup.GET("/facts", reportHandler.GetFacts)
			reportsGroup.DELETE("/facts", reportHandler.DeleteFacts)
			reportsGroup.GET("/finance", reportHandler.GetFinance)
			reportsGroup.GET("/production", reportHandler.GetProduction)
			reportsGroup.GET("/summary", reportHandler.GetSummary)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
