package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmops/mrep/backend-go/internal/pipeline"
	"github.com/pharmops/mrep/backend-go/internal/service"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

// uploadSlots maps the URL slot segment to the pipeline slot. The slot is
// authoritative for the parser mode flags; "auto" defers to content
// sniffing.
var uploadSlots = map[string]pipeline.Slot{
	"auto":         pipeline.SlotAuto,
	"sales":        pipeline.SlotSales,
	"sales-master": pipeline.SlotSalesMaster,
	"territory":    pipeline.SlotTerritory,
	"trade":        pipeline.SlotTrade,
	"trade-master": pipeline.SlotTradeMaster,
	"finance":      pipeline.SlotFinance,
	"production":   pipeline.SlotProduction,
}

type UploadHandler struct {
	reports   *service.ReportService
	uploadDir string
}

func NewUploadHandler(reports *service.ReportService, uploadDir string) *UploadHandler {
	return &UploadHandler{reports: reports, uploadDir: uploadDir}
}

// Upload accepts one or more workbooks for a slot and imports them as one
// batch. The response reports per-file errors; the call fails outright only
// when no file produced any data.
func (h *UploadHandler) Upload(c *gin.Context) {
	slot, ok := uploadSlots[c.Param("slot")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload slot"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	jobs := make([]pipeline.Job, 0, len(files))
	for _, file := range files {
		filePath := filepath.Join(h.uploadDir, file.Filename)
		if err := c.SaveUploadedFile(file, filePath); err != nil {
			logger.Log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
			continue
		}
		jobs = append(jobs, pipeline.Job{
			Filename: file.Filename,
			Path:     filePath,
			Slot:     slot,
		})
	}

	if len(jobs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid files to process"})
		return
	}

	month, year := monthYearQuery(c)
	batch, err := h.reports.ImportBatch(c.Request.Context(), jobs, pipeline.Options{
		Month: month,
		Year:  year,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyBatch) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "no file produced any data",
				"fileErrors": batch.FileErrors,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, batch.Result())
}

// monthYearQuery reads the 0-based month and year query params, defaulting
// to the current date.
func monthYearQuery(c *gin.Context) (time.Month, int) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if v := c.Query("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 0 && m <= 11 {
			month = time.Month(m + 1)
		}
	}
	if v := c.Query("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			year = y
		}
	}
	return month, year
}
