package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmops/mrep/backend-go/internal/domain"
	"github.com/pharmops/mrep/backend-go/internal/repository"
	"github.com/pharmops/mrep/backend-go/internal/service"
)

type ReportHandler struct {
	reports   *service.ReportService
	summaries *service.SummaryService
}

func NewReportHandler(reports *service.ReportService, summaries *service.SummaryService) *ReportHandler {
	return &ReportHandler{reports: reports, summaries: summaries}
}

// GetFacts lists stored facts, narrowed by any of the filter query params.
func (h *ReportHandler) GetFacts(c *gin.Context) {
	filter := repository.FactFilter{
		Department: c.Query("department"),
		Team:       c.Query("team"),
		Metric:     c.Query("metric"),
		ReportDate: c.Query("reportDate"),
		FY:         c.Query("fy"),
	}

	facts, err := h.reports.Facts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch facts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"facts": facts, "count": len(facts)})
}

// DeleteFacts clears one report date ahead of a corrected re-import.
func (h *ReportHandler) DeleteFacts(c *gin.Context) {
	reportDate := c.Query("reportDate")
	if reportDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportDate parameter is required"})
		return
	}

	n, err := h.reports.DeleteReportDate(c.Request.Context(), reportDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete facts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// GetFinance returns the stored finance view for a month.
func (h *ReportHandler) GetFinance(c *gin.Context) {
	month, year := monthYearQuery(c)

	report, err := h.reports.FinanceReport(c.Request.Context(), int(month)-1, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch finance report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no finance report for that month"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetProduction returns the stored production view for a month.
func (h *ReportHandler) GetProduction(c *gin.Context) {
	month, year := monthYearQuery(c)

	report, err := h.reports.ProductionReport(c.Request.Context(), int(month)-1, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch production report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no production report for that month"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetSummary returns the executive summary for a department and month.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		department = domain.DepartmentSales
	}
	month, year := monthYearQuery(c)

	summary, err := h.summaries.Summary(c.Request.Context(), domain.SummaryFilter{
		Department: department,
		Month:      int(month) - 1,
		Year:       year,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
