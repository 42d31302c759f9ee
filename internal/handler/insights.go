package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InsightsHandler implements recommendation and report API endpoints
type InsightsHandler struct {
	recommend *service.RecommendService
	reports   *service.ReportService
	logger    *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(recommend *service.RecommendService, reports *service.ReportService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		recommend: recommend,
		reports:   reports,
		logger:    logger,
	}
}

// GetRecommendations returns personalized ingredient suggestions,
// highest priority first
func (h *InsightsHandler) GetRecommendations(c *gin.Context) {
	userID := c.Param("userId")

	recs, err := h.recommend.Recommend(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute recommendations")
		return
	}

	c.JSON(http.StatusOK, recs)
}

// GetReport returns the aggregated skin report as JSON. The optional
// "days" query selects the period.
func (h *InsightsHandler) GetReport(c *gin.Context) {
	userID := c.Param("userId")

	days, ok := h.periodDays(c)
	if !ok {
		return
	}

	report, err := h.reports.Build(c.Request.Context(), userID, days)
	if err != nil {
		respondServiceError(c, err, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportPDF renders the skin report as a downloadable PDF
func (h *InsightsHandler) GetReportPDF(c *gin.Context) {
	userID := c.Param("userId")

	days, ok := h.periodDays(c)
	if !ok {
		return
	}

	pdfBytes, err := h.reports.GeneratePDF(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("failed to generate report PDF",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		respondServiceError(c, err, "Failed to generate report")
		return
	}

	filename := fmt.Sprintf("skin-report-%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *InsightsHandler) periodDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return service.DefaultReportPeriodDays, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		badRequest(c, "days must be an integer between 1 and 365", err)
		return 0, false
	}
	return days, true
}
