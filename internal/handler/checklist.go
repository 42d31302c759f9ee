package handler

import (
	"net/http"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChecklistHandler implements daily checklist API endpoints
type ChecklistHandler struct {
	checklist *service.ChecklistService
	logger    *zap.Logger
}

// NewChecklistHandler creates a new ChecklistHandler
func NewChecklistHandler(checklist *service.ChecklistService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklist: checklist,
		logger:    logger,
	}
}

// resolveDayKey returns the day key for the request. The optional
// "date" query (YYYY-MM-DD) selects a specific day; default is today.
func (h *ChecklistHandler) resolveDayKey(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return h.checklist.DailyKey(time.Now()), true
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		badRequest(c, "Invalid date, expected YYYY-MM-DD", err)
		return "", false
	}
	return date, true
}

// GetDay returns the resolved checklist for one day
func (h *ChecklistHandler) GetDay(c *gin.Context) {
	userID := c.Param("userId")

	dayKey, ok := h.resolveDayKey(c)
	if !ok {
		return
	}

	view, err := h.checklist.Day(c.Request.Context(), userID, dayKey)
	if err != nil {
		respondServiceError(c, err, "Failed to get checklist")
		return
	}

	c.JSON(http.StatusOK, view)
}

// ToggleRequest flips one item's checked state
type ToggleRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// PostToggle toggles an item for the day and reports whether the
// all-done celebration fires
func (h *ChecklistHandler) PostToggle(c *gin.Context) {
	userID := c.Param("userId")

	dayKey, ok := h.resolveDayKey(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.checklist.Toggle(c.Request.Context(), userID, dayKey, req.ItemID)
	if err != nil {
		respondServiceError(c, err, "Failed to toggle checklist item")
		return
	}

	c.JSON(http.StatusOK, view)
}

// CustomItemRequest adds a custom checklist item. Either label may be
// omitted; the other fills in for it.
type CustomItemRequest struct {
	LabelEN string `json:"label_en"`
	LabelID string `json:"label_id"`
}

// PostItem adds a custom item to the user's checklist
func (h *ChecklistHandler) PostItem(c *gin.Context) {
	userID := c.Param("userId")

	var req CustomItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	profile, err := h.checklist.AddCustomItem(c.Request.Context(), userID, req.LabelEN, req.LabelID)
	if err != nil {
		respondServiceError(c, err, "Failed to add checklist item")
		return
	}

	h.logger.Info("custom checklist item added",
		zap.String("user_id", userID),
		zap.Int("custom_items", len(profile.CustomItems)),
	)

	c.JSON(http.StatusOK, profile)
}

// DeleteItem removes a custom item from the user's checklist
func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	userID := c.Param("userId")
	itemID := c.Param("itemId")

	profile, err := h.checklist.RemoveCustomItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondServiceError(c, err, "Failed to remove checklist item")
		return
	}

	c.JSON(http.StatusOK, profile)
}
