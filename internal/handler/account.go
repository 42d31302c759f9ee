package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler implements data export and account deletion endpoints
type AccountHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// GetExport downloads all stored data for the user as JSON
func (h *AccountHandler) GetExport(c *gin.Context) {
	userID := c.Param("userId")

	data, err := h.accounts.Export(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to export account data",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		respondServiceError(c, err, "Failed to export account data")
		return
	}

	filename := fmt.Sprintf("glowyze-export-%s.json", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// DeleteAccount removes every record for the user
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.accounts.Delete(c.Request.Context(), userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.logger.Error("failed to delete account",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		respondServiceError(c, err, "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}
