package handler

import (
	"net/http"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler implements assistant chat API endpoints
type ChatHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// GetSessions lists the user's sessions, most recently modified first
func (h *ChatHandler) GetSessions(c *gin.Context) {
	userID := c.Param("userId")

	sessions, err := h.chat.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list chat sessions")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetNewSession returns an unsaved conversation holding only the
// welcome message
func (h *ChatHandler) GetNewSession(c *gin.Context) {
	userID := c.Param("userId")
	c.JSON(http.StatusOK, h.chat.New(c.Request.Context(), userID))
}

// MessageRequest is one chat turn. SessionID empty means start a new
// conversation titled from this message.
type MessageRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text" binding:"required"`
}

// PostMessage sends a message and returns the updated session. When the
// provider credential is missing the reply is the fallback apology and
// access_missing is set so the client can route to key setup.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	userID := c.Param("userId")

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.chat.Send(c.Request.Context(), userID, req.SessionID, req.Text)
	if err != nil {
		h.logger.Error("failed to send chat message",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("session_id", req.SessionID),
		)
		respondServiceError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":        result.Session,
		"reply":          result.Reply,
		"access_missing": result.AccessMissing,
	})
}

// DeleteSession removes a session. Deleting an unknown id is a no-op.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID := c.Param("userId")
	sessionID := c.Param("sessionId")

	if err := h.chat.Delete(c.Request.Context(), userID, sessionID); err != nil {
		respondServiceError(c, err, "Failed to delete chat session")
		return
	}

	c.Status(http.StatusNoContent)
}
