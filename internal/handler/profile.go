package handler

import (
	"net/http"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/audit"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler implements authentication, navigation, and profile
// API endpoints
type ProfileHandler struct {
	profiles   *service.ProfileService
	onboarding *service.OnboardingService
	trail      *audit.Trail
	logger     *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *service.ProfileService, onboarding *service.OnboardingService, trail *audit.Trail, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:   profiles,
		onboarding: onboarding,
		trail:      trail,
		logger:     logger,
	}
}

// AuthRequest is the email-only sign-in payload
type AuthRequest struct {
	Email string `json:"email" binding:"required"`
}

// PostAuth signs a user in by email, creating the account on first use
func (h *ProfileHandler) PostAuth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		badRequest(c, "Invalid request body", err)
		return
	}

	profile, err := h.profiles.Authenticate(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("authentication failed", zap.Error(err))
		respondServiceError(c, err, "Failed to authenticate")
		return
	}

	h.logger.Info("user authenticated",
		zap.String("user_id", profile.ID),
		zap.Bool("is_onboarded", profile.IsOnboarded),
	)

	c.JSON(http.StatusOK, profile)
}

// GetAppState resolves the post-splash destination
func (h *ProfileHandler) GetAppState(c *gin.Context) {
	userID := c.Param("userId")

	stage, err := h.profiles.Stage(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to resolve app state",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		respondServiceError(c, err, "Failed to resolve app state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stage": stage})
}

// GetProfile returns the stored profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.Param("userId")

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PostTheme flips the profile theme between light and dark
func (h *ProfileHandler) PostTheme(c *gin.Context) {
	userID := c.Param("userId")

	profile, err := h.profiles.ToggleTheme(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to toggle theme")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// LanguageRequest selects the profile language
type LanguageRequest struct {
	Language model.Language `json:"language" binding:"required"`
}

// PostLanguage switches the profile language
func (h *ProfileHandler) PostLanguage(c *gin.Context) {
	userID := c.Param("userId")

	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	profile, err := h.profiles.SetLanguage(c.Request.Context(), userID, req.Language)
	if err != nil {
		respondServiceError(c, err, "Failed to set language")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PhotoRequest carries the new profile photo as a data URI. An empty
// value clears the photo.
type PhotoRequest struct {
	Photo string `json:"photo"`
}

// PostPhoto replaces the profile photo
func (h *ProfileHandler) PostPhoto(c *gin.Context) {
	userID := c.Param("userId")

	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	profile, err := h.profiles.SetPhoto(c.Request.Context(), userID, req.Photo)
	if err != nil {
		respondServiceError(c, err, "Failed to set photo")
		return
	}

	if err := h.trail.LogUpdate(c.Request.Context(), userID, audit.ResourceProfile, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.logger.Error("failed to record profile update", zap.Error(err))
	}

	c.JSON(http.StatusOK, profile)
}

// GetOnboardingSteps returns the wizard sequence
func (h *ProfileHandler) GetOnboardingSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"steps":           h.onboarding.Steps(),
		"allergy_presets": service.AllergyPresets,
	})
}

// PostOnboardingStep validates the answers for one wizard step
func (h *ProfileHandler) PostOnboardingStep(c *gin.Context) {
	stepID := c.Param("step")

	var answers service.OnboardingAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.onboarding.ValidateStep(stepID, answers); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// PostOnboardingComplete finalizes onboarding and returns the profile
func (h *ProfileHandler) PostOnboardingComplete(c *gin.Context) {
	userID := c.Param("userId")

	var answers service.OnboardingAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	profile, err := h.onboarding.Complete(c.Request.Context(), userID, answers)
	if err != nil {
		h.logger.Error("failed to complete onboarding",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		respondServiceError(c, err, "Failed to complete onboarding")
		return
	}

	if err := h.trail.LogUpdate(c.Request.Context(), userID, audit.ResourceProfile, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.logger.Error("failed to record profile update", zap.Error(err))
	}

	c.JSON(http.StatusOK, profile)
}
