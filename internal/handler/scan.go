package handler

import (
	"io"
	"net/http"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/audit"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/capture"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes caps scan image uploads at 10 MiB
const maxUploadBytes = 10 << 20

// ScanHandler implements scan flow API endpoints
type ScanHandler struct {
	scans     *service.ScanService
	devices   *capture.DeviceManager
	processor *capture.Processor
	trail     *audit.Trail
	logger    *zap.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scans *service.ScanService, devices *capture.DeviceManager, processor *capture.Processor, trail *audit.Trail, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scans:     scans,
		devices:   devices,
		processor: processor,
		trail:     trail,
		logger:    logger,
	}
}

// PostFlow opens a new scan flow in the camera state
func (h *ScanHandler) PostFlow(c *gin.Context) {
	userID := c.Param("userId")

	view, err := h.scans.Start(userID)
	if err != nil {
		respondServiceError(c, err, "Failed to start scan flow")
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetFlow returns the current state of a flow
func (h *ScanHandler) GetFlow(c *gin.Context) {
	userID := c.Param("userId")
	flowID := c.Param("flowId")

	view, err := h.scans.Flow(userID, flowID)
	if err != nil {
		respondServiceError(c, err, "Failed to get scan flow")
		return
	}

	c.JSON(http.StatusOK, view)
}

// ImageRequest is the JSON capture payload. FacingFront only applies
// to raw multipart uploads; data URIs arrive already oriented.
type ImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// PostImage submits a captured frame for analysis. The image arrives
// either as multipart form data (field "image", raw camera bytes) or
// as a JSON data URI. A camera slot is held for the duration of frame
// processing and released before the analysis call.
func (h *ScanHandler) PostImage(c *gin.Context) {
	userID := c.Param("userId")
	flowID := c.Param("flowId")

	frame, ok := h.readFrame(c)
	if !ok {
		return
	}

	view, err := h.scans.Submit(c.Request.Context(), userID, flowID, frame)
	if err != nil {
		h.logger.Error("scan submission failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("flow_id", flowID),
		)
		respondServiceError(c, err, "Failed to analyze image")
		return
	}

	c.JSON(http.StatusOK, view)
}

// readFrame extracts and normalizes the uploaded image. Responds with
// an error and returns false when the payload is unusable.
func (h *ScanHandler) readFrame(c *gin.Context) (*capture.Frame, bool) {
	lease, err := h.devices.Acquire(c.Request.Context(), capture.Options{
		FacingFront: c.Query("facing") != "back",
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "CAMERA_BUSY",
			Message: "No camera device available",
			Details: stringPtr(err.Error()),
		})
		return nil, false
	}
	defer lease.Release()

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxUploadBytes {
			badRequest(c, "Image exceeds the upload size limit", nil)
			return nil, false
		}
		f, err := file.Open()
		if err != nil {
			badRequest(c, "Unable to read uploaded image", err)
			return nil, false
		}
		defer f.Close()

		raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			badRequest(c, "Unable to read uploaded image", err)
			return nil, false
		}

		frame, err := h.processor.Process(raw, capture.Options{FacingFront: lease.FacingFront})
		if err != nil {
			badRequest(c, "Unsupported or corrupt image", err)
			return nil, false
		}
		return frame, true
	}

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return nil, false
	}

	frame, err := h.processor.ProcessDataURI(req.Image)
	if err != nil {
		badRequest(c, "Unsupported or corrupt image", err)
		return nil, false
	}
	return frame, true
}

// PostRetake discards the unsaved result and reopens the camera
func (h *ScanHandler) PostRetake(c *gin.Context) {
	userID := c.Param("userId")
	flowID := c.Param("flowId")

	view, err := h.scans.Retake(userID, flowID)
	if err != nil {
		respondServiceError(c, err, "Failed to retake")
		return
	}

	c.JSON(http.StatusOK, view)
}

// PostSave persists the reviewed result and ends the flow
func (h *ScanHandler) PostSave(c *gin.Context) {
	userID := c.Param("userId")
	flowID := c.Param("flowId")

	result, err := h.scans.Save(c.Request.Context(), userID, flowID)
	if err != nil {
		respondServiceError(c, err, "Failed to save scan")
		return
	}

	if err := h.trail.LogCreate(c.Request.Context(), userID, audit.ResourceScan, result.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.logger.Error("failed to record scan save", zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// DeleteFlow aborts a flow regardless of state
func (h *ScanHandler) DeleteFlow(c *gin.Context) {
	userID := c.Param("userId")
	flowID := c.Param("flowId")

	h.scans.Abort(userID, flowID)
	c.Status(http.StatusNoContent)
}

// GetScans returns the user's saved scans, newest first
func (h *ScanHandler) GetScans(c *gin.Context) {
	userID := c.Param("userId")

	scans, err := h.scans.History(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get scan history")
		return
	}

	c.JSON(http.StatusOK, scans)
}
