package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/capture"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScanState represents the phase of a scan flow
type ScanState string

const (
	ScanStateCamera   ScanState = "CAMERA"
	ScanStateScanning ScanState = "SCANNING"
	ScanStateReview   ScanState = "REVIEW"
)

var (
	// ErrScanInProgress rejects a second submission while one is running
	ErrScanInProgress = errors.New("a scan is already in progress")
	// ErrFlowNotFound is returned for unknown or foreign flow ids
	ErrFlowNotFound = errors.New("scan flow not found")
	// ErrInvalidScanState rejects an operation illegal in the flow's state
	ErrInvalidScanState = errors.New("operation not allowed in current scan state")
)

// analysisFailedMessage is the user-facing error retained on the flow
// when analysis fails for a reason other than missing access.
const analysisFailedMessage = "Gagal menganalisis gambar. Pastikan pencahayaan cukup dan wajah terlihat jelas."

type scanFlow struct {
	id        string
	userID    string
	state     ScanState
	lastError string
	result    *model.ScanResult
}

// ScanFlowView is the externally visible state of a flow
type ScanFlowView struct {
	ID     string            `json:"id"`
	State  ScanState         `json:"state"`
	Error  string            `json:"error,omitempty"`
	Result *model.ScanResult `json:"result,omitempty"`
}

// ScanService drives the scan lifecycle: CAMERA -> SCANNING -> REVIEW,
// with failures returning the flow to CAMERA. Flows live in memory;
// only saved results reach the repository.
type ScanService struct {
	flows    map[string]*scanFlow
	mu       sync.Mutex
	aiClient ai.Client
	parser   *AnalysisParser
	scans    *repository.ScanRepository
	logger   *zap.Logger
}

// NewScanService creates a new ScanService
func NewScanService(aiClient ai.Client, parser *AnalysisParser, scans *repository.ScanRepository, logger *zap.Logger) *ScanService {
	return &ScanService{
		flows:    make(map[string]*scanFlow),
		aiClient: aiClient,
		parser:   parser,
		scans:    scans,
		logger:   logger,
	}
}

// Start opens a new flow in the CAMERA state
func (s *ScanService) Start(userID string) (ScanFlowView, error) {
	if userID == "" {
		return ScanFlowView{}, fmt.Errorf("user id is required")
	}

	flow := &scanFlow{
		id:     uuid.New().String(),
		userID: userID,
		state:  ScanStateCamera,
	}

	s.mu.Lock()
	s.flows[flow.id] = flow
	s.mu.Unlock()

	s.logger.Info("scan flow started",
		zap.String("flow_id", flow.id),
		zap.String("user_id", userID),
	)

	return s.view(flow), nil
}

// Submit runs the analysis for a captured frame. It is only legal from
// CAMERA; a submission while SCANNING is rejected without starting a
// second analysis.
func (s *ScanService) Submit(ctx context.Context, userID, flowID string, frame *capture.Frame) (ScanFlowView, error) {
	s.mu.Lock()
	flow, ok := s.flows[flowID]
	if !ok || flow.userID != userID {
		s.mu.Unlock()
		return ScanFlowView{}, ErrFlowNotFound
	}

	switch flow.state {
	case ScanStateScanning:
		s.mu.Unlock()
		return ScanFlowView{}, ErrScanInProgress
	case ScanStateReview:
		s.mu.Unlock()
		return ScanFlowView{}, fmt.Errorf("%w: flow is in review", ErrInvalidScanState)
	}

	flow.state = ScanStateScanning
	flow.lastError = ""
	s.mu.Unlock()

	startTime := time.Now()
	s.logger.Info("scan analysis started",
		zap.String("flow_id", flowID),
		zap.String("user_id", userID),
		zap.Int("image_bytes", len(frame.JPEG)),
		zap.Bool("low_light", frame.LowLight),
	)

	response, err := s.aiClient.AnalyzeImage(ctx, visionPrompt, frame.JPEG)
	if err != nil {
		return s.failSubmit(flow, err)
	}

	overall, metrics, summary, err := s.parser.Parse(response)
	if err != nil {
		return s.failSubmit(flow, err)
	}

	result := &model.ScanResult{
		ID:           uuid.New().String(),
		UserID:       userID,
		OverallScore: overall,
		Metrics:      metrics,
		Summary:      summary,
		Image:        frame.DataURI,
		LowLight:     frame.LowLight,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	flow.state = ScanStateReview
	flow.result = result
	view := s.view(flow)
	s.mu.Unlock()

	s.logger.Info("scan analysis completed",
		zap.String("flow_id", flowID),
		zap.String("scan_id", result.ID),
		zap.Int("overall_score", result.OverallScore),
		zap.Duration("processing_time", time.Since(startTime)),
	)

	return view, nil
}

// failSubmit returns the flow to CAMERA, retaining a display message
func (s *ScanService) failSubmit(flow *scanFlow, err error) (ScanFlowView, error) {
	message := analysisFailedMessage
	if errors.Is(err, ai.ErrAccessNotConfigured) {
		message = ""
	}

	s.mu.Lock()
	flow.state = ScanStateCamera
	flow.lastError = message
	view := s.view(flow)
	s.mu.Unlock()

	s.logger.Error("scan analysis failed",
		zap.Error(err),
		zap.String("flow_id", flow.id),
		zap.String("user_id", flow.userID),
	)

	if errors.Is(err, ai.ErrAccessNotConfigured) {
		return view, err
	}
	return view, fmt.Errorf("failed to analyze scan: %w", err)
}

// Retake discards the unsaved result and returns the flow to CAMERA
func (s *ScanService) Retake(userID, flowID string) (ScanFlowView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[flowID]
	if !ok || flow.userID != userID {
		return ScanFlowView{}, ErrFlowNotFound
	}
	if flow.state != ScanStateReview {
		return ScanFlowView{}, fmt.Errorf("%w: retake requires review", ErrInvalidScanState)
	}

	flow.state = ScanStateCamera
	flow.result = nil
	flow.lastError = ""

	return s.view(flow), nil
}

// Save persists the reviewed result and ends the flow
func (s *ScanService) Save(ctx context.Context, userID, flowID string) (model.ScanResult, error) {
	s.mu.Lock()
	flow, ok := s.flows[flowID]
	if !ok || flow.userID != userID {
		s.mu.Unlock()
		return model.ScanResult{}, ErrFlowNotFound
	}
	if flow.state != ScanStateReview || flow.result == nil {
		s.mu.Unlock()
		return model.ScanResult{}, fmt.Errorf("%w: save requires review", ErrInvalidScanState)
	}
	result := *flow.result
	s.mu.Unlock()

	if err := s.scans.Save(ctx, result); err != nil {
		return model.ScanResult{}, fmt.Errorf("failed to save scan result: %w", err)
	}

	s.mu.Lock()
	delete(s.flows, flowID)
	s.mu.Unlock()

	s.logger.Info("scan saved",
		zap.String("flow_id", flowID),
		zap.String("scan_id", result.ID),
		zap.String("user_id", userID),
	)

	return result, nil
}

// Abort drops the flow regardless of state. Aborting an unknown flow is
// not an error.
func (s *ScanService) Abort(userID, flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[flowID]
	if ok && flow.userID == userID {
		delete(s.flows, flowID)
	}
}

// Flow returns the current view of a flow
func (s *ScanService) Flow(userID, flowID string) (ScanFlowView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[flowID]
	if !ok || flow.userID != userID {
		return ScanFlowView{}, ErrFlowNotFound
	}
	return s.view(flow), nil
}

// History returns the user's saved scans, newest first
func (s *ScanService) History(ctx context.Context, userID string) ([]model.ScanResult, error) {
	return s.scans.List(ctx, userID)
}

// view builds the external snapshot. Callers hold s.mu or own the flow.
func (s *ScanService) view(flow *scanFlow) ScanFlowView {
	view := ScanFlowView{
		ID:    flow.id,
		State: flow.state,
		Error: flow.lastError,
	}
	if flow.result != nil {
		result := *flow.result
		view.Result = &result
	}
	return view
}
