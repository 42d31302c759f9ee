package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/pdf"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// DefaultReportPeriodDays is the report window used when the caller
// does not supply one
const DefaultReportPeriodDays = 30

// ReportService aggregates scan history and checklist adherence into a
// skin progress report and renders it as a PDF.
type ReportService struct {
	profiles  *repository.ProfileRepository
	scans     *repository.ScanRepository
	checklist *ChecklistService
	pdfGen    *pdf.Generator
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	profiles *repository.ProfileRepository,
	scans *repository.ScanRepository,
	checklist *ChecklistService,
	pdfGen *pdf.Generator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		profiles:  profiles,
		scans:     scans,
		checklist: checklist,
		pdfGen:    pdfGen,
		logger:    logger,
	}
}

// Build aggregates the report for the trailing period. ScoreTrend is
// the overall score change from the oldest to the newest scan in the
// window; zero when fewer than two scans exist.
func (s *ReportService) Build(ctx context.Context, userID string, periodDays int) (model.SkinReport, error) {
	if periodDays <= 0 {
		periodDays = DefaultReportPeriodDays
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -periodDays)

	allScans, err := s.scans.List(ctx, userID)
	if err != nil {
		return model.SkinReport{}, fmt.Errorf("failed to load scan history: %w", err)
	}

	scans := make([]model.ScanResult, 0, len(allScans))
	for _, scan := range allScans {
		if scan.CreatedAt.After(cutoff) {
			scans = append(scans, scan)
		}
	}

	average := 0
	trend := 0
	if len(scans) > 0 {
		sum := 0
		for _, scan := range scans {
			sum += scan.OverallScore
		}
		average = int(math.Round(float64(sum) / float64(len(scans))))
	}
	if len(scans) > 1 {
		// List is newest first
		trend = scans[0].OverallScore - scans[len(scans)-1].OverallScore
	}

	dayKeys := make([]string, 0, periodDays)
	for d := 0; d < periodDays; d++ {
		dayKeys = append(dayKeys, s.checklist.DailyKey(now.AddDate(0, 0, -d)))
	}
	completion, err := s.checklist.CompletionRate(ctx, userID, dayKeys)
	if err != nil {
		return model.SkinReport{}, fmt.Errorf("failed to compute checklist completion: %w", err)
	}

	report := model.SkinReport{
		UserID:              userID,
		GeneratedAt:         now,
		PeriodDays:          periodDays,
		Scans:               scans,
		AverageOverallScore: average,
		ScoreTrend:          trend,
		ChecklistCompletion: completion,
	}

	s.logger.Info("skin report built",
		zap.String("user_id", userID),
		zap.Int("period_days", periodDays),
		zap.Int("scan_count", len(scans)),
		zap.Int("average_score", average),
	)

	return report, nil
}

// GeneratePDF builds the report and renders it for download
func (s *ReportService) GeneratePDF(ctx context.Context, userID string, periodDays int) ([]byte, error) {
	report, err := s.Build(ctx, userID, periodDays)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	pdfBytes, err := s.pdfGen.Generate(&report, profile)
	if err != nil {
		s.logger.Error("failed to generate PDF",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.logger.Info("skin report PDF generated",
		zap.String("user_id", userID),
		zap.Int("size_bytes", len(pdfBytes)),
	)

	return pdfBytes, nil
}
