package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/pdf"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
)

func newReportTestService(t *testing.T) (*ReportService, *repository.ProfileRepository, *repository.ScanRepository, *ChecklistService) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	profiles := repository.NewProfileRepository(st, logger)
	scans := repository.NewScanRepository(st, logger)
	checklist := NewChecklistService(repository.NewChecklistRepository(st, logger), profiles, time.UTC, logger)
	service := NewReportService(profiles, scans, checklist, pdf.NewGenerator(logger), logger)
	return service, profiles, scans, checklist
}

func saveReportScan(t *testing.T, scans *repository.ScanRepository, userID, id string, score int, at time.Time) {
	t.Helper()

	err := scans.Save(context.Background(), model.ScanResult{
		ID:           id,
		UserID:       userID,
		OverallScore: score,
		Metrics:      model.SkinMetrics{Acne: 20, Wrinkles: 10, Pigmentation: 15, Texture: 12},
		Summary:      "Kulit terlihat cukup sehat.",
		CreatedAt:    at,
	})
	assert.NoError(t, err)
}

func TestReportService_BuildEmptyHistory(t *testing.T) {
	service, _, _, _ := newReportTestService(t)

	report, err := service.Build(context.Background(), "user-1", 0)
	assert.NoError(t, err)
	assert.Equal(t, DefaultReportPeriodDays, report.PeriodDays)
	assert.Empty(t, report.Scans)
	assert.Equal(t, 0, report.AverageOverallScore)
	assert.Equal(t, 0, report.ScoreTrend)
}

func TestReportService_BuildAggregatesWindow(t *testing.T) {
	service, _, scans, _ := newReportTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	saveReportScan(t, scans, "user-1", "old", 50, now.AddDate(0, 0, -40))
	saveReportScan(t, scans, "user-1", "first", 60, now.AddDate(0, 0, -10))
	saveReportScan(t, scans, "user-1", "second", 74, now.AddDate(0, 0, -1))

	report, err := service.Build(ctx, "user-1", 30)
	assert.NoError(t, err)
	assert.Len(t, report.Scans, 2)
	assert.Equal(t, "second", report.Scans[0].ID)
	assert.Equal(t, 67, report.AverageOverallScore)
	assert.Equal(t, 14, report.ScoreTrend)
}

func TestReportService_TrendNeedsTwoScans(t *testing.T) {
	service, _, scans, _ := newReportTestService(t)
	now := time.Now().UTC()

	saveReportScan(t, scans, "user-1", "only", 80, now.AddDate(0, 0, -2))

	report, err := service.Build(context.Background(), "user-1", 30)
	assert.NoError(t, err)
	assert.Equal(t, 80, report.AverageOverallScore)
	assert.Equal(t, 0, report.ScoreTrend)
}

func TestReportService_ChecklistCompletionIncluded(t *testing.T) {
	service, _, _, checklist := newReportTestService(t)
	ctx := context.Background()
	today := checklist.DailyKey(time.Now().UTC())

	for _, id := range []string{"sleep", "am_skin", "water", "junkfood", "pm_skin"} {
		_, err := checklist.Toggle(ctx, "user-1", today, id)
		assert.NoError(t, err)
	}

	// One fully checked day out of a five day window.
	report, err := service.Build(ctx, "user-1", 5)
	assert.NoError(t, err)
	assert.Equal(t, 20, report.ChecklistCompletion)
}

func TestReportService_GeneratePDF(t *testing.T) {
	service, profiles, scans, _ := newReportTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	assert.NoError(t, profiles.Save(ctx, model.Profile{
		ID:       "user-1",
		Email:    "sari@example.com",
		Name:     "Sari",
		SkinType: model.SkinTypeCombination,
	}))
	saveReportScan(t, scans, "user-1", "first", 62, now.AddDate(0, 0, -3))
	saveReportScan(t, scans, "user-1", "second", 71, now.AddDate(0, 0, -1))

	pdfBytes, err := service.GeneratePDF(ctx, "user-1", 30)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestReportService_GeneratePDFUnknownUser(t *testing.T) {
	service, _, _, _ := newReportTestService(t)

	_, err := service.GeneratePDF(context.Background(), "nobody", 30)
	assert.Error(t, err)
}
