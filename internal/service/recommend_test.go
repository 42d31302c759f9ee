package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
)

func newRecommendTestService(t *testing.T) (*RecommendService, *repository.ProfileRepository, *repository.ScanRepository) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	profiles := repository.NewProfileRepository(st, logger)
	scans := repository.NewScanRepository(st, logger)
	return NewRecommendService(profiles, scans, logger), profiles, scans
}

func recommendationByID(recs []model.Recommendation, id string) *model.Recommendation {
	for i := range recs {
		if recs[i].IngredientID == id {
			return &recs[i]
		}
	}
	return nil
}

func saveRecommendScan(t *testing.T, scans *repository.ScanRepository, userID string, metrics model.SkinMetrics, at time.Time) {
	t.Helper()

	err := scans.Save(context.Background(), model.ScanResult{
		ID:        "scan-" + at.Format("20060102150405"),
		UserID:    userID,
		Metrics:   metrics,
		CreatedAt: at,
	})
	assert.NoError(t, err)
}

func TestRecommendService_NoProfileMeansEmpty(t *testing.T) {
	service, _, _ := newRecommendTestService(t)

	recs, err := service.Recommend(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendService_SkinTypeOnly(t *testing.T) {
	service, profiles, _ := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeDry}))

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.NotNil(t, recommendationByID(recs, "hyaluronic_acid"))
	assert.NotNil(t, recommendationByID(recs, "ceramides"))

	squalane := recommendationByID(recs, "squalane")
	assert.NotNil(t, squalane)
	assert.Equal(t, 8, squalane.Priority)
}

func TestRecommendService_NormalSkinFallback(t *testing.T) {
	service, profiles, _ := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeNormal}))

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, "vitamin_c", recs[0].IngredientID)
	assert.Equal(t, 5, recs[0].Priority)
}

func TestRecommendService_AcneFindingsDriveSuggestions(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeNormal}))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Acne: 60}, time.Now().UTC())

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)

	salicylic := recommendationByID(recs, "salicylic_acid")
	assert.NotNil(t, salicylic)
	assert.Equal(t, 80, salicylic.Priority)
	assert.Contains(t, salicylic.ReasonEN, "High")
	assert.Contains(t, salicylic.ReasonID, "Tinggi")

	// Highest priority first.
	assert.Equal(t, "salicylic_acid", recs[0].IngredientID)

	teaTree := recommendationByID(recs, "tea_tree")
	assert.NotNil(t, teaTree)
	assert.Equal(t, 70, teaTree.Priority)
}

func TestRecommendService_ModerateSeverityWording(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1"}))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Acne: 30}, time.Now().UTC())

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)

	salicylic := recommendationByID(recs, "salicylic_acid")
	assert.NotNil(t, salicylic)
	assert.Contains(t, salicylic.ReasonEN, "Moderate")
}

func TestRecommendService_MetricsAtThresholdIgnored(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeNormal}))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{
		Acne: 25, Wrinkles: 25, Pigmentation: 25, Texture: 25,
	}, time.Now().UTC())

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, "vitamin_c", recs[0].IngredientID)
}

func TestRecommendService_DedupeKeepsHighestPriority(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	// Oily skin also suggests salicylic acid at priority 10; the scan
	// finding must win and carry its reason.
	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeOily}))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Acne: 40, Pigmentation: 30}, time.Now().UTC())

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)

	salicylic := recommendationByID(recs, "salicylic_acid")
	assert.NotNil(t, salicylic)
	assert.Equal(t, 60, salicylic.Priority)
	assert.Contains(t, salicylic.ReasonEN, "acne")

	// Niacinamide appears once even though both the pigmentation finding
	// and the skin type suggest it.
	niacinamide := recommendationByID(recs, "niacinamide")
	assert.NotNil(t, niacinamide)
	assert.Equal(t, 40, niacinamide.Priority)

	seen := make(map[string]int)
	for _, rec := range recs {
		seen[rec.IngredientID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "ingredient %s duplicated", id)
	}
}

func TestRecommendService_LatestScanWins(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeNormal}))
	now := time.Now().UTC()
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Acne: 80}, now.Add(-48*time.Hour))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Wrinkles: 40}, now)

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)
	assert.Nil(t, recommendationByID(recs, "salicylic_acid"))
	assert.NotNil(t, recommendationByID(recs, "retinol"))
}

func TestRecommendService_SortedByPriorityDesc(t *testing.T) {
	service, profiles, scans := newRecommendTestService(t)
	ctx := context.Background()

	assert.NoError(t, profiles.Save(ctx, model.Profile{ID: "user-1", SkinType: model.SkinTypeSensitive}))
	saveRecommendScan(t, scans, "user-1", model.SkinMetrics{Texture: 35, Pigmentation: 45}, time.Now().UTC())

	recs, err := service.Recommend(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}
}
