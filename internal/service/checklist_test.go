package service

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
)

func newChecklistTestService(t *testing.T, location *time.Location) (*ChecklistService, *repository.ProfileRepository) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore()
	days := repository.NewChecklistRepository(st, logger)
	profiles := repository.NewProfileRepository(st, logger)
	return NewChecklistService(days, profiles, location, logger), profiles
}

func saveTestProfile(t *testing.T, profiles *repository.ProfileRepository, userID string) {
	t.Helper()

	err := profiles.Save(context.Background(), model.Profile{
		ID:       userID,
		Email:    userID + "@example.com",
		Language: model.LanguageEnglish,
	})
	assert.NoError(t, err)
}

func TestChecklistService_DailyKeyFollowsTimezone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	assert.NoError(t, err)
	service, _ := newChecklistTestService(t, jakarta)

	// 18:30 UTC is already the next calendar day in UTC+7.
	at := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15", service.DailyKey(at))

	utcService, _ := newChecklistTestService(t, time.UTC)
	assert.Equal(t, "2026-03-14", utcService.DailyKey(at))
}

func TestChecklistService_DefaultItemsWithoutProfile(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)

	items, err := service.Items(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, "sleep", items[0].ID)
	assert.Equal(t, "pm_skin", items[4].ID)
}

func TestChecklistService_EmptyDayIsUnchecked(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)

	view, err := service.Day(context.Background(), "user-1", "2026-03-14")
	assert.NoError(t, err)
	assert.Equal(t, 0, view.Progress)
	assert.False(t, view.Celebrate)
	for _, item := range view.Items {
		assert.False(t, view.Checked[item.ID])
	}
}

func TestChecklistService_ToggleUpdatesProgress(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)
	ctx := context.Background()

	view, err := service.Toggle(ctx, "user-1", "2026-03-14", "water")
	assert.NoError(t, err)
	assert.True(t, view.Checked["water"])
	assert.Equal(t, 20, view.Progress)

	view, err = service.Toggle(ctx, "user-1", "2026-03-14", "water")
	assert.NoError(t, err)
	assert.False(t, view.Checked["water"])
	assert.Equal(t, 0, view.Progress)
}

func TestChecklistService_ToggleUnknownItem(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)

	_, err := service.Toggle(context.Background(), "user-1", "2026-03-14", "nope")
	assert.ErrorIs(t, err, ErrUnknownChecklistItem)
}

func TestChecklistService_CelebrationFiresOncePerRun(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)
	ctx := context.Background()
	dayKey := "2026-03-14"

	ids := []string{"sleep", "am_skin", "water", "junkfood", "pm_skin"}
	var view DayView
	var err error
	for _, id := range ids {
		view, err = service.Toggle(ctx, "user-1", dayKey, id)
		assert.NoError(t, err)
	}
	assert.Equal(t, 100, view.Progress)
	assert.True(t, view.Celebrate)

	// Re-reading the day does not replay the celebration.
	view, err = service.Day(ctx, "user-1", dayKey)
	assert.NoError(t, err)
	assert.False(t, view.Celebrate)

	// Unchecking re-arms it; completing again fires once more.
	view, err = service.Toggle(ctx, "user-1", dayKey, "water")
	assert.NoError(t, err)
	assert.False(t, view.Celebrate)

	view, err = service.Toggle(ctx, "user-1", dayKey, "water")
	assert.NoError(t, err)
	assert.True(t, view.Celebrate)
}

func TestChecklistService_AddCustomItem(t *testing.T) {
	service, profiles := newChecklistTestService(t, time.UTC)
	saveTestProfile(t, profiles, "user-1")
	ctx := context.Background()

	profile, err := service.AddCustomItem(ctx, "user-1", "Use face mask", "Pakai masker wajah")
	assert.NoError(t, err)
	assert.Len(t, profile.CustomItems, 1)
	assert.Equal(t, "custom_1", profile.CustomItems[0].ID)
	assert.True(t, profile.CustomItems[0].Custom)

	profile, err = service.AddCustomItem(ctx, "user-1", "Gua sha", "")
	assert.NoError(t, err)
	assert.Len(t, profile.CustomItems, 2)
	assert.Equal(t, "custom_2", profile.CustomItems[1].ID)
	assert.Equal(t, "Gua sha", profile.CustomItems[1].LabelID)

	items, err := service.Items(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, items, 7)
}

func TestChecklistService_AddCustomItemRequiresLabel(t *testing.T) {
	service, profiles := newChecklistTestService(t, time.UTC)
	saveTestProfile(t, profiles, "user-1")

	_, err := service.AddCustomItem(context.Background(), "user-1", "  ", "")
	assert.ErrorIs(t, err, ErrEmptyItemLabel)
}

func TestChecklistService_RemoveCustomItem(t *testing.T) {
	service, profiles := newChecklistTestService(t, time.UTC)
	saveTestProfile(t, profiles, "user-1")
	ctx := context.Background()

	_, err := service.AddCustomItem(ctx, "user-1", "Face mask", "Masker")
	assert.NoError(t, err)

	profile, err := service.RemoveCustomItem(ctx, "user-1", "custom_1")
	assert.NoError(t, err)
	assert.Empty(t, profile.CustomItems)

	// Unknown custom ids are a no-op; defaults cannot be removed.
	_, err = service.RemoveCustomItem(ctx, "user-1", "custom_99")
	assert.NoError(t, err)
	_, err = service.RemoveCustomItem(ctx, "user-1", "sleep")
	assert.ErrorIs(t, err, ErrUnknownChecklistItem)
}

func TestChecklistService_RemoveClearsCheckedStateForToday(t *testing.T) {
	service, profiles := newChecklistTestService(t, time.UTC)
	saveTestProfile(t, profiles, "user-1")
	ctx := context.Background()
	today := service.DailyKey(time.Now())

	_, err := service.AddCustomItem(ctx, "user-1", "Face mask", "Masker")
	assert.NoError(t, err)

	view, err := service.Toggle(ctx, "user-1", today, "custom_1")
	assert.NoError(t, err)
	assert.True(t, view.Checked["custom_1"])

	_, err = service.RemoveCustomItem(ctx, "user-1", "custom_1")
	assert.NoError(t, err)

	// The freed id is reused by the next add; the new item must not
	// inherit the removed item's checked state.
	_, err = service.AddCustomItem(ctx, "user-1", "Sunscreen", "Tabir surya")
	assert.NoError(t, err)

	view, err = service.Day(ctx, "user-1", today)
	assert.NoError(t, err)
	assert.False(t, view.Checked["custom_1"])
	assert.Equal(t, 0, view.Progress)
}

func TestChecklistService_StaleCheckedIDsIgnored(t *testing.T) {
	service, profiles := newChecklistTestService(t, time.UTC)
	saveTestProfile(t, profiles, "user-1")
	ctx := context.Background()
	dayKey := "2026-03-14"

	_, err := service.AddCustomItem(ctx, "user-1", "Face mask", "Masker")
	assert.NoError(t, err)

	view, err := service.Toggle(ctx, "user-1", dayKey, "custom_1")
	assert.NoError(t, err)
	assert.Equal(t, 17, view.Progress)

	_, err = service.RemoveCustomItem(ctx, "user-1", "custom_1")
	assert.NoError(t, err)

	view, err = service.Day(ctx, "user-1", dayKey)
	assert.NoError(t, err)
	assert.Equal(t, 0, view.Progress)
}

func TestChecklistService_CompletionRate(t *testing.T) {
	service, _ := newChecklistTestService(t, time.UTC)
	ctx := context.Background()

	for _, id := range []string{"sleep", "am_skin", "water", "junkfood", "pm_skin"} {
		_, err := service.Toggle(ctx, "user-1", "2026-03-13", id)
		assert.NoError(t, err)
	}
	_, err := service.Toggle(ctx, "user-1", "2026-03-14", "water")
	assert.NoError(t, err)

	// 100% + 20% + 0% over three days.
	rate, err := service.CompletionRate(ctx, "user-1", []string{"2026-03-13", "2026-03-14", "2026-03-15"})
	assert.NoError(t, err)
	assert.Equal(t, 40, rate)

	rate, err = service.CompletionRate(ctx, "user-1", nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, rate)
}

// Property: toggling any sequence of valid item ids keeps progress equal
// to the checked fraction of the item set, and the celebration fires on
// exactly the toggles that complete a fully unchecked-to-checked run.
func TestProperty_ChecklistProgressMatchesCheckedFraction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	itemIDs := []string{"sleep", "am_skin", "water", "junkfood", "pm_skin"}

	properties.Property("Progress equals rounded checked percentage", prop.ForAll(
		func(toggleIdx []int) bool {
			service, _ := newChecklistTestService(t, time.UTC)
			ctx := context.Background()
			dayKey := "2026-03-14"

			checked := make(map[string]bool)
			for _, idx := range toggleIdx {
				id := itemIDs[idx%len(itemIDs)]
				view, err := service.Toggle(ctx, "user-1", dayKey, id)
				if err != nil {
					return false
				}
				checked[id] = !checked[id]

				done := 0
				for _, c := range checked {
					if c {
						done++
					}
				}
				expected := (100*done + len(itemIDs)/2) / len(itemIDs)
				if view.Progress != expected {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.Property("Celebration fires only on completing toggles", prop.ForAll(
		func(toggleIdx []int) bool {
			service, _ := newChecklistTestService(t, time.UTC)
			ctx := context.Background()
			dayKey := "2026-03-14"

			checked := make(map[string]bool)
			wasComplete := false
			for _, idx := range toggleIdx {
				id := itemIDs[idx%len(itemIDs)]
				view, err := service.Toggle(ctx, "user-1", dayKey, id)
				if err != nil {
					return false
				}
				checked[id] = !checked[id]

				done := 0
				for _, c := range checked {
					if c {
						done++
					}
				}
				isComplete := done == len(itemIDs)
				expectFire := isComplete && !wasComplete
				if view.Celebrate != expectFire {
					return false
				}
				wasComplete = isComplete
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
