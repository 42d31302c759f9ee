package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

const checklistKeyPrefix = "v1:checklist:"

// ChecklistRepository persists per-day checklist state
type ChecklistRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(s store.Store, logger *zap.Logger) *ChecklistRepository {
	return &ChecklistRepository{
		store:  s,
		logger: logger,
	}
}

func checklistKey(userID, dayKey string) string {
	return checklistKeyPrefix + userID + ":" + dayKey
}

// GetDay returns the stored state for one day. An absent or unreadable
// day comes back with no checked items.
func (r *ChecklistRepository) GetDay(ctx context.Context, userID, dayKey string) (model.ChecklistDay, error) {
	empty := model.ChecklistDay{
		DayKey:  dayKey,
		Checked: map[string]bool{},
	}

	raw, err := r.store.Get(ctx, checklistKey(userID, dayKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return empty, nil
		}
		return model.ChecklistDay{}, fmt.Errorf("failed to get checklist day: %w", err)
	}

	var day model.ChecklistDay
	if err := unmarshalEnvelope(raw, &day); err != nil {
		r.logger.Warn("discarding unreadable checklist payload",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("day_key", dayKey),
		)
		return empty, nil
	}

	if day.Checked == nil {
		day.Checked = map[string]bool{}
	}
	day.DayKey = dayKey
	return day, nil
}

// SaveDay replaces the stored state for one day
func (r *ChecklistRepository) SaveDay(ctx context.Context, userID string, day model.ChecklistDay) error {
	if day.DayKey == "" {
		return fmt.Errorf("day key is required")
	}

	raw, err := marshalEnvelope(day)
	if err != nil {
		return fmt.Errorf("failed to encode checklist day: %w", err)
	}

	if err := r.store.Set(ctx, checklistKey(userID, day.DayKey), raw); err != nil {
		return fmt.Errorf("failed to save checklist day: %w", err)
	}

	return nil
}

// Days returns every day key with stored state for the user, sorted
func (r *ChecklistRepository) Days(ctx context.Context, userID string) ([]string, error) {
	prefix := checklistKeyPrefix + userID + ":"

	keys, err := r.store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist days: %w", err)
	}

	days := make([]string, 0, len(keys))
	for _, k := range keys {
		days = append(days, k[len(prefix):])
	}
	return days, nil
}

// DeleteAll removes every stored day for the user
func (r *ChecklistRepository) DeleteAll(ctx context.Context, userID string) error {
	keys, err := r.store.Keys(ctx, checklistKeyPrefix+userID+":")
	if err != nil {
		return fmt.Errorf("failed to list checklist days: %w", err)
	}

	for _, k := range keys {
		if err := r.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete checklist day %q: %w", k, err)
		}
	}
	return nil
}
