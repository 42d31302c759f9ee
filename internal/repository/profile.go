package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

const profileKeyPrefix = "v1:profile:"

// ProfileRepository persists user profiles
type ProfileRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(s store.Store, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		store:  s,
		logger: logger,
	}
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}

// Get returns the profile for userID, or ErrNotFound
func (r *ProfileRepository) Get(ctx context.Context, userID string) (model.Profile, error) {
	raw, err := r.store.Get(ctx, profileKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile model.Profile
	if err := unmarshalEnvelope(raw, &profile); err != nil {
		// A corrupt or future-versioned profile behaves as absent
		r.logger.Warn("discarding unreadable profile payload",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return model.Profile{}, ErrNotFound
	}

	return profile, nil
}

// Save writes the whole profile, replacing any previous value
func (r *ProfileRepository) Save(ctx context.Context, profile model.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	raw, err := marshalEnvelope(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := r.store.Set(ctx, profileKey(profile.ID), raw); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// Delete removes the profile for userID
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, profileKey(userID)); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
