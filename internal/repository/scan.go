package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

const scanKeyPrefix = "v1:scan:"

// ScanRepository persists saved scan results, one record per scan id
type ScanRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewScanRepository creates a new ScanRepository
func NewScanRepository(s store.Store, logger *zap.Logger) *ScanRepository {
	return &ScanRepository{
		store:  s,
		logger: logger,
	}
}

func scanKey(userID, scanID string) string {
	return scanKeyPrefix + userID + ":" + scanID
}

// Save writes one scan result
func (r *ScanRepository) Save(ctx context.Context, scan model.ScanResult) error {
	if scan.ID == "" || scan.UserID == "" {
		return fmt.Errorf("scan id and user id are required")
	}

	raw, err := marshalEnvelope(scan)
	if err != nil {
		return fmt.Errorf("failed to encode scan: %w", err)
	}

	if err := r.store.Set(ctx, scanKey(scan.UserID, scan.ID), raw); err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	return nil
}

// Get returns one scan by id, or ErrNotFound
func (r *ScanRepository) Get(ctx context.Context, userID, scanID string) (model.ScanResult, error) {
	raw, err := r.store.Get(ctx, scanKey(userID, scanID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.ScanResult{}, ErrNotFound
		}
		return model.ScanResult{}, fmt.Errorf("failed to get scan: %w", err)
	}

	var scan model.ScanResult
	if err := unmarshalEnvelope(raw, &scan); err != nil {
		r.logger.Warn("discarding unreadable scan payload",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("scan_id", scanID),
		)
		return model.ScanResult{}, ErrNotFound
	}

	return scan, nil
}

// List returns the user's saved scans, newest first. Unreadable records
// are skipped with a warning rather than failing the whole listing.
func (r *ScanRepository) List(ctx context.Context, userID string) ([]model.ScanResult, error) {
	keys, err := r.store.Keys(ctx, scanKeyPrefix+userID+":")
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}

	scans := make([]model.ScanResult, 0, len(keys))
	for _, k := range keys {
		raw, err := r.store.Get(ctx, k)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get scan %q: %w", k, err)
		}

		var scan model.ScanResult
		if err := unmarshalEnvelope(raw, &scan); err != nil {
			r.logger.Warn("skipping unreadable scan payload",
				zap.Error(err),
				zap.String("key", k),
			)
			continue
		}
		scans = append(scans, scan)
	}

	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].CreatedAt.After(scans[j].CreatedAt)
	})

	return scans, nil
}

// DeleteAll removes every saved scan for the user
func (r *ScanRepository) DeleteAll(ctx context.Context, userID string) error {
	keys, err := r.store.Keys(ctx, scanKeyPrefix+userID+":")
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	for _, k := range keys {
		if err := r.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete scan %q: %w", k, err)
		}
	}
	return nil
}
