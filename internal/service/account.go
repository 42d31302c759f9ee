package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/audit"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// AccountService handles whole-account operations: data export and the
// right to be forgotten.
type AccountService struct {
	profiles  *repository.ProfileRepository
	scans     *repository.ScanRepository
	chats     *repository.ChatRepository
	checklist *repository.ChecklistRepository
	trail     *audit.Trail
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	profiles *repository.ProfileRepository,
	scans *repository.ScanRepository,
	chats *repository.ChatRepository,
	checklist *repository.ChecklistRepository,
	trail *audit.Trail,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		profiles:  profiles,
		scans:     scans,
		chats:     chats,
		checklist: checklist,
		trail:     trail,
		logger:    logger,
	}
}

// AccountExport bundles every record the app holds for one user
type AccountExport struct {
	Profile       *model.Profile       `json:"profile,omitempty"`
	Scans         []model.ScanResult   `json:"scans"`
	ChatSessions  []model.ChatSession  `json:"chat_sessions"`
	ChecklistDays []model.ChecklistDay `json:"checklist_days"`
	ExportedAt    time.Time            `json:"exported_at"`
}

// Export returns all stored data for the user as indented JSON
func (s *AccountService) Export(ctx context.Context, userID string) ([]byte, error) {
	s.logger.Info("starting account data export",
		zap.String("user_id", userID),
	)

	export := AccountExport{
		ExportedAt: time.Now().UTC(),
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
	} else {
		export.Profile = &profile
	}

	export.Scans, err = s.scans.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scans: %w", err)
	}

	export.ChatSessions, err = s.chats.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat sessions: %w", err)
	}

	dayKeys, err := s.checklist.Days(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist days: %w", err)
	}
	export.ChecklistDays = make([]model.ChecklistDay, 0, len(dayKeys))
	for _, key := range dayKeys {
		day, err := s.checklist.GetDay(ctx, userID, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get checklist day %q: %w", key, err)
		}
		export.ChecklistDays = append(export.ChecklistDays, day)
	}

	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export data: %w", err)
	}

	s.logger.Info("account data export completed",
		zap.String("user_id", userID),
		zap.Int("scans", len(export.Scans)),
		zap.Int("chat_sessions", len(export.ChatSessions)),
		zap.Int("checklist_days", len(export.ChecklistDays)),
	)

	return jsonData, nil
}

// Delete removes every record for the user, the audit trail last so
// the deletion itself is still recorded before the trail goes.
func (s *AccountService) Delete(ctx context.Context, userID, ipAddress, userAgent string) error {
	s.logger.Info("starting account deletion",
		zap.String("user_id", userID),
	)

	if err := s.scans.DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	if err := s.chats.DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete chat sessions: %w", err)
	}
	if err := s.checklist.DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete checklist days: %w", err)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.trail.LogDelete(ctx, userID, audit.ResourceAccount, userID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to record account deletion", zap.Error(err))
	}
	if err := s.trail.Clear(ctx, userID); err != nil {
		s.logger.Error("failed to clear audit trail", zap.Error(err))
	}

	s.logger.Info("account deletion completed",
		zap.String("user_id", userID),
	)

	return nil
}
