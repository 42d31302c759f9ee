package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationRead   OperationType = "READ"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceProfile     ResourceType = "profile"
	ResourceScan        ResourceType = "scan"
	ResourceChatSession ResourceType = "chat_session"
	ResourceChecklist   ResourceType = "checklist"
	ResourceReport      ResourceType = "report"
	ResourceAccount     ResourceType = "account"
)

// maxEntriesPerUser caps the per-user trail; oldest entries fall off
const maxEntriesPerUser = 500

// Entry represents one audit trail record
type Entry struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	OperationType OperationType `json:"operation_type"`
	ResourceType  ResourceType  `json:"resource_type"`
	ResourceID    string        `json:"resource_id,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
	IPAddress     string        `json:"ip_address,omitempty"`
	UserAgent     string        `json:"user_agent,omitempty"`
}

// Trail records data-access events in the persistence store, newest
// first, alongside structured logging.
type Trail struct {
	store  store.Store
	logger *zap.Logger
}

// NewTrail creates a new audit trail
func NewTrail(st store.Store, logger *zap.Logger) *Trail {
	return &Trail{
		store:  st,
		logger: logger,
	}
}

func trailKey(userID string) string {
	return fmt.Sprintf("v1:audit:%s", userID)
}

// Log appends an entry to the user's trail
func (t *Trail) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	t.logger.Info("audit entry",
		zap.String("user_id", entry.UserID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	entries, err := t.load(ctx, entry.UserID)
	if err != nil {
		return err
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > maxEntriesPerUser {
		entries = entries[:maxEntriesPerUser]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal audit trail: %w", err)
	}

	if err := t.store.Set(ctx, trailKey(entry.UserID), raw); err != nil {
		t.logger.Error("failed to persist audit entry",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.String("operation", string(entry.OperationType)),
		)
		return fmt.Errorf("failed to persist audit entry: %w", err)
	}

	return nil
}

// LogCreate logs a CREATE operation
func (t *Trail) LogCreate(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return t.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationCreate,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogUpdate logs an UPDATE operation
func (t *Trail) LogUpdate(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return t.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationUpdate,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogDelete logs a DELETE operation
func (t *Trail) LogDelete(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return t.Log(ctx, Entry{
		UserID:        userID,
		OperationType: OperationDelete,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// Entries returns the user's trail, newest first
func (t *Trail) Entries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	entries, err := t.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear removes the user's trail
func (t *Trail) Clear(ctx context.Context, userID string) error {
	return t.store.Delete(ctx, trailKey(userID))
}

func (t *Trail) load(ctx context.Context, userID string) ([]Entry, error) {
	raw, err := t.store.Get(ctx, trailKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.logger.Warn("audit trail unreadable, starting fresh",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return []Entry{}, nil
	}
	return entries, nil
}
