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

const chatKeyPrefix = "v1:chat_sessions:"

// ChatRepository persists the chat session list per user. The list is
// written as one document, matching the store's whole-value semantics.
type ChatRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(s store.Store, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		store:  s,
		logger: logger,
	}
}

func chatKey(userID string) string {
	return chatKeyPrefix + userID
}

// List returns the user's sessions sorted by LastModified descending.
// A missing or unreadable list is an empty list, never an error.
func (r *ChatRepository) List(ctx context.Context, userID string) ([]model.ChatSession, error) {
	raw, err := r.store.Get(ctx, chatKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.ChatSession{}, nil
		}
		return nil, fmt.Errorf("failed to get chat sessions: %w", err)
	}

	var sessions []model.ChatSession
	if err := unmarshalEnvelope(raw, &sessions); err != nil {
		r.logger.Warn("discarding unreadable chat sessions payload",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return []model.ChatSession{}, nil
	}

	sortSessions(sessions)
	return sessions, nil
}

// SaveAll replaces the user's whole session list
func (r *ChatRepository) SaveAll(ctx context.Context, userID string, sessions []model.ChatSession) error {
	sortSessions(sessions)

	raw, err := marshalEnvelope(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode chat sessions: %w", err)
	}

	if err := r.store.Set(ctx, chatKey(userID), raw); err != nil {
		return fmt.Errorf("failed to save chat sessions: %w", err)
	}

	return nil
}

// DeleteAll removes every session for the user
func (r *ChatRepository) DeleteAll(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, chatKey(userID)); err != nil {
		return fmt.Errorf("failed to delete chat sessions: %w", err)
	}
	return nil
}

func sortSessions(sessions []model.ChatSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastModified.After(sessions[j].LastModified)
	})
}
