package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown chat session ids
var ErrSessionNotFound = errors.New("chat session not found")

// ErrEmptyMessage rejects blank chat input
var ErrEmptyMessage = errors.New("message text is required")

// titleLimit is where session titles derived from the first message are cut
const titleLimit = 30

// SendResult is the outcome of one chat turn. AccessMissing is set when
// the provider credential is absent or rejected; the transcript still
// carries the fallback reply so the conversation stays intact.
type SendResult struct {
	Session       model.ChatSession
	Reply         string
	AccessMissing bool
}

// ChatService manages assistant conversations: lazy session creation,
// transcript persistence, and replaying history into the provider.
type ChatService struct {
	sessions *repository.ChatRepository
	profiles *repository.ProfileRepository
	aiClient ai.Client
	logger   *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(sessions *repository.ChatRepository, profiles *repository.ProfileRepository, aiClient ai.Client, logger *zap.Logger) *ChatService {
	return &ChatService{
		sessions: sessions,
		profiles: profiles,
		aiClient: aiClient,
		logger:   logger,
	}
}

// List returns the user's sessions, most recently modified first
func (s *ChatService) List(ctx context.Context, userID string) ([]model.ChatSession, error) {
	return s.sessions.List(ctx, userID)
}

// New returns a fresh unsaved conversation holding only the welcome
// message. It is never persisted in this state.
func (s *ChatService) New(ctx context.Context, userID string) model.ChatSession {
	profile := s.profileOrNil(ctx, userID)

	return model.ChatSession{
		Messages: []model.ChatMessage{
			{
				Role:      model.ChatRoleModel,
				Content:   welcomeMessage(profile),
				CreatedAt: time.Now().UTC(),
			},
		},
		LastModified: time.Now().UTC(),
	}
}

// Send appends the user message, obtains the assistant reply, and
// persists the session. With an empty sessionID a session is created
// lazily, titled from this first message. A provider failure does not
// fail the send: the fallback apology becomes the reply.
func (s *ChatService) Send(ctx context.Context, userID, sessionID, text string) (SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SendResult{}, ErrEmptyMessage
	}

	sessions, err := s.sessions.List(ctx, userID)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to load chat sessions: %w", err)
	}

	profile := s.profileOrNil(ctx, userID)
	now := time.Now().UTC()

	var session model.ChatSession
	idx := -1
	if sessionID == "" {
		session = model.ChatSession{
			ID:    uuid.New().String(),
			Title: deriveTitle(text),
			Messages: []model.ChatMessage{
				{
					Role:      model.ChatRoleModel,
					Content:   welcomeMessage(profile),
					CreatedAt: now,
				},
			},
		}
	} else {
		for i := range sessions {
			if sessions[i].ID == sessionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return SendResult{}, ErrSessionNotFound
		}
		session = sessions[idx]
	}

	history := replayTurns(session.Messages)

	session.Messages = append(session.Messages, model.ChatMessage{
		Role:      model.ChatRoleUser,
		Content:   text,
		CreatedAt: now,
	})

	reply, chatErr := s.aiClient.Chat(ctx, buildChatSystemPrompt(profile), history, text)
	accessMissing := false
	if chatErr != nil {
		accessMissing = errors.Is(chatErr, ai.ErrAccessNotConfigured)
		s.logger.Error("chat completion failed, using fallback reply",
			zap.Error(chatErr),
			zap.String("user_id", userID),
			zap.String("session_id", session.ID),
			zap.Bool("access_missing", accessMissing),
		)
		reply = chatFallbackReply
	} else if strings.TrimSpace(reply) == "" {
		reply = emptyReplyFallback
	}

	session.Messages = append(session.Messages, model.ChatMessage{
		Role:      model.ChatRoleModel,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	})
	session.LastModified = time.Now().UTC()

	if idx >= 0 {
		sessions[idx] = session
	} else {
		sessions = append(sessions, session)
	}

	if err := s.sessions.SaveAll(ctx, userID, sessions); err != nil {
		return SendResult{}, fmt.Errorf("failed to persist chat session: %w", err)
	}

	s.logger.Info("chat message processed",
		zap.String("user_id", userID),
		zap.String("session_id", session.ID),
		zap.Int("transcript_length", len(session.Messages)),
	)

	return SendResult{
		Session:       session,
		Reply:         reply,
		AccessMissing: accessMissing,
	}, nil
}

// Delete removes a session. Deleting the active session is equivalent to
// starting a new conversation: the caller's next Send with an empty
// session id creates one lazily. Deleting an unknown id is a no-op.
func (s *ChatService) Delete(ctx context.Context, userID, sessionID string) error {
	sessions, err := s.sessions.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load chat sessions: %w", err)
	}

	kept := sessions[:0]
	for _, session := range sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}

	if err := s.sessions.SaveAll(ctx, userID, kept); err != nil {
		return fmt.Errorf("failed to persist chat sessions: %w", err)
	}

	return nil
}

// DeleteAll removes every session for the user
func (s *ChatService) DeleteAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteAll(ctx, userID)
}

func (s *ChatService) profileOrNil(ctx context.Context, userID string) *model.Profile {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil
	}
	return &profile
}

// replayTurns converts the stored transcript into provider turns. The
// leading welcome message is local decoration; the provider never sees it.
func replayTurns(messages []model.ChatMessage) []ai.Turn {
	start := 0
	for start < len(messages) && messages[start].Role == model.ChatRoleModel {
		start++
	}

	turns := make([]ai.Turn, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		role := ai.RoleUser
		if msg.Role == model.ChatRoleModel {
			role = ai.RoleModel
		}
		turns = append(turns, ai.Turn{Role: role, Text: msg.Content})
	}
	return turns
}

// deriveTitle cuts the first user message down to a session title
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return text
}
