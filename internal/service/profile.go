package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidEmail is returned when authentication is attempted with a
// malformed email address
var ErrInvalidEmail = errors.New("invalid email address")

// ErrUnsupportedLanguage rejects languages the app does not ship
var ErrUnsupportedLanguage = errors.New("unsupported language")

// AppStage is where the client should land after the splash screen
type AppStage string

const (
	StageAuth       AppStage = "AUTH"
	StageOnboarding AppStage = "ONBOARDING"
	StageHome       AppStage = "HOME"
)

// ProfileService manages authentication, the stored profile, and the
// lightweight preference updates (theme, language, photo).
type ProfileService struct {
	profiles *repository.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles *repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// Authenticate signs a user in by email alone. A new email creates a
// minimal profile that still needs onboarding; a known email returns
// the stored profile unchanged.
func (s *ProfileService) Authenticate(ctx context.Context, email string) (model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Profile{}, ErrInvalidEmail
	}

	userID := UserIDForEmail(email)
	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	now := time.Now().UTC()
	profile = model.Profile{
		ID:          userID,
		Email:       email,
		Language:    model.LanguageEnglish,
		Theme:       model.ThemeLight,
		IsOnboarded: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return model.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}

	s.logger.Info("new account created", zap.String("user_id", userID))
	return profile, nil
}

// Stage resolves the post-splash destination for a user
func (s *ProfileService) Stage(ctx context.Context, userID string) (AppStage, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return StageAuth, nil
		}
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	if !profile.IsOnboarded {
		return StageOnboarding, nil
	}
	return StageHome, nil
}

// Get returns the stored profile
func (s *ProfileService) Get(ctx context.Context, userID string) (model.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

// ToggleTheme flips the profile between light and dark
func (s *ProfileService) ToggleTheme(ctx context.Context, userID string) (model.Profile, error) {
	return s.update(ctx, userID, func(p model.Profile) model.Profile {
		next := model.ThemeDark
		if p.Theme == model.ThemeDark {
			next = model.ThemeLight
		}
		return p.WithTheme(next)
	})
}

// SetLanguage switches the profile language
func (s *ProfileService) SetLanguage(ctx context.Context, userID string, lang model.Language) (model.Profile, error) {
	if lang != model.LanguageEnglish && lang != model.LanguageIndonesian {
		return model.Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return s.update(ctx, userID, func(p model.Profile) model.Profile {
		return p.WithLanguage(lang)
	})
}

// SetPhoto replaces the profile photo with a data URI. An empty value
// clears it.
func (s *ProfileService) SetPhoto(ctx context.Context, userID, dataURI string) (model.Profile, error) {
	return s.update(ctx, userID, func(p model.Profile) model.Profile {
		return p.WithPhoto(dataURI)
	})
}

func (s *ProfileService) update(ctx context.Context, userID string, apply func(model.Profile) model.Profile) (model.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	updated := apply(profile)
	if err := s.profiles.Save(ctx, updated); err != nil {
		return model.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}
	return updated, nil
}

// UserIDForEmail derives the stable user id for an email address.
// UUIDv5 keeps repeated sign-ins mapping to the same account.
func UserIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}
