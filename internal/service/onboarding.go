package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// ErrInvalidAnswers is returned when a wizard step's answers fail
// validation
var ErrInvalidAnswers = errors.New("invalid onboarding answers")

// Onboarding answer defaults. Any field left empty by the wizard is
// filled from these before the profile is marked onboarded.
const (
	defaultSleepHours  = 7.0
	defaultWaterIntake = 1.5
	defaultDiet        = "Balanced"
)

// AllergyPresets are the selectable allergy options shown during
// onboarding. Free-text entries are accepted alongside them.
var AllergyPresets = []string{"Parabens", "Sulfates", "Fragrance", "Alcohol"}

// OnboardingStep represents one screen of the onboarding wizard
type OnboardingStep struct {
	ID      string   `json:"id"`
	TitleEN string   `json:"title_en"`
	TitleID string   `json:"title_id"`
	Fields  []string `json:"fields"`
}

// onboardingSteps is the fixed three-step wizard sequence
var onboardingSteps = []OnboardingStep{
	{
		ID:      "basics",
		TitleEN: "Tell us about yourself",
		TitleID: "Ceritakan tentang dirimu",
		Fields:  []string{"name", "gender", "age"},
	},
	{
		ID:      "skin",
		TitleEN: "Your skin",
		TitleID: "Kulitmu",
		Fields:  []string{"skin_type", "allergies"},
	},
	{
		ID:      "lifestyle",
		TitleEN: "Your lifestyle",
		TitleID: "Gaya hidupmu",
		Fields:  []string{"sleep_hours", "water_intake", "stress_level", "diet"},
	},
}

// OnboardingAnswers carries everything the wizard collects. Zero
// values mean the user skipped the field.
type OnboardingAnswers struct {
	Name        string            `json:"name"`
	Gender      model.Gender      `json:"gender"`
	Age         int               `json:"age"`
	SkinType    model.SkinType    `json:"skin_type"`
	Allergies   []string          `json:"allergies"`
	SleepHours  float64           `json:"sleep_hours"`
	WaterIntake float64           `json:"water_intake"`
	StressLevel model.StressLevel `json:"stress_level"`
	Diet        string            `json:"diet"`
}

// OnboardingService walks a user through the wizard and finalizes
// their profile.
type OnboardingService struct {
	profiles *repository.ProfileRepository
	logger   *zap.Logger
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(profiles *repository.ProfileRepository, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		profiles: profiles,
		logger:   logger,
	}
}

// Steps returns the wizard sequence
func (s *OnboardingService) Steps() []OnboardingStep {
	steps := make([]OnboardingStep, len(onboardingSteps))
	copy(steps, onboardingSteps)
	return steps
}

// TotalSteps returns the number of wizard screens
func (s *OnboardingService) TotalSteps() int {
	return len(onboardingSteps)
}

// ValidateStep checks the answers relevant to one wizard step. Later
// steps do not re-validate earlier fields, so the client can submit
// incrementally.
func (s *OnboardingService) ValidateStep(stepID string, answers OnboardingAnswers) error {
	switch stepID {
	case "basics":
		if strings.TrimSpace(answers.Name) == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidAnswers)
		}
		if answers.Age < 0 || answers.Age > 120 {
			return fmt.Errorf("%w: age must be between 0 and 120", ErrInvalidAnswers)
		}
		if answers.Gender != "" && !validGender(answers.Gender) {
			return fmt.Errorf("%w: invalid gender: %s", ErrInvalidAnswers, answers.Gender)
		}
	case "skin":
		if answers.SkinType != "" && !validSkinType(answers.SkinType) {
			return fmt.Errorf("%w: invalid skin type: %s", ErrInvalidAnswers, answers.SkinType)
		}
	case "lifestyle":
		if answers.SleepHours < 0 || answers.SleepHours > 24 {
			return fmt.Errorf("%w: sleep hours must be between 0 and 24", ErrInvalidAnswers)
		}
		if answers.WaterIntake < 0 || answers.WaterIntake > 20 {
			return fmt.Errorf("%w: water intake must be between 0 and 20 liters", ErrInvalidAnswers)
		}
		if answers.StressLevel != "" && !validStressLevel(answers.StressLevel) {
			return fmt.Errorf("%w: invalid stress level: %s", ErrInvalidAnswers, answers.StressLevel)
		}
	default:
		return fmt.Errorf("%w: unknown onboarding step: %s", ErrInvalidAnswers, stepID)
	}
	return nil
}

// Complete applies the collected answers, fills defaults for skipped
// fields, and marks the profile onboarded.
func (s *OnboardingService) Complete(ctx context.Context, userID string, answers OnboardingAnswers) (model.Profile, error) {
	for _, step := range onboardingSteps {
		if err := s.ValidateStep(step.ID, answers); err != nil {
			return model.Profile{}, err
		}
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	applyDefaults(&answers)

	profile.Name = strings.TrimSpace(answers.Name)
	profile.Gender = answers.Gender
	profile.Age = answers.Age
	profile.SkinType = answers.SkinType
	profile.Allergies = answers.Allergies
	profile.SleepHours = answers.SleepHours
	profile.WaterIntake = answers.WaterIntake
	profile.StressLevel = answers.StressLevel
	profile.Diet = answers.Diet
	profile = profile.WithOnboarded(true)

	if err := s.profiles.Save(ctx, profile); err != nil {
		return model.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}

	s.logger.Info("onboarding completed",
		zap.String("user_id", userID),
		zap.String("skin_type", string(profile.SkinType)),
	)

	return profile, nil
}

func applyDefaults(answers *OnboardingAnswers) {
	if answers.Gender == "" {
		answers.Gender = model.GenderFemale
	}
	if answers.SkinType == "" {
		answers.SkinType = model.SkinTypeNormal
	}
	if answers.SleepHours == 0 {
		answers.SleepHours = defaultSleepHours
	}
	if answers.WaterIntake == 0 {
		answers.WaterIntake = defaultWaterIntake
	}
	if answers.StressLevel == "" {
		answers.StressLevel = model.StressLevelMedium
	}
	if strings.TrimSpace(answers.Diet) == "" {
		answers.Diet = defaultDiet
	}
}

func validGender(g model.Gender) bool {
	switch g {
	case model.GenderFemale, model.GenderMale, model.GenderOther:
		return true
	}
	return false
}

func validSkinType(t model.SkinType) bool {
	switch t {
	case model.SkinTypeNormal, model.SkinTypeOily, model.SkinTypeDry,
		model.SkinTypeCombination, model.SkinTypeSensitive:
		return true
	}
	return false
}

func validStressLevel(l model.StressLevel) bool {
	switch l {
	case model.StressLevelLow, model.StressLevelMedium, model.StressLevelHigh:
		return true
	}
	return false
}
