package model

import "time"

// Gender represents the user's gender selection
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
	GenderOther  Gender = "Other"
)

// SkinType represents the user's declared skin type
type SkinType string

const (
	SkinTypeNormal      SkinType = "Normal"
	SkinTypeOily        SkinType = "Oily"
	SkinTypeDry         SkinType = "Dry"
	SkinTypeCombination SkinType = "Combination"
	SkinTypeSensitive   SkinType = "Sensitive"
)

// StressLevel represents the user's self-reported stress level
type StressLevel string

const (
	StressLevelLow    StressLevel = "Low"
	StressLevelMedium StressLevel = "Medium"
	StressLevelHigh   StressLevel = "High"
)

// Theme represents the UI theme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Language represents the UI language preference
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

// ChecklistItem represents one entry in the daily care checklist.
// Custom items carry both label variants so the list renders in either
// language without a lookup.
type ChecklistItem struct {
	ID      string `json:"id"`
	LabelEN string `json:"label_en"`
	LabelID string `json:"label_id"`
	Custom  bool   `json:"custom"`
}

// Profile is the user profile. It is treated as an immutable value:
// the With* methods return a modified copy and never mutate the receiver.
type Profile struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Gender      Gender          `json:"gender"`
	Age         int             `json:"age"`
	SkinType    SkinType        `json:"skin_type"`
	Allergies   []string        `json:"allergies,omitempty"`
	SleepHours  float64         `json:"sleep_hours"`
	WaterIntake float64         `json:"water_intake"`
	StressLevel StressLevel     `json:"stress_level"`
	Diet        string          `json:"diet"`
	Language    Language        `json:"language"`
	Theme       Theme           `json:"theme"`
	Photo       *string         `json:"photo,omitempty"`
	CustomItems []ChecklistItem `json:"custom_items,omitempty"`
	IsOnboarded bool            `json:"is_onboarded"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WithTheme returns a copy of the profile with the theme replaced.
func (p Profile) WithTheme(t Theme) Profile {
	p.Theme = t
	p.UpdatedAt = time.Now().UTC()
	return p
}

// WithLanguage returns a copy of the profile with the language replaced.
func (p Profile) WithLanguage(l Language) Profile {
	p.Language = l
	p.UpdatedAt = time.Now().UTC()
	return p
}

// WithPhoto returns a copy of the profile with the photo replaced.
// An empty photo clears it.
func (p Profile) WithPhoto(dataURI string) Profile {
	if dataURI == "" {
		p.Photo = nil
	} else {
		photo := dataURI
		p.Photo = &photo
	}
	p.UpdatedAt = time.Now().UTC()
	return p
}

// WithOnboarded returns a copy of the profile with the onboarding flag set.
func (p Profile) WithOnboarded(done bool) Profile {
	p.IsOnboarded = done
	p.UpdatedAt = time.Now().UTC()
	return p
}

// WithCustomItems returns a copy of the profile with the custom checklist
// items replaced. The slice is copied so callers cannot alias into the
// stored profile.
func (p Profile) WithCustomItems(items []ChecklistItem) Profile {
	copied := make([]ChecklistItem, len(items))
	copy(copied, items)
	p.CustomItems = copied
	p.UpdatedAt = time.Now().UTC()
	return p
}

// SkinMetrics holds the four per-concern scores of a skin analysis.
// Higher metric values mean more severe concerns.
type SkinMetrics struct {
	Acne         int `json:"acne"`
	Wrinkles     int `json:"wrinkles"`
	Pigmentation int `json:"pigmentation"`
	Texture      int `json:"texture"`
}

// ScanResult represents one completed skin analysis.
// OverallScore follows the opposite direction of the metrics: higher
// means healthier skin.
type ScanResult struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	OverallScore int         `json:"overall_score"`
	Metrics      SkinMetrics `json:"metrics"`
	Summary      string      `json:"summary"`
	Image        string      `json:"image"`
	LowLight     bool        `json:"low_light,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ChatRole represents the role of a chat message sender
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage represents a single message in a chat transcript
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSession represents a persisted conversation with the assistant
type ChatSession struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Messages     []ChatMessage `json:"messages"`
	LastModified time.Time     `json:"last_modified"`
}

// ChecklistDay represents the checked state of the checklist for one day.
// Checked maps item IDs to their checked flag; absent IDs are unchecked.
type ChecklistDay struct {
	DayKey    string          `json:"day_key"`
	Checked   map[string]bool `json:"checked"`
	Celebrate bool            `json:"celebrated"`
}

// Recommendation represents one suggested skincare ingredient
type Recommendation struct {
	IngredientID string `json:"ingredient_id"`
	NameEN       string `json:"name_en"`
	NameID       string `json:"name_id"`
	ReasonEN     string `json:"reason_en"`
	ReasonID     string `json:"reason_id"`
	Priority     int    `json:"priority"`
}

// SkinReport aggregates a user's recent activity for export
type SkinReport struct {
	UserID              string       `json:"user_id"`
	GeneratedAt         time.Time    `json:"generated_at"`
	PeriodDays          int          `json:"period_days"`
	Scans               []ScanResult `json:"scans"`
	AverageOverallScore int          `json:"average_overall_score"`
	ScoreTrend          int          `json:"score_trend"`
	ChecklistCompletion int          `json:"checklist_completion"`
}
