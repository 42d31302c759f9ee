package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// ErrUnknownChecklistItem is returned when toggling an id that is
// neither a default item nor one of the user's custom items
var ErrUnknownChecklistItem = errors.New("unknown checklist item")

// ErrEmptyItemLabel rejects custom items without a label
var ErrEmptyItemLabel = errors.New("item label is required")

// defaultChecklistItems are present for every user in fixed order.
// Custom items from the profile are appended after them.
var defaultChecklistItems = []model.ChecklistItem{
	{ID: "sleep", LabelEN: "Sleep 7-8 hours", LabelID: "Tidur 7-8 jam"},
	{ID: "am_skin", LabelEN: "Morning skincare routine", LabelID: "Skincare pagi"},
	{ID: "water", LabelEN: "Drink 2L of water", LabelID: "Minum air 2L"},
	{ID: "junkfood", LabelEN: "Avoid junk food", LabelID: "Hindari junk food"},
	{ID: "pm_skin", LabelEN: "Night skincare routine", LabelID: "Skincare malam"},
}

// DayView is the resolved checklist for one day
type DayView struct {
	DayKey    string                `json:"day_key"`
	Items     []model.ChecklistItem `json:"items"`
	Checked   map[string]bool       `json:"checked"`
	Progress  int                   `json:"progress"`
	Celebrate bool                  `json:"celebrate"`
}

// ChecklistService manages the daily care checklist: fixed default
// items plus the user's custom items, per-day checked state, and the
// all-done celebration.
type ChecklistService struct {
	days     *repository.ChecklistRepository
	profiles *repository.ProfileRepository
	location *time.Location
	logger   *zap.Logger
}

// NewChecklistService creates a new ChecklistService. A nil location
// falls back to the local timezone for day boundaries.
func NewChecklistService(days *repository.ChecklistRepository, profiles *repository.ProfileRepository, location *time.Location, logger *zap.Logger) *ChecklistService {
	if location == nil {
		location = time.Local
	}
	return &ChecklistService{
		days:     days,
		profiles: profiles,
		location: location,
		logger:   logger,
	}
}

// DailyKey returns the storage key for the calendar day containing t.
// Day boundaries follow the configured timezone, so the checklist
// rolls over at local midnight.
func (s *ChecklistService) DailyKey(t time.Time) string {
	return t.In(s.location).Format("2006-01-02")
}

// Items returns the full checklist for the user: defaults first, then
// custom items in profile order.
func (s *ChecklistService) Items(ctx context.Context, userID string) ([]model.ChecklistItem, error) {
	items := make([]model.ChecklistItem, len(defaultChecklistItems))
	copy(items, defaultChecklistItems)

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return items, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return append(items, profile.CustomItems...), nil
}

// Day returns the resolved checklist state for one day. A day with no
// stored state comes back fully unchecked.
func (s *ChecklistService) Day(ctx context.Context, userID, dayKey string) (DayView, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return DayView{}, err
	}

	day, err := s.days.GetDay(ctx, userID, dayKey)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to load checklist day: %w", err)
	}

	return s.buildView(items, dayKey, day), nil
}

// Toggle flips one item's checked state for the day and persists the
// result. The celebration fires exactly once per run of everything
// being checked: unchecking any item re-arms it.
func (s *ChecklistService) Toggle(ctx context.Context, userID, dayKey, itemID string) (DayView, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return DayView{}, err
	}

	if !containsItem(items, itemID) {
		return DayView{}, ErrUnknownChecklistItem
	}

	day, err := s.days.GetDay(ctx, userID, dayKey)
	if err != nil {
		return DayView{}, fmt.Errorf("failed to load checklist day: %w", err)
	}
	if day.Checked == nil {
		day.Checked = make(map[string]bool)
	}
	day.DayKey = dayKey

	day.Checked[itemID] = !day.Checked[itemID]

	celebrateNow := false
	if allChecked(items, day.Checked) {
		if !day.Celebrate {
			day.Celebrate = true
			celebrateNow = true
		}
	} else {
		day.Celebrate = false
	}

	if err := s.days.SaveDay(ctx, userID, day); err != nil {
		return DayView{}, fmt.Errorf("failed to persist checklist day: %w", err)
	}

	view := s.buildView(items, dayKey, day)
	view.Celebrate = celebrateNow

	s.logger.Debug("checklist item toggled",
		zap.String("user_id", userID),
		zap.String("day_key", dayKey),
		zap.String("item_id", itemID),
		zap.Bool("checked", day.Checked[itemID]),
		zap.Int("progress", view.Progress),
	)

	return view, nil
}

// AddCustomItem appends a custom item to the user's profile checklist.
// IDs are sequential and never reused within the current item set.
func (s *ChecklistService) AddCustomItem(ctx context.Context, userID, labelEN, labelID string) (model.Profile, error) {
	labelEN = strings.TrimSpace(labelEN)
	labelID = strings.TrimSpace(labelID)
	if labelEN == "" && labelID == "" {
		return model.Profile{}, ErrEmptyItemLabel
	}
	if labelEN == "" {
		labelEN = labelID
	}
	if labelID == "" {
		labelID = labelEN
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	item := model.ChecklistItem{
		ID:      nextCustomID(profile.CustomItems),
		LabelEN: labelEN,
		LabelID: labelID,
		Custom:  true,
	}

	updated := profile.WithCustomItems(append(profile.CustomItems, item))
	if err := s.profiles.Save(ctx, updated); err != nil {
		return model.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}

	return updated, nil
}

// RemoveCustomItem deletes a custom item from the profile. Default
// items cannot be removed. Removing an unknown id is a no-op. The
// item's checked state for today is cleared so a later item reusing
// the freed id starts unchecked.
func (s *ChecklistService) RemoveCustomItem(ctx context.Context, userID, itemID string) (model.Profile, error) {
	if containsItem(defaultChecklistItems, itemID) {
		return model.Profile{}, ErrUnknownChecklistItem
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	kept := make([]model.ChecklistItem, 0, len(profile.CustomItems))
	for _, item := range profile.CustomItems {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}

	updated := profile.WithCustomItems(kept)
	if err := s.profiles.Save(ctx, updated); err != nil {
		return model.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}

	if err := s.clearCheckedToday(ctx, userID, itemID); err != nil {
		return model.Profile{}, err
	}

	return updated, nil
}

func (s *ChecklistService) clearCheckedToday(ctx context.Context, userID, itemID string) error {
	dayKey := s.DailyKey(time.Now())
	day, err := s.days.GetDay(ctx, userID, dayKey)
	if err != nil {
		return fmt.Errorf("failed to load checklist day: %w", err)
	}
	if _, ok := day.Checked[itemID]; !ok {
		return nil
	}

	delete(day.Checked, itemID)
	day.DayKey = dayKey
	if err := s.days.SaveDay(ctx, userID, day); err != nil {
		return fmt.Errorf("failed to persist checklist day: %w", err)
	}
	return nil
}

// CompletionRate reports the average daily progress over the stored
// days in the given key set. Days with no stored state count as zero.
func (s *ChecklistService) CompletionRate(ctx context.Context, userID string, dayKeys []string) (int, error) {
	if len(dayKeys) == 0 {
		return 0, nil
	}

	items, err := s.Items(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, key := range dayKeys {
		day, err := s.days.GetDay(ctx, userID, key)
		if err != nil {
			return 0, fmt.Errorf("failed to load checklist day: %w", err)
		}
		total += progress(items, day.Checked)
	}

	return int(math.Round(float64(total) / float64(len(dayKeys)))), nil
}

func (s *ChecklistService) buildView(items []model.ChecklistItem, dayKey string, day model.ChecklistDay) DayView {
	checked := make(map[string]bool, len(items))
	for _, item := range items {
		checked[item.ID] = day.Checked[item.ID]
	}

	return DayView{
		DayKey:   dayKey,
		Items:    items,
		Checked:  checked,
		Progress: progress(items, day.Checked),
	}
}

// progress is the checked percentage over the current item set,
// rounded to the nearest integer. Stale checked ids from removed
// custom items do not count.
func progress(items []model.ChecklistItem, checked map[string]bool) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if checked[item.ID] {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(items))))
}

func allChecked(items []model.ChecklistItem, checked map[string]bool) bool {
	for _, item := range items {
		if !checked[item.ID] {
			return false
		}
	}
	return len(items) > 0
}

func containsItem(items []model.ChecklistItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// nextCustomID picks the first custom_%d id not already in use
func nextCustomID(items []model.ChecklistItem) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("custom_%d", n)
		if !containsItem(items, id) {
			return id
		}
	}
}
