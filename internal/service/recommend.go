package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// metricConcernThreshold is the metric value above which a scan result
// starts driving ingredient suggestions
const metricConcernThreshold = 25

// ingredient is one entry in the fixed catalog
type ingredient struct {
	id     string
	name   string
	// matchReason is the fallback shown when the ingredient was picked
	// by skin type rather than a scan finding
	matchReasonEN string
	matchReasonID string
}

var ingredientCatalog = []ingredient{
	{"salicylic_acid", "Salicylic Acid (BHA)", "Best for Oily & Acne-prone skin", "Terbaik untuk kulit Berminyak & Berjerawat"},
	{"tea_tree", "Tea Tree Oil", "Natural solution for Acne", "Solusi alami untuk Jerawat"},
	{"azelaic_acid", "Azelaic Acid", "Great for Acne & Redness", "Bagus untuk Jerawat & Kemerahan"},
	{"vitamin_c", "Vitamin C", "Targets Pigmentation & Dullness", "Target Pigmentasi & Kulit Kusam"},
	{"alpha_arbutin", "Alpha Arbutin", "Safe for Pigmentation spots", "Aman untuk noda Pigmentasi"},
	{"niacinamide", "Niacinamide", "Versatile for Oil control & Pigmentation", "Serbaguna untuk kontrol Minyak & Pigmentasi"},
	{"retinol", "Retinol", "Anti-aging powerhouse for Wrinkles", "Anti-aging ampuh untuk Kerutan"},
	{"peptides", "Peptides", "Firming support for Aging skin", "Mengencangkan kulit Menua"},
	{"glycolic_acid", "Glycolic Acid (AHA)", "Smooths Texture & Fine lines", "Menghaluskan Tekstur & Garis halus"},
	{"hyaluronic_acid", "Hyaluronic Acid", "Essential for Dry & Dehydrated skin", "Penting untuk kulit Kering & Dehidrasi"},
	{"ceramides", "Ceramides", "Repair for Dry & Sensitive skin", "Perbaikan untuk kulit Kering & Sensitif"},
	{"squalane", "Squalane", "Light hydration for all types", "Hidrasi ringan untuk semua tipe"},
	{"centella", "Centella Asiatica", "Calming for Sensitive skin", "Menenangkan untuk kulit Sensitif"},
	{"snail_mucin", "Snail Mucin", "Repair & Hydration boost", "Peningkat Perbaikan & Hidrasi"},
}

// RecommendService derives personalized ingredient suggestions from the
// latest scan metrics and the profile's skin type.
type RecommendService struct {
	profiles *repository.ProfileRepository
	scans    *repository.ScanRepository
	logger   *zap.Logger
}

// NewRecommendService creates a new RecommendService
func NewRecommendService(profiles *repository.ProfileRepository, scans *repository.ScanRepository, logger *zap.Logger) *RecommendService {
	return &RecommendService{
		profiles: profiles,
		scans:    scans,
		logger:   logger,
	}
}

// picker accumulates suggestions, deduplicating by id and keeping the
// highest priority with its reason.
type picker struct {
	items map[string]*model.Recommendation
}

func newPicker() *picker {
	return &picker{items: make(map[string]*model.Recommendation)}
}

func (p *picker) add(id, reasonEN, reasonID string, priority int) {
	if existing, ok := p.items[id]; ok {
		if priority > existing.Priority {
			existing.Priority = priority
			existing.ReasonEN = reasonEN
			existing.ReasonID = reasonID
		}
		return
	}

	for _, ing := range ingredientCatalog {
		if ing.id == id {
			p.items[id] = &model.Recommendation{
				IngredientID: id,
				NameEN:       ing.name,
				NameID:       ing.name,
				ReasonEN:     reasonEN,
				ReasonID:     reasonID,
				Priority:     priority,
			}
			return
		}
	}
}

func (p *picker) sorted() []model.Recommendation {
	out := make([]model.Recommendation, 0, len(p.items))
	for _, item := range p.items {
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Recommend returns the personalized ingredient list, highest priority
// first. Scan findings outrank skin type matches; with neither a scan
// nor a profile the list is empty.
func (s *RecommendService) Recommend(ctx context.Context, userID string) ([]model.Recommendation, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.Recommendation{}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	scans, err := s.scans.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan history: %w", err)
	}

	p := newPicker()
	if len(scans) > 0 {
		s.addScanRules(p, scans[0].Metrics)
	}
	addSkinTypeRules(p, profile.SkinType)

	recs := p.sorted()
	s.logger.Debug("recommendations computed",
		zap.String("user_id", userID),
		zap.Int("count", len(recs)),
		zap.Bool("scan_based", len(scans) > 0),
	)
	return recs, nil
}

// addScanRules maps elevated metrics from the most recent scan onto
// ingredients. Priorities are the metric value plus a per-ingredient
// bonus so the strongest concern floats to the top.
func (s *RecommendService) addScanRules(p *picker, m model.SkinMetrics) {
	if m.Acne > metricConcernThreshold {
		severityEN, severityID := "Moderate", "Sedang"
		if m.Acne > 50 {
			severityEN, severityID = "High", "Tinggi"
		}
		p.add("salicylic_acid",
			fmt.Sprintf("Targeting detected acne (%s)", severityEN),
			fmt.Sprintf("Menargetkan jerawat terdeteksi (%s)", severityID),
			m.Acne+20)
		p.add("tea_tree", "Natural anti-bacterial for acne", "Anti-bakteri alami untuk jerawat", m.Acne+10)
		p.add("azelaic_acid", "Reduces acne redness", "Mengurangi kemerahan jerawat", m.Acne+15)
	}

	if m.Wrinkles > metricConcernThreshold {
		p.add("retinol", "Targeting signs of aging", "Menargetkan tanda penuaan", m.Wrinkles+20)
		p.add("peptides", "Collagen support for firming", "Dukungan kolagen untuk pengencangan", m.Wrinkles+15)
		p.add("hyaluronic_acid", "Plumps fine lines", "Mengisi garis halus", m.Wrinkles+10)
	}

	if m.Pigmentation > metricConcernThreshold {
		p.add("vitamin_c", "Brightens detected dark spots", "Mencerahkan noda hitam terdeteksi", m.Pigmentation+20)
		p.add("alpha_arbutin", "Targeted spot treatment", "Perawatan noda spesifik", m.Pigmentation+15)
		p.add("niacinamide", "Evens out skin tone", "Meratakan warna kulit", m.Pigmentation+10)
		p.add("glycolic_acid", "Exfoliates pigmented cells", "Mengangkat sel berpigmen", m.Pigmentation+5)
	}

	if m.Texture > metricConcernThreshold {
		p.add("glycolic_acid", "Smoothes detected texture", "Menghaluskan tekstur terdeteksi", m.Texture+15)
		p.add("snail_mucin", "Repairs skin texture", "Memperbaiki tekstur kulit", m.Texture+10)
		p.add("squalane", "Softens rough skin", "Melembutkan kulit kasar", m.Texture+5)
	}
}

func addSkinTypeRules(p *picker, skinType model.SkinType) {
	switch skinType {
	case model.SkinTypeOily:
		p.add("salicylic_acid", "Matches Oily skin type", "Sesuai tipe kulit Berminyak", 10)
		p.add("niacinamide", "Oil control for Oily skin", "Kontrol minyak untuk kulit Berminyak", 10)
	case model.SkinTypeDry:
		p.add("hyaluronic_acid", "Hydration for Dry skin", "Hidrasi untuk kulit Kering", 10)
		p.add("ceramides", "Barrier repair for Dry skin", "Perbaikan barrier kulit Kering", 10)
		p.add("squalane", "Moisturizer for Dry skin", "Pelembap untuk kulit Kering", 8)
	case model.SkinTypeCombination:
		p.add("niacinamide", "Balances Combination skin", "Menyeimbangkan kulit Kombinasi", 10)
	case model.SkinTypeSensitive:
		p.add("centella", "Soothing for Sensitive skin", "Menenangkan kulit Sensitif", 12)
		p.add("ceramides", "Strengthens Sensitive barrier", "Memperkuat barrier Sensitif", 10)
	default:
		p.add("vitamin_c", "Maintenance for Normal skin", "Perawatan kulit Normal", 5)
	}
}
