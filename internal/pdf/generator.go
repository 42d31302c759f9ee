package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Generator renders skin progress reports as PDF documents
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Generate creates a PDF document from the aggregated report
func (g *Generator) Generate(report *model.SkinReport, profile model.Profile) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("user_id", report.UserID),
		zap.Int("period_days", report.PeriodDays),
	)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	g.addTitle(doc, report, profile)
	g.addOverview(doc, report)
	g.addScanTimeline(doc, report.Scans)
	g.addConcernBreakdown(doc, report.Scans)
	g.addRoutineAdherence(doc, report)
	g.addDisclaimer(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *Generator) addTitle(doc *gofpdf.Fpdf, report *model.SkinReport, profile model.Profile) {
	doc.SetFont("Arial", "B", 20)
	doc.CellFormat(0, 10, "Skin Progress Report", "", 1, "C", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "", 12)
	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	doc.CellFormat(0, 8, fmt.Sprintf("Name: %s", name), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, fmt.Sprintf("Skin Type: %s", profile.SkinType), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, fmt.Sprintf("Period: last %d days", report.PeriodDays), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	doc.Ln(10)
}

// addSectionHeader adds a section header
func (g *Generator) addSectionHeader(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Arial", "B", 14)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	doc.Ln(3)
	doc.SetFont("Arial", "", 10)
}

// addOverview adds the score summary section
func (g *Generator) addOverview(doc *gofpdf.Fpdf, report *model.SkinReport) {
	g.addSectionHeader(doc, "Overview")

	if len(report.Scans) == 0 {
		doc.CellFormat(0, 8, "No scans recorded during this period.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	doc.CellFormat(0, 6, fmt.Sprintf("Scans completed: %d", len(report.Scans)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Average skin score: %d/100", report.AverageOverallScore), "", 1, "L", false, 0, "")

	trend := "stable"
	if report.ScoreTrend > 0 {
		trend = fmt.Sprintf("improved by %d points", report.ScoreTrend)
	} else if report.ScoreTrend < 0 {
		trend = fmt.Sprintf("declined by %d points", -report.ScoreTrend)
	}
	doc.CellFormat(0, 6, fmt.Sprintf("Trend over period: %s", trend), "", 1, "L", false, 0, "")
	doc.Ln(5)
}

// addScanTimeline lists each scan with its score and summary
func (g *Generator) addScanTimeline(doc *gofpdf.Fpdf, scans []model.ScanResult) {
	g.addSectionHeader(doc, "Scan Timeline")

	if len(scans) == 0 {
		doc.CellFormat(0, 8, "No scans recorded during this period.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	for _, scan := range scans {
		dateStr := scan.CreatedAt.Format("2006-01-02 15:04")
		doc.SetFont("Arial", "B", 10)
		doc.CellFormat(0, 6, fmt.Sprintf("%s - Score %d/100", dateStr, scan.OverallScore), "", 1, "L", false, 0, "")
		doc.SetFont("Arial", "", 10)
		doc.CellFormat(0, 5, fmt.Sprintf("  Acne: %d  Wrinkles: %d  Pigmentation: %d  Texture: %d",
			scan.Metrics.Acne, scan.Metrics.Wrinkles, scan.Metrics.Pigmentation, scan.Metrics.Texture), "", 1, "L", false, 0, "")
		if scan.Summary != "" {
			doc.MultiCell(0, 5, fmt.Sprintf("  %s", scan.Summary), "", "L", false)
		}
		doc.Ln(2)
	}
	doc.Ln(5)
}

// addConcernBreakdown shows per-concern averages across the period
func (g *Generator) addConcernBreakdown(doc *gofpdf.Fpdf, scans []model.ScanResult) {
	g.addSectionHeader(doc, "Concern Breakdown")

	if len(scans) == 0 {
		doc.CellFormat(0, 8, "No concern data recorded.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	var acne, wrinkles, pigmentation, texture int
	for _, scan := range scans {
		acne += scan.Metrics.Acne
		wrinkles += scan.Metrics.Wrinkles
		pigmentation += scan.Metrics.Pigmentation
		texture += scan.Metrics.Texture
	}

	count := len(scans)
	doc.CellFormat(0, 6, fmt.Sprintf("Average acne severity: %d/100", acne/count), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Average wrinkle severity: %d/100", wrinkles/count), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Average pigmentation severity: %d/100", pigmentation/count), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Average texture severity: %d/100", texture/count), "", 1, "L", false, 0, "")
	doc.Ln(5)
}

// addRoutineAdherence adds the checklist completion section
func (g *Generator) addRoutineAdherence(doc *gofpdf.Fpdf, report *model.SkinReport) {
	g.addSectionHeader(doc, "Routine Adherence")
	doc.CellFormat(0, 6, fmt.Sprintf("Daily checklist completion: %d%%", report.ChecklistCompletion), "", 1, "L", false, 0, "")
	doc.Ln(5)
}

// addDisclaimer adds the non-medical-advice footer
func (g *Generator) addDisclaimer(doc *gofpdf.Fpdf) {
	doc.Ln(5)
	doc.SetFont("Arial", "I", 9)
	doc.MultiCell(0, 5,
		fmt.Sprintf("This report was generated on %s by automated image analysis. It is not medical advice. Consult a dermatologist for persistent or severe skin conditions.",
			time.Now().Format("2006-01-02")), "", "L", false)
}
