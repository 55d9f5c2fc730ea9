package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/wonny/caiwu/internal/contracts"
)

// DeckOptions configures the PDF slide deck
type DeckOptions struct {
	// FontPath is a UTF-8 TrueType font with CJK glyphs. Without it the deck
	// falls back to the core Helvetica font and English labels only.
	FontPath string
}

const (
	slideW = 297.0
	slideH = 210.0
	margin = 18.0
)

type rgb struct{ r, g, b int }

var (
	deckBackground = rgb{26, 35, 50}
	deckCard       = rgb{45, 63, 82}
	deckText       = rgb{255, 255, 255}
	deckMuted      = rgb{160, 174, 192}
	deckAccent     = rgb{74, 158, 255}
	deckGood       = rgb{46, 204, 113}
	deckWarn       = rgb{243, 156, 18}
	deckBad        = rgb{231, 76, 60}
)

var dimensionNamesEN = map[contracts.HealthDimension]string{
	contracts.DimensionProfitability: "Profitability",
	contracts.DimensionSolvency:      "Solvency",
	contracts.DimensionEfficiency:    "Efficiency",
	contracts.DimensionGrowth:        "Growth",
	contracts.DimensionCashflow:      "Cash flow",
}

type deck struct {
	pdf     *fpdf.Fpdf
	font    string
	unicode bool
}

// Deck renders a four-slide landscape PDF summary of the report
func Deck(r *contracts.AnalysisReport, opts DeckOptions) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(r.Security.Code+" financial deck", true)

	d := &deck{pdf: pdf, font: "Helvetica"}
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return nil, fmt.Errorf("deck font: %w", err)
		}
		pdf.AddUTF8Font("cjk", "", opts.FontPath)
		d.font = "cjk"
		d.unicode = true
	}

	d.titleSlide(r)
	d.healthSlide(r.Health)
	d.industrySlide(r.Industry)
	if d.unicode {
		d.recommendationSlide(r)
	} else {
		d.comparisonSlide(r.Industry)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("output deck: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *deck) newSlide(heading string) {
	d.pdf.AddPage()
	d.fill(deckBackground)
	d.pdf.Rect(0, 0, slideW, slideH, "F")
	d.fill(deckAccent)
	d.pdf.Rect(0, 0, slideW, 4, "F")

	if heading != "" {
		d.text(deckAccent, 22)
		d.pdf.SetXY(margin, margin)
		d.pdf.CellFormat(0, 12, heading, "", 1, "L", false, 0, "")
		d.pdf.Ln(4)
	}
}

func (d *deck) titleSlide(r *contracts.AnalysisReport) {
	d.newSlide("")

	title := r.Security.Code + " Financial Health"
	subtitle := r.Industry.Industry.NameEN
	if d.unicode {
		title = Title(r)
		subtitle = r.Industry.Industry.Name + "行业"
	}

	d.text(deckText, 30)
	d.pdf.SetXY(margin, 60)
	d.pdf.CellFormat(0, 16, title, "", 1, "L", false, 0, "")

	d.text(deckMuted, 16)
	d.pdf.SetX(margin)
	d.pdf.CellFormat(0, 10, subtitle, "", 1, "L", false, 0, "")

	d.scoreBox(margin, 110, "Health score", r.Health.TotalScore, string(r.Health.RiskLevel))
	d.scoreBox(margin+90, 110, "Industry score", r.Industry.NormalizedScore, string(r.Industry.RiskLevel))

	footer := "Report date " + r.ReportDate
	if r.ReportDate == "" {
		footer = "Scored from supplied metrics"
	}
	d.text(deckMuted, 10)
	d.pdf.SetXY(margin, slideH-margin-6)
	d.pdf.CellFormat(0, 6, footer, "", 0, "L", false, 0, "")
}

func (d *deck) scoreBox(x, y float64, label string, score float64, risk string) {
	d.fill(deckCard)
	d.pdf.Rect(x, y, 80, 50, "F")

	d.text(deckMuted, 11)
	d.pdf.SetXY(x+6, y+5)
	d.pdf.CellFormat(68, 6, label, "", 0, "L", false, 0, "")

	d.text(scoreColor(score), 32)
	d.pdf.SetXY(x+6, y+16)
	d.pdf.CellFormat(68, 16, number(score), "", 0, "L", false, 0, "")

	d.text(deckMuted, 11)
	d.pdf.SetXY(x+6, y+38)
	d.pdf.CellFormat(68, 6, "Risk: "+risk, "", 0, "L", false, 0, "")
}

func (d *deck) healthSlide(h contracts.GenericHealthResult) {
	d.newSlide(fmt.Sprintf("Health score %s / %s", number(h.TotalScore), number(h.MaxScore)))

	const labelW, barW, rowH = 50.0, 170.0, 20.0
	y := d.pdf.GetY() + 6
	for _, dim := range h.Dimensions {
		label := dimensionNamesEN[dim.Dimension]
		if d.unicode {
			label = dim.Name
		}

		d.text(deckText, 13)
		d.pdf.SetXY(margin, y)
		d.pdf.CellFormat(labelW, 10, label, "", 0, "L", false, 0, "")

		d.fill(deckCard)
		d.pdf.Rect(margin+labelW, y+1, barW, 8, "F")
		d.fill(scoreColor(dim.Ratio() * 100))
		d.pdf.Rect(margin+labelW, y+1, barW*dim.Ratio(), 8, "F")

		d.text(deckMuted, 12)
		d.pdf.SetXY(margin+labelW+barW+4, y)
		d.pdf.CellFormat(30, 10, number(dim.Score)+" / "+number(dim.MaxScore), "", 0, "L", false, 0, "")

		y += rowH
	}
}

func (d *deck) industrySlide(ind contracts.IndustryScoreResult) {
	d.newSlide(fmt.Sprintf("%s benchmark  x%.2f", ind.Industry.NameEN, ind.AdjustmentFactor))

	headers := []string{"Metric", "Value", "Range", "Ideal", "Score", "Weight"}
	widths := []float64{70, 35, 50, 35, 35, 35}
	d.tableHeader(headers, widths)

	for _, s := range ind.DimensionScores {
		label := string(s.Metric)
		if d.unicode {
			label = s.Name
		}
		d.tableRow([]string{
			label,
			pointer(s.Value),
			s.IndustryRange,
			number(s.IndustryIdeal),
			fmt.Sprintf("%.2f", s.Score),
			fmt.Sprintf("%.2f", s.Weight),
		}, widths, scoreColor(s.Score))
	}
}

func (d *deck) recommendationSlide(r *contracts.AnalysisReport) {
	d.newSlide("投资建议")

	d.text(deckText, 13)
	for i, rec := range r.Recommendations {
		d.pdf.SetX(margin)
		d.pdf.MultiCell(slideW-2*margin, 8, fmt.Sprintf("%d. %s", i+1, rec), "", "L", false)
		d.pdf.Ln(2)
	}

	if len(r.Assessment.Concerns) > 0 {
		d.pdf.Ln(4)
		d.text(deckWarn, 13)
		d.pdf.SetX(margin)
		d.pdf.MultiCell(slideW-2*margin, 8, "需要关注："+strings.Join(r.Assessment.Concerns, "；"), "", "L", false)
	}
}

func (d *deck) comparisonSlide(ind contracts.IndustryScoreResult) {
	d.newSlide("Versus industry ideal")

	headers := []string{"Metric", "Company", "Ideal", "Difference", "Status"}
	widths := []float64{80, 45, 45, 45, 45}
	d.tableHeader(headers, widths)

	for _, c := range ind.IndustryComparison {
		color := deckText
		switch c.Status {
		case contracts.StatusAbove:
			color = deckGood
		case contracts.StatusBelow:
			color = deckBad
		}
		d.tableRow([]string{
			string(c.Metric),
			number(c.CompanyValue),
			number(c.IndustryIdeal),
			fmt.Sprintf("%+.2f%%", c.DifferencePct),
			string(c.Status),
		}, widths, color)
	}
}

func (d *deck) tableHeader(headers []string, widths []float64) {
	d.fill(deckAccent)
	d.text(deckText, 12)
	d.pdf.SetX(margin)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], 10, h, "", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
}

// tableRow draws one row; the last cell takes the status colour
func (d *deck) tableRow(cells []string, widths []float64, status rgb) {
	d.fill(deckCard)
	d.pdf.SetX(margin)
	for i, c := range cells {
		color := deckText
		if i == len(cells)-1 {
			color = status
		}
		d.text(color, 11)
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.pdf.CellFormat(widths[i], 9, c, "B", 0, align, true, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *deck) fill(c rgb) {
	d.pdf.SetFillColor(c.r, c.g, c.b)
}

func (d *deck) text(c rgb, size float64) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
	d.pdf.SetFont(d.font, "", size)
}

func scoreColor(score float64) rgb {
	switch {
	case score >= 60:
		return deckGood
	case score >= 40:
		return deckWarn
	default:
		return deckBad
	}
}
