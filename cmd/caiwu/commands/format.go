package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
)

// printHeader prints a titled block header
func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// printReport prints the terminal summary of an analysis
func printReport(w io.Writer, r *contracts.AnalysisReport) {
	printHeader(w, report.Title(r))

	if r.ReportDate != "" {
		fmt.Fprintf(w, "  报告期    : %s\n", r.ReportDate)
	}
	fmt.Fprintf(w, "  行业      : %s (%s)\n", r.Industry.Industry.Name, r.Industry.Industry.ID)
	fmt.Fprintf(w, "  基础评分  : %.0f/%.0f  %s\n", r.Health.TotalScore, r.Health.MaxScore, r.Health.RiskLabel)
	fmt.Fprintf(w, "  行业评分  : %.2f  %s (系数 %.2f)\n", r.Industry.NormalizedScore, r.Industry.RiskLabel, r.Industry.AdjustmentFactor)
	fmt.Fprintln(w, singleLine)

	for _, d := range r.Health.Dimensions {
		fmt.Fprintf(w, "  %-8s %s %5.1f/%-4.0f %s\n", d.Name, bar(d.Ratio(), 20), d.Score, d.MaxScore, d.Details)
	}
	fmt.Fprintln(w, singleLine)

	for _, s := range r.Industry.DimensionScores {
		value := "-"
		if s.Value != nil {
			value = fmt.Sprintf("%.2f", *s.Value)
		}
		fmt.Fprintf(w, "  %-14s %10s  [%s]  %6.2f  %s\n", s.Name, value, s.IndustryRange, s.Score, s.RatingLabel)
	}

	for _, note := range r.Industry.AdjustmentNotes {
		fmt.Fprintf(w, "  ⚠️  %s\n", note)
	}

	fmt.Fprintln(w, singleLine)
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
	}

	if len(r.News) > 0 {
		fmt.Fprintln(w, singleLine)
		for _, h := range r.News {
			fmt.Fprintf(w, "  • %s\n", h.Title)
		}
	}
	fmt.Fprintln(w, doubleLine)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// bar renders a ratio in [0,1] as a fixed-width block bar
func bar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
