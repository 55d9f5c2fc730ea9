package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/wonny/caiwu/internal/contracts"
)

// SaveJSON writes the report as indented JSON to {dir}/{code}_{name}.json
func SaveJSON(dir string, r *contracts.AnalysisReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	name := r.Security.Code
	if safe := safeName(r.Security.Name); safe != "" {
		name += "_" + safe
	}
	return write(dir, name+".json", data)
}

// SaveHTML writes {dir}/{code}_financial_report.html
func SaveHTML(dir string, r *contracts.AnalysisReport, theme string) (string, error) {
	data, err := HTML(r, theme)
	if err != nil {
		return "", err
	}
	return write(dir, r.Security.Code+"_financial_report.html", data)
}

// SaveDeck writes {dir}/{code}_financial_deck.pdf
func SaveDeck(dir string, r *contracts.AnalysisReport, opts DeckOptions) (string, error) {
	data, err := Deck(r, opts)
	if err != nil {
		return "", err
	}
	return write(dir, r.Security.Code+"_financial_deck.pdf", data)
}

func write(dir, file string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", file, err)
	}
	return path, nil
}

// safeName keeps letters and digits only: "*ST 康美" → "ST康美"
func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
}
