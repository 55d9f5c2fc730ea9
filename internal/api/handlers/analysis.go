package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/caiwu/internal/analysis"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/report"
	"github.com/wonny/caiwu/pkg/logger"
)

// Analyzer is the part of analysis.Analyzer the handlers use
type Analyzer interface {
	Analyze(ctx context.Context, sec contracts.Security) (*contracts.AnalysisReport, error)
	Score(sec contracts.Security, metrics contracts.MetricSet) *contracts.AnalysisReport
}

var _ Analyzer = (*analysis.Analyzer)(nil)

// AnalysisHandler handles analysis API endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	analyzer Analyzer
	theme    string
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. theme is the default HTML theme.
func NewAnalysisHandler(a Analyzer, theme string, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: a,
		theme:    theme,
		logger:   log,
	}
}

// GetAnalysis analyses the latest statements of a company
// GET /api/analysis/{code}?name=贵州茅台&sector=食品饮料
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.analyze(w, r)
	if !ok {
		return
	}
	respondData(w, rep)
}

// GetReport renders the analysis as a document
// GET /api/analysis/{code}/report?format=html|markdown&theme=dark
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	theme := q.Get("theme")
	if theme == "" {
		theme = h.theme
	}
	if _, ok := report.Themes[theme]; !ok {
		respondError(w, http.StatusBadRequest, "unknown theme: "+theme)
		return
	}

	format := q.Get("format")
	if format != "" && format != "html" && format != "markdown" {
		respondError(w, http.StatusBadRequest, "format must be html or markdown")
		return
	}

	rep, ok := h.analyze(w, r)
	if !ok {
		return
	}

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.Markdown(rep)))
		return
	}

	page, err := report.HTML(rep, theme)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render report")
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

// ScoreRequest carries caller-computed metrics
type ScoreRequest struct {
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	SectorTag string              `json:"sector_tag"`
	Metrics   contracts.MetricSet `json:"metrics"`
}

// Score scores caller-supplied metrics without fetching statements
// POST /api/score
func (h *AnalysisHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Code == "" && req.Name == "" && req.SectorTag == "" {
		respondError(w, http.StatusBadRequest, "one of code, name or sector_tag is required")
		return
	}

	rep := h.analyzer.Score(contracts.Security{
		Code:      req.Code,
		Name:      req.Name,
		SectorTag: req.SectorTag,
	}, req.Metrics)

	respondData(w, rep)
}

func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request) (*contracts.AnalysisReport, bool) {
	q := r.URL.Query()
	sec := contracts.Security{
		Code:      mux.Vars(r)["code"],
		Name:      q.Get("name"),
		SectorTag: q.Get("sector"),
	}

	rep, err := h.analyzer.Analyze(r.Context(), sec)
	switch {
	case err == nil:
		return rep, true
	case errors.Is(err, contracts.ErrInvalidCode):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrStatementsNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"code": sec.Code,
		}).Error("Failed to analyze")
		respondError(w, http.StatusBadGateway, "Failed to fetch statements")
	}
	return nil, false
}
