package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/classifier"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/logger"
)

// IndustryHandler serves the benchmark table and the classifier
// ⭐ SSOT: 업종 API 핸들러는 이 구조체에서만
type IndustryHandler struct {
	table      *benchmark.Table
	classifier *classifier.Classifier
	logger     *logger.Logger
}

// NewIndustryHandler creates a new industry handler
func NewIndustryHandler(table *benchmark.Table, c *classifier.Classifier, log *logger.Logger) *IndustryHandler {
	return &IndustryHandler{
		table:      table,
		classifier: c,
		logger:     log,
	}
}

// IndustrySummary is one row of the industry list
type IndustrySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEN      string `json:"name_en"`
	Description string `json:"description"`
	Metrics     int    `json:"metrics"`
	Rules       int    `json:"special_rules"`
}

// ListIndustries returns every industry in table order
// GET /api/industries
func (h *IndustryHandler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	result := make([]IndustrySummary, 0, len(h.table.Industries))
	for _, ind := range h.table.Industries {
		result = append(result, IndustrySummary{
			ID:          ind.ID,
			Name:        ind.Name,
			NameEN:      ind.NameEN,
			Description: ind.Description,
			Metrics:     len(ind.Metrics),
			Rules:       len(ind.SpecialRules),
		})
	}
	respondData(w, result)
}

// GetIndustry returns one industry with its benchmarks and rules
// GET /api/industries/{id}
func (h *IndustryHandler) GetIndustry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ind, ok := h.table.Industry(id)
	if !ok {
		respondError(w, http.StatusNotFound, contracts.ErrUnknownIndustry.Error()+": "+id)
		return
	}
	respondData(w, ind)
}

// ClassifyResponse is the classifier outcome for one security
type ClassifyResponse struct {
	Code     string             `json:"code"`
	Industry string             `json:"industry"`
	Name     string             `json:"name"`
	Matches  []classifier.Match `json:"matches,omitempty"`
}

// Classify assigns an industry to a security
// GET /api/classify?code=600519&name=贵州茅台&sector=食品饮料&matches=true
func (h *IndustryHandler) Classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, name, sector := q.Get("code"), q.Get("name"), q.Get("sector")

	if code == "" && name == "" && sector == "" {
		respondError(w, http.StatusBadRequest, "one of code, name or sector is required")
		return
	}
	if code != "" {
		code = contracts.NormalizeCode(code)
	}

	ind := h.classifier.Industry(contracts.Security{Code: code, Name: name, SectorTag: sector})
	resp := ClassifyResponse{
		Code:     code,
		Industry: ind.ID,
		Name:     ind.Name,
	}
	if withMatches, _ := strconv.ParseBool(q.Get("matches")); withMatches {
		resp.Matches = h.classifier.Matches(code, name, sector)
	}

	respondData(w, resp)
}
