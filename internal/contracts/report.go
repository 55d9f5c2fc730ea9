package contracts

import "time"

// Dupont is the three-factor ROE decomposition
type Dupont struct {
	NetMargin        *float64 `json:"net_margin"`
	AssetTurnover    *float64 `json:"asset_turnover"`
	EquityMultiplier *float64 `json:"equity_multiplier"`
	ROE              *float64 `json:"roe_dupont"`
}

// DerivedMetrics holds the ratios computed from one set of statements
type DerivedMetrics struct {
	Metrics MetricSet `json:"metrics"`
	Dupont  Dupont    `json:"dupont"`
}

// Assessment is the narrative overall judgement built from both scores
type Assessment struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	ShortTerm string   `json:"short_term_outlook"`
	LongTerm  string   `json:"long_term_outlook"`
}

// Advice is one actionable recommendation with its rationale
type Advice struct {
	Kind   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Action string `json:"action"`
}

// Insight is the narrative reading of one metric
type Insight struct {
	Metric         Metric   `json:"metric"`
	Name           string   `json:"name"`
	Value          float64  `json:"value"`
	Rating         Rating   `json:"rating"`
	RatingLabel    string   `json:"rating_cn"`
	Interpretation string   `json:"interpretation"`
	Notes          []string `json:"notes,omitempty"`
}

// Narrative is the commentary on one health dimension
type Narrative struct {
	Dimension HealthDimension `json:"dimension"`
	Name      string          `json:"name"`
	Summary   string          `json:"summary"`
	Insights  []Insight       `json:"insights"`
	Context   []string        `json:"context,omitempty"`
}

// DataQuality reports how many of the key statement line items were present
type DataQuality struct {
	Coverage map[StatementKind]float64 `json:"coverage"`          // share of key fields present, 0-1
	Missing  []string                  `json:"missing,omitempty"` // "income.operating_cost"
	Score    float64                   `json:"score"`             // weighted coverage, 0-1
	Passed   bool                      `json:"passed"`
}

// Headline is one news item mentioning the company
type Headline struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Source    string     `json:"source,omitempty"`
	Published *time.Time `json:"published,omitempty"`
}

// AnalysisReport is the full result of analysing one company
// ⭐ SSOT: 렌더러(텍스트/HTML/PDF) 공통 입력
type AnalysisReport struct {
	ID              string              `json:"id"`
	Security        Security            `json:"security"`
	ReportDate      string              `json:"report_date,omitempty"`
	DataQuality     *DataQuality        `json:"data_quality,omitempty"`
	Metrics         MetricSet           `json:"metrics"`
	Dupont          Dupont              `json:"dupont"`
	Health          GenericHealthResult `json:"health"`
	Industry        IndustryScoreResult `json:"industry"`
	Recommendations []string            `json:"recommendations"`
	Advice          []Advice            `json:"advice"`
	Narratives      []Narrative         `json:"narratives"`
	Assessment      Assessment          `json:"assessment"`
	News            []Headline          `json:"news,omitempty"`
	BenchmarkHash   string              `json:"benchmark_hash"`
	GeneratedAt     time.Time           `json:"generated_at"`
}
