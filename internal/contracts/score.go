package contracts

// Rating is the five-tier qualitative grade of a score
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingNeutral   Rating = "neutral"
	RatingConcern   Rating = "concern"
	RatingCritical  Rating = "critical"
	RatingNoData    Rating = "no_data"
)

var ratingLabels = map[Rating]string{
	RatingExcellent: "优秀",
	RatingGood:      "良好",
	RatingNeutral:   "一般",
	RatingConcern:   "较差",
	RatingCritical:  "差",
	RatingNoData:    "无数据",
}

// Label returns the Chinese label
func (r Rating) Label() string {
	return ratingLabels[r]
}

// RatingFromScore grades a 0-100 score: ≥80 / ≥60 / ≥40 / ≥20 / below
func RatingFromScore(score float64) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingNeutral
	case score >= 20:
		return RatingConcern
	default:
		return RatingCritical
	}
}

// RiskLevel is the five-tier risk classification of a total score
type RiskLevel string

const (
	RiskLow        RiskLevel = "low"
	RiskMediumLow  RiskLevel = "medium-low"
	RiskMedium     RiskLevel = "medium"
	RiskMediumHigh RiskLevel = "medium-high"
	RiskHigh       RiskLevel = "high"
)

var riskLabels = map[RiskLevel]string{
	RiskLow:        "低风险",
	RiskMediumLow:  "中低风险",
	RiskMedium:     "中等风险",
	RiskMediumHigh: "中高风险",
	RiskHigh:       "高风险",
}

// Label returns the Chinese label
func (r RiskLevel) Label() string {
	return riskLabels[r]
}

// RiskFromScore classifies a 0-100 score with the same cut points as RatingFromScore
func RiskFromScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMediumLow
	case score >= 40:
		return RiskMedium
	case score >= 20:
		return RiskMediumHigh
	default:
		return RiskHigh
	}
}

// MetricScore is the score of one metric against its industry benchmark
type MetricScore struct {
	Metric        Metric   `json:"metric"`
	Name          string   `json:"name"`
	Value         *float64 `json:"value"`
	Score         float64  `json:"score"`
	WeightedScore float64  `json:"weighted_score"`
	Weight        float64  `json:"weight"`
	Rating        Rating   `json:"rating"`
	RatingLabel   string   `json:"rating_cn"`
	IndustryRange string   `json:"industry_range"`
	IndustryIdeal float64  `json:"industry_ideal"`
}

// ComparisonStatus is the position of a company value relative to the industry ideal
type ComparisonStatus string

const (
	StatusAbove ComparisonStatus = "above"
	StatusAt    ComparisonStatus = "at"
	StatusBelow ComparisonStatus = "below"
)

var statusLabels = map[ComparisonStatus]string{
	StatusAbove: "优于",
	StatusAt:    "持平",
	StatusBelow: "低于",
}

// Label returns the Chinese label
func (s ComparisonStatus) Label() string {
	return statusLabels[s]
}

// Comparison holds one metric's distance from the industry ideal
type Comparison struct {
	Metric        Metric           `json:"metric"`
	Name          string           `json:"name"`
	CompanyValue  float64          `json:"company_value"`
	IndustryIdeal float64          `json:"industry_ideal"`
	Difference    float64          `json:"difference"`
	DifferencePct float64          `json:"difference_pct"`
	Status        ComparisonStatus `json:"status"`
	StatusLabel   string           `json:"status_cn"`
}

// IndustryRef identifies the industry a result was scored against
type IndustryRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEN      string `json:"name_en"`
	Description string `json:"description"`
}

// IndustryScoreResult is the industry-adjusted aggregate score
// ⭐ SSOT: 업종 조정 점수 결과
type IndustryScoreResult struct {
	Industry           IndustryRef   `json:"industry"`
	DimensionScores    []MetricScore `json:"dimension_scores"` // benchmark table order
	TotalScore         float64       `json:"raw_score"`        // weighted sum after adjustment
	MaxScore           float64       `json:"max_score"`
	NormalizedScore    float64       `json:"normalized_score"`
	AdjustmentFactor   float64       `json:"adjustment_factor"`
	AdjustmentNotes    []string      `json:"adjustment_notes"`
	RiskLevel          RiskLevel     `json:"risk_class"`
	RiskLabel          string        `json:"risk_level"`
	IndustryComparison []Comparison  `json:"industry_comparison"`
	Recommendations    []string      `json:"recommendations"`
}

// Dimension returns the score of a metric, if it was scored
func (r *IndustryScoreResult) Dimension(m Metric) (MetricScore, bool) {
	for _, d := range r.DimensionScores {
		if d.Metric == m {
			return d, true
		}
	}
	return MetricScore{}, false
}

// HealthDimension is one of the five fixed generic health dimensions
type HealthDimension string

const (
	DimensionProfitability HealthDimension = "profitability"
	DimensionSolvency      HealthDimension = "solvency"
	DimensionEfficiency    HealthDimension = "efficiency"
	DimensionGrowth        HealthDimension = "growth"
	DimensionCashflow      HealthDimension = "cashflow"
)

var dimensionLabels = map[HealthDimension]string{
	DimensionProfitability: "盈利能力",
	DimensionSolvency:      "偿债能力",
	DimensionEfficiency:    "运营效率",
	DimensionGrowth:        "成长能力",
	DimensionCashflow:      "现金流质量",
}

// HealthDimensions lists the dimensions in scoring order
var HealthDimensions = []HealthDimension{
	DimensionProfitability,
	DimensionSolvency,
	DimensionEfficiency,
	DimensionGrowth,
	DimensionCashflow,
}

// Label returns the Chinese label
func (d HealthDimension) Label() string {
	return dimensionLabels[d]
}

// DimensionScore is the points awarded to one generic health dimension
type DimensionScore struct {
	Dimension HealthDimension `json:"dimension"`
	Name      string          `json:"name"`
	Score     float64         `json:"score"`
	MaxScore  float64         `json:"max_score"`
	Details   string          `json:"details"`
}

// Ratio returns score/max in [0,1]
func (d DimensionScore) Ratio() float64 {
	if d.MaxScore == 0 {
		return 0
	}
	return d.Score / d.MaxScore
}

// GenericHealthResult is the industry-agnostic 100-point health score
// ⭐ SSOT: 업종 무관 기본 건전성 점수
type GenericHealthResult struct {
	TotalScore float64          `json:"total_score"`
	MaxScore   float64          `json:"max_score"`
	RiskLevel  RiskLevel        `json:"risk_class"`
	RiskLabel  string           `json:"risk_level"`
	Dimensions []DimensionScore `json:"dimensions"`
}

// Dimension returns the score of one dimension
func (r *GenericHealthResult) Dimension(d HealthDimension) (DimensionScore, bool) {
	for _, s := range r.Dimensions {
		if s.Dimension == d {
			return s, true
		}
	}
	return DimensionScore{}, false
}
