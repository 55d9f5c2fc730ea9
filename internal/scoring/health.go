package scoring

import (
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/logger"
)

// HealthMaxScore is the sum of the five dimension caps
const HealthMaxScore = 100.0

// threshold is one step of a dimension ladder: the first matching step wins
type threshold struct {
	match   func(v float64) bool
	score   float64
	details string
}

type dimensionRule struct {
	dimension contracts.HealthDimension
	metric    contracts.Metric
	max       float64
	missing   float64 // 값이 없을 때 최악값
	steps     []threshold
}

func above(x float64) func(float64) bool { return func(v float64) bool { return v > x } }
func below(x float64) func(float64) bool { return func(v float64) bool { return v < x } }
func always(float64) bool { return true }

// ocf_to_np 는 퍼센트 단위로 들어오지만 임계값은 비율 기준 그대로 비교 (단위 확인 필요)
var healthRules = []dimensionRule{
	{
		dimension: contracts.DimensionProfitability,
		metric:    contracts.MetricROE,
		max:       25,
		steps: []threshold{
			{above(15), 25, "优秀 (ROE>15%)"},
			{above(10), 20, "良好 (ROE 10-15%)"},
			{above(5), 15, "一般 (ROE 5-10%)"},
			{above(0), 10, "较弱 (ROE 0-5%)"},
			{always, 0, "亏损"},
		},
	},
	{
		dimension: contracts.DimensionSolvency,
		metric:    contracts.MetricDebtRatio,
		max:       25,
		missing:   100,
		steps: []threshold{
			{below(40), 25, "低风险 (负债率<40%)"},
			{below(50), 20, "适中 (负债率40-50%)"},
			{below(60), 15, "需关注 (负债率50-60%)"},
			{below(70), 10, "较高 (负债率60-70%)"},
			{always, 5, "高风险 (负债率>70%)"},
		},
	},
	{
		dimension: contracts.DimensionEfficiency,
		metric:    contracts.MetricAssetTurnover,
		max:       20,
		steps: []threshold{
			{above(1.0), 20, "高效 (周转率>1.0)"},
			{above(0.7), 15, "良好 (周转率0.7-1.0)"},
			{above(0.5), 10, "一般 (周转率0.5-0.7)"},
			{above(0.3), 5, "较低 (周转率0.3-0.5)"},
			{always, 0, "低效 (周转率<0.3)"},
		},
	},
	{
		// 과거 데이터가 없어 순이익률로 대체
		dimension: contracts.DimensionGrowth,
		metric:    contracts.MetricNetProfitMargin,
		max:       15,
		steps: []threshold{
			{above(10), 12, "良好 (需历史数据确认)"},
			{above(5), 8, "一般 (需历史数据确认)"},
			{always, 5, "待评估"},
		},
	},
	{
		dimension: contracts.DimensionCashflow,
		metric:    contracts.MetricOCFToNetProfit,
		max:       15,
		steps: []threshold{
			{above(1.2), 15, "优秀 (现金流/净利润>1.2)"},
			{above(1.0), 12, "良好 (现金流/净利润>1.0)"},
			{above(0.8), 8, "一般 (现金流/净利润 0.8-1.0)"},
			{above(0.5), 4, "需关注 (现金流/净利润 0.5-0.8)"},
			{above(0), 2, "较差 (现金流/净利润<0.5)"},
			{always, 0, "很差 (经营现金流为负)"},
		},
	},
}

// HealthScorer computes the industry-agnostic 100-point health score
// ⭐ SSOT: 업종 분류 없이도 재현 가능한 기본 점수
type HealthScorer struct {
	logger *logger.Logger
}

// NewHealthScorer creates a new generic health scorer
func NewHealthScorer(log *logger.Logger) *HealthScorer {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthScorer{
		logger: log.Component("health_scorer"),
	}
}

// Score grades the five fixed dimensions. A missing driving metric takes its
// worst-case value instead of being skipped.
func (s *HealthScorer) Score(metrics contracts.MetricSet) contracts.GenericHealthResult {
	result := contracts.GenericHealthResult{
		MaxScore:   HealthMaxScore,
		Dimensions: make([]contracts.DimensionScore, 0, len(healthRules)),
	}

	for _, rule := range healthRules {
		v, ok := metrics.Resolve(rule.metric)
		if !ok {
			v = rule.missing
		}

		ds := contracts.DimensionScore{
			Dimension: rule.dimension,
			Name:      rule.dimension.Label(),
			MaxScore:  rule.max,
		}
		for _, step := range rule.steps {
			if step.match(v) {
				ds.Score = step.score
				ds.Details = step.details
				break
			}
		}

		result.Dimensions = append(result.Dimensions, ds)
		result.TotalScore += ds.Score
	}

	result.RiskLevel = contracts.RiskFromScore(result.TotalScore)
	result.RiskLabel = result.RiskLevel.Label()

	s.logger.WithFields(map[string]interface{}{
		"total": result.TotalScore,
		"risk":  result.RiskLevel,
	}).Debug("Scored generic health")

	return result
}
