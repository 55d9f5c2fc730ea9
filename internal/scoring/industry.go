package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/classifier"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/logger"
)

const (
	weakScoreThreshold = 40.0
	maxWeakSpots       = 3

	// 특수 규칙 임계값
	highDebtRatio      = 70.0
	ocfCriticalRatio   = 0.5
	rdBonusRatio       = 15.0
	cashflowPenalty    = 0.8
	rdBonus            = 1.1
	rdRecommendedScore = 60.0

	comparisonBandPct = 10.0
)

var riskRecommendations = map[contracts.RiskLevel]string{
	contracts.RiskLow:        "财务状况优秀，行业竞争力强，可考虑配置",
	contracts.RiskMediumLow:  "财务状况良好，部分指标需关注",
	contracts.RiskMedium:     "财务状况一般，建议深入分析薄弱环节",
	contracts.RiskMediumHigh: "财务状况需警惕，存在明显风险点",
	contracts.RiskHigh:       "财务状况高风险，建议回避",
}

// IndustryScorer scores a metric set against the benchmarks of the security's industry
// ⭐ SSOT: 업종 조정 종합 점수
type IndustryScorer struct {
	table      *benchmark.Table
	classifier *classifier.Classifier
	logger     *logger.Logger
}

// NewIndustryScorer creates a new industry scorer
func NewIndustryScorer(table *benchmark.Table, c *classifier.Classifier, log *logger.Logger) *IndustryScorer {
	if log == nil {
		log = logger.Nop()
	}
	if c == nil {
		c = classifier.New(table, log)
	}
	return &IndustryScorer{
		table:      table,
		classifier: c,
		logger:     log.Component("industry_scorer"),
	}
}

// Score classifies the security and scores metrics against its industry
func (s *IndustryScorer) Score(metrics contracts.MetricSet, sec contracts.Security) contracts.IndustryScoreResult {
	ind := s.classifier.Industry(sec)
	result := s.ScoreIndustry(ind, metrics)

	s.logger.WithFields(map[string]interface{}{
		"code":       sec.Code,
		"industry":   ind.ID,
		"normalized": result.NormalizedScore,
		"factor":     result.AdjustmentFactor,
		"risk":       result.RiskLevel,
	}).Debug("Scored industry-adjusted health")

	return result
}

// ScoreIndustry scores metrics against an explicit industry.
// Metrics with no resolvable value are left out of both the score and the maximum.
func (s *IndustryScorer) ScoreIndustry(ind *benchmark.Industry, metrics contracts.MetricSet) contracts.IndustryScoreResult {
	result := contracts.IndustryScoreResult{
		Industry:           ind.Ref(),
		DimensionScores:    []contracts.MetricScore{},
		AdjustmentNotes:    []string{},
		IndustryComparison: []contracts.Comparison{},
	}

	var totalWeighted, totalMax float64
	for _, mb := range ind.Metrics {
		value := metrics.ResolvePtr(mb.Metric)
		if value == nil {
			continue
		}

		ms := ScoreMetric(mb.Metric, value, mb.Benchmark)
		result.DimensionScores = append(result.DimensionScores, ms)
		totalWeighted += ms.WeightedScore
		totalMax += 100 * mb.Weight

		if cmp, ok := compare(mb, *value); ok {
			result.IndustryComparison = append(result.IndustryComparison, cmp)
		}
	}

	factor, notes := adjust(ind, metrics)
	result.AdjustmentNotes = append(result.AdjustmentNotes, notes...)

	result.TotalScore = contracts.Round2(totalWeighted * factor)
	result.MaxScore = contracts.Round2(totalMax)
	result.AdjustmentFactor = contracts.Round2(factor)
	if totalMax > 0 {
		result.NormalizedScore = contracts.Round2(result.TotalScore / totalMax * 100)
	}

	result.RiskLevel = contracts.RiskFromScore(result.NormalizedScore)
	result.RiskLabel = result.RiskLevel.Label()
	result.Recommendations = recommend(ind, &result)

	return result
}

// adjust applies the special rules in declaration order; factors compound
func adjust(ind *benchmark.Industry, metrics contracts.MetricSet) (float64, []string) {
	factor := 1.0
	var notes []string

	for _, rule := range ind.SpecialRules {
		if !rule.Enabled() {
			continue
		}

		switch rule.Name {
		case benchmark.RuleDebtTolerance:
			// 점수 영향 없음, 메모만
			debt, ok := metrics.Resolve(contracts.MetricDebtRatio)
			if rule.Text == "high" && ok && debt > highDebtRatio {
				notes = append(notes, fmt.Sprintf("%s行业高负债为常态", ind.Name))
			}

		case benchmark.RuleCashflowCritical:
			ocf, ok := metrics.Resolve(contracts.MetricOCFToNetProfit)
			if !ok {
				ocf = 1
			}
			if ocf < ocfCriticalRatio {
				factor *= cashflowPenalty
				notes = append(notes, "现金流严重恶化，扣减评分")
			}

		case benchmark.RuleHighRDBonus:
			rd, _ := metrics.Resolve(contracts.MetricRDRatio)
			if rd > rdBonusRatio {
				factor *= rdBonus
				notes = append(notes, "研发投入突出，加分奖励")
			}
		}
	}

	return factor, notes
}

func compare(mb benchmark.MetricBenchmark, value float64) (contracts.Comparison, bool) {
	if mb.Ideal == 0 {
		return contracts.Comparison{}, false
	}

	diff := value - mb.Ideal
	diffPct := diff / mb.Ideal * 100

	status := contracts.StatusBelow
	switch {
	case math.Abs(diffPct) <= comparisonBandPct:
		status = contracts.StatusAt
	case diff > 0:
		status = contracts.StatusAbove
	}

	return contracts.Comparison{
		Metric:        mb.Metric,
		Name:          mb.Metric.DisplayName(),
		CompanyValue:  contracts.Round2(value),
		IndustryIdeal: mb.Ideal,
		Difference:    contracts.Round2(diff),
		DifferencePct: contracts.Round2(diffPct),
		Status:        status,
		StatusLabel:   status.Label(),
	}, true
}

func recommend(ind *benchmark.Industry, r *contracts.IndustryScoreResult) []string {
	recs := []string{riskRecommendations[r.RiskLevel]}

	if ind.HasRule(benchmark.RuleCashflowCritical) {
		// 미채점 지표는 0점 취급
		ocf, _ := r.Dimension(contracts.MetricOCFToNetProfit)
		if ocf.Score < weakScoreThreshold {
			recs = append(recs, "现金流状况需重点关注")
		}
	}

	if ind.HighDebtTolerance() {
		recs = append(recs, "行业高负债为常态，需关注有息负债成本")
	}

	if ind.HasRule(benchmark.RuleHighRDBonus) {
		if rd, ok := r.Dimension(contracts.MetricRDRatio); ok && rd.Score >= rdRecommendedScore {
			recs = append(recs, "研发投入较高，长期竞争力有保障")
		}
	}

	var weak []string
	for _, d := range r.DimensionScores {
		if d.Score < weakScoreThreshold {
			weak = append(weak, d.Name)
		}
	}
	if len(weak) > maxWeakSpots {
		weak = weak[:maxWeakSpots]
	}
	if len(weak) > 0 {
		recs = append(recs, "需关注: "+strings.Join(weak, ", "))
	}

	return recs
}
