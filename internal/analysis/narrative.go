package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/internal/scoring"
)

// Narratives reads profitability, solvency, efficiency and cash flow against the
// industry benchmarks. Metrics without a value, or without a benchmark where one
// is needed, are left out of the commentary.
func Narratives(metrics contracts.MetricSet, dupont contracts.Dupont, ind *benchmark.Industry) []contracts.Narrative {
	return []contracts.Narrative{
		profitability(metrics, dupont, ind),
		solvency(metrics, ind),
		efficiency(metrics, ind),
		cashflow(metrics),
	}
}

type tally struct {
	strengths []string
	concerns  []string
}

func (t *tally) add(r contracts.Rating, strength, concern string) {
	switch r {
	case contracts.RatingExcellent, contracts.RatingGood:
		if strength != "" {
			t.strengths = append(t.strengths, strength)
		}
	case contracts.RatingConcern, contracts.RatingCritical:
		if concern != "" {
			t.concerns = append(t.concerns, concern)
		}
	}
}

// summary: "{dim}分析：优势方面：…。需要关注：…。"
func (t *tally) summary(dimension string) string {
	var b strings.Builder
	b.WriteString(dimension + "分析：")
	if len(t.strengths) > 0 {
		b.WriteString("优势方面：" + strings.Join(t.strengths, "、") + "。")
	}
	if len(t.concerns) > 0 {
		b.WriteString("需要关注：" + strings.Join(t.concerns, "、") + "。")
	} else {
		b.WriteString("各项指标表现良好。")
	}
	return b.String()
}

func newNarrative(d contracts.HealthDimension) contracts.Narrative {
	return contracts.Narrative{
		Dimension: d,
		Name:      d.Label(),
		Insights:  []contracts.Insight{},
	}
}

func benchmarkOf(ind *benchmark.Industry, m contracts.Metric) (benchmark.Benchmark, bool) {
	if ind == nil {
		return benchmark.Benchmark{}, false
	}
	return ind.Benchmark(m)
}

func insight(m contracts.Metric, name string, v float64, r contracts.Rating, text string) contracts.Insight {
	return contracts.Insight{
		Metric:         m,
		Name:           name,
		Value:          v,
		Rating:         r,
		RatingLabel:    narrativeLabel(r),
		Interpretation: text,
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func profitability(metrics contracts.MetricSet, dupont contracts.Dupont, ind *benchmark.Industry) contracts.Narrative {
	n := newNarrative(contracts.DimensionProfitability)
	var t tally

	gross, hasGross := metrics.Resolve(contracts.MetricGrossMargin)
	operating, hasOperating := metrics.Resolve(contracts.MetricOperatingMargin)

	// 순이익률
	if nm, ok := metrics.Resolve(contracts.MetricNetProfitMargin); ok {
		if b, ok := benchmarkOf(ind, contracts.MetricNetMargin); ok {
			r := scoring.DirectionalRating(nm, b)
			in := insight(contracts.MetricNetMargin, "净利率", nm, r, fill(pick(profitabilityTemplates, r, 0), map[string]string{
				"metric":       "净利率",
				"value":        percent(nm),
				"industry_avg": percent(b.Ideal),
				"ability":      "盈利能力和成本控制能力",
				"aspect":       "成本控制",
			}))

			if diff := nm - b.Ideal; math.Abs(diff) > 5 {
				dir := "低于"
				if diff > 0 {
					dir = "高于"
				}
				in.Notes = append(in.Notes, fmt.Sprintf("%s行业平均水平%.1f个百分点", dir, math.Abs(diff)))
			}
			if hasGross && gross > 50 {
				in.Notes = append(in.Notes, fmt.Sprintf("高毛利率(%s%%)", percent(gross)))
			}
			if hasOperating && operating != 0 && operating > nm*1.2 {
				in.Notes = append(in.Notes, "期间费用控制优秀")
			}

			n.Insights = append(n.Insights, in)
			t.add(r, "净利率优异", "净利率偏低")
		}
	}

	// ROE + 듀폰 분해
	if roe, ok := metrics.Resolve(contracts.MetricROE); ok {
		if b, ok := benchmarkOf(ind, contracts.MetricROE); ok {
			r := scoring.DirectionalRating(roe, b)
			in := insight(contracts.MetricROE, "ROE", roe, r, fill(pick(profitabilityTemplates, r, 1), map[string]string{
				"metric":       "ROE",
				"value":        percent(roe),
				"industry_avg": percent(b.Ideal),
				"ability":      "股东资金利用效率",
				"aspect":       "资本回报",
			}))
			if note := dupontNote(dupont); note != "" {
				in.Notes = append(in.Notes, note)
			}

			n.Insights = append(n.Insights, in)
			t.add(r, "ROE出色", "ROE待提升")
		}
	}

	// 매출총이익률
	if hasGross {
		if b, ok := benchmarkOf(ind, contracts.MetricGrossMargin); ok {
			r := scoring.DirectionalRating(gross, b)
			n.Insights = append(n.Insights, insight(contracts.MetricGrossMargin, "毛利率", gross, r, grossMarginTemplates[r]))
		}
	}

	n.Summary = t.summary(n.Name)
	return n
}

// dupontNote names the main ROE driver, if any factor stands out
func dupontNote(d contracts.Dupont) string {
	if d.NetMargin == nil || d.AssetTurnover == nil || d.EquityMultiplier == nil {
		return ""
	}

	var driver string
	switch {
	case *d.NetMargin > 15:
		driver = "净利率是主要驱动力"
	case *d.AssetTurnover > 0.8:
		driver = "周转率贡献显著"
	case *d.EquityMultiplier > 2:
		driver = "财务杠杆放大效应"
	default:
		return ""
	}

	return fmt.Sprintf("杜邦分解：%s（净利率%s%%，周转率%.2f次，权益乘数%.2f倍）",
		driver, percent(*d.NetMargin), *d.AssetTurnover, *d.EquityMultiplier)
}

func solvency(metrics contracts.MetricSet, ind *benchmark.Industry) contracts.Narrative {
	n := newNarrative(contracts.DimensionSolvency)
	var t tally

	debt, ok := metrics.Resolve(contracts.MetricDebtRatio)
	b, hasBenchmark := benchmarkOf(ind, contracts.MetricDebtRatio)
	if ok && hasBenchmark {
		r := scoring.DirectionalRating(debt, b)
		n.Insights = append(n.Insights, insight(contracts.MetricDebtRatio, "资产负债率", debt, r,
			fill(solvencyTemplates[r], map[string]string{"value": percent(debt)})))

		if ind.HighDebtTolerance() && debt > 70 {
			n.Context = append(n.Context, fill(highDebtNormal, map[string]string{"industry": ind.Name}))
		}

		if r == contracts.RatingExcellent || r == contracts.RatingGood {
			n.Context = append(n.Context, flexibilityGood)
		} else {
			n.Context = append(n.Context, flexibilityPoor)
		}
		t.add(r, "财务结构稳健", "负债率较高")
	}

	n.Summary = t.summary(n.Name)
	return n
}

func efficiency(metrics contracts.MetricSet, ind *benchmark.Industry) contracts.Narrative {
	n := newNarrative(contracts.DimensionEfficiency)
	var t tally

	turnover, ok := metrics.Resolve(contracts.MetricAssetTurnover)
	b, hasBenchmark := benchmarkOf(ind, contracts.MetricAssetTurnover)
	if ok && hasBenchmark {
		r := scoring.DirectionalRating(turnover, b)
		n.Insights = append(n.Insights, insight(contracts.MetricAssetTurnover, "资产周转率", turnover, r,
			fill(efficiencyTemplates[r], map[string]string{"value": fmt.Sprintf("%.2f", turnover)})))

		// 업종 특성 (비즈니스 모델)
		if gross, ok := metrics.Resolve(contracts.MetricGrossMargin); ok {
			switch {
			case gross > 40 && turnover < 0.6:
				n.Context = append(n.Context, fill(highMarginLowTurnover, map[string]string{"industry": ind.Name}))
			case gross < 20 && turnover > 0.8:
				n.Context = append(n.Context, lowMarginHighTurnover)
			}
		}
		t.add(r, "资产利用效率高", "周转率偏低")
	}

	n.Summary = t.summary(n.Name)
	return n
}

// cashQuality grades ocf_to_np in percent: >100 / >80 / >50 / >0
func cashQuality(v float64) contracts.Rating {
	switch {
	case v > 100:
		return contracts.RatingExcellent
	case v > 80:
		return contracts.RatingGood
	case v > 50:
		return contracts.RatingNeutral
	case v > 0:
		return contracts.RatingConcern
	default:
		return contracts.RatingCritical
	}
}

func cashflow(metrics contracts.MetricSet) contracts.Narrative {
	n := newNarrative(contracts.DimensionCashflow)
	var t tally

	if ocf, ok := metrics.Resolve(contracts.MetricOCFToNetProfit); ok {
		r := cashQuality(ocf)
		n.Insights = append(n.Insights, insight(contracts.MetricOCFToNetProfit, "经营现金流/净利润", ocf, r,
			fill(cashflowTemplates[r], map[string]string{"value": fmt.Sprintf("%.1f", ocf)})))
		t.add(r, "现金创造能力强", "现金流偏弱")
	}

	if fcf, ok := metrics.Resolve(contracts.MetricFreeCashFlow); ok {
		tpl := freeCashFlowNegative
		if fcf > 0 {
			tpl = freeCashFlowPositive
		}
		n.Context = append(n.Context, fill(tpl, map[string]string{"value": fmt.Sprintf("%.2f亿元", fcf)}))
	}

	n.Summary = t.summary(n.Name)
	return n
}
