package analysis

import (
	"fmt"

	"github.com/wonny/caiwu/internal/contracts"
)

const highDebtWarning = 70.0

// Recommendations merges the generic base sentence with the industry sentences.
// The generic sentence comes first; duplicates are dropped.
func Recommendations(health contracts.GenericHealthResult, industry contracts.IndustryScoreResult, metrics contracts.MetricSet) []string {
	var recs []string
	switch {
	case health.TotalScore >= 60:
		recs = append(recs, "财务状况良好")
	case health.TotalScore >= 40:
		recs = append(recs, "财务状况一般，建议关注薄弱环节")
	default:
		recs = append(recs, "财务状况需警惕，建议深入分析")
	}

	if debt, ok := metrics.Resolve(contracts.MetricDebtRatio); ok && debt > highDebtWarning {
		recs = append(recs, "资产负债率超过70%，需关注现金流")
	}

	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen[r] = true
	}
	for _, r := range industry.Recommendations {
		if !seen[r] {
			seen[r] = true
			recs = append(recs, r)
		}
	}
	return recs
}

// Advise builds titled recommendations: one overall, up to two industry hints,
// then one per health dimension scoring below half its maximum.
func Advise(health contracts.GenericHealthResult, industryID string) []contracts.Advice {
	var advice []contracts.Advice

	switch total := health.TotalScore; {
	case total >= 80:
		advice = append(advice, contracts.Advice{
			Kind:   "strength",
			Title:  "财务状况优异",
			Detail: "公司各项财务指标表现优秀，具有较强的抗风险能力和持续发展潜力。",
			Action: "可持续关注，重点关注长期战略执行。",
		})
	case total >= 60:
		advice = append(advice, contracts.Advice{
			Kind:   "moderate",
			Title:  "财务状况良好",
			Detail: "公司财务状况整体健康，但存在部分需要关注的指标。",
			Action: "建议关注薄弱环节的改善情况。",
		})
	case total >= 40:
		advice = append(advice, contracts.Advice{
			Kind:   "concern",
			Title:  "存在改善空间",
			Detail: "公司财务状况一般，部分指标低于行业平均水平。",
			Action: "建议关注各项指标的改善情况，评估公司的应对措施。",
		})
	default:
		advice = append(advice, contracts.Advice{
			Kind:   "concern",
			Title:  "存在财务风险",
			Detail: "公司多项财务指标表现不佳，存在一定的财务风险。",
			Action: "建议谨慎对待，等待改善信号明确后再做决策。",
		})
	}

	hints := industryAdvice[industryID]
	if len(hints) > 2 {
		hints = hints[:2]
	}
	for _, h := range hints {
		advice = append(advice, contracts.Advice{
			Kind:   "industry_specific",
			Title:  "行业特点提示",
			Detail: h,
			Action: "请结合行业特性进行综合分析。",
		})
	}

	for _, d := range health.Dimensions {
		if d.Score >= d.MaxScore*0.5 {
			continue
		}
		advice = append(advice, contracts.Advice{
			Kind:   "dimension_specific",
			Title:  d.Name + "需关注",
			Detail: fmt.Sprintf("%s评分较低（%s），建议分析原因并制定改善计划。", d.Name, d.Details),
			Action: fmt.Sprintf("重点关注%s相关的关键指标变化趋势。", d.Name),
		})
	}

	return advice
}

var (
	strengthTexts = map[contracts.HealthDimension]string{
		contracts.DimensionProfitability: "卓越的盈利能力和高ROE水平",
		contracts.DimensionSolvency:      "稳健的财务结构和低财务风险",
		contracts.DimensionCashflow:      "强劲的现金创造能力",
	}
	concernTexts = map[contracts.HealthDimension]string{
		contracts.DimensionProfitability: "盈利能力偏弱",
		contracts.DimensionSolvency:      "较高的负债水平",
		contracts.DimensionCashflow:      "现金流状况不佳",
		contracts.DimensionEfficiency:    "运营效率有待提升",
	}
)

// Assess summarises both scores: strengths at ≥80% of a dimension's maximum,
// concerns below 50%, and an outlook keyed by the generic total.
func Assess(health contracts.GenericHealthResult, industry contracts.IndustryScoreResult) contracts.Assessment {
	a := contracts.Assessment{
		Summary: fmt.Sprintf("综合健康评分%.0f/%.0f分（%s），%s行业调整评分%.2f分（%s）",
			health.TotalScore, health.MaxScore, health.RiskLabel,
			industry.Industry.Name, industry.NormalizedScore, industry.RiskLabel),
	}

	for _, d := range health.Dimensions {
		switch {
		case d.Score >= d.MaxScore*0.8:
			text, ok := strengthTexts[d.Dimension]
			if !ok {
				text = "优秀的" + d.Name
			}
			a.Strengths = append(a.Strengths, text)
		case d.Score < d.MaxScore*0.5:
			// 성장성은 관심 항목 문구 없음
			if text, ok := concernTexts[d.Dimension]; ok {
				a.Concerns = append(a.Concerns, text)
			}
		}
	}

	if len(a.Strengths) == 0 {
		a.Strengths = []string{"暂无特别优势"}
	}
	if len(a.Concerns) == 0 {
		a.Concerns = []string{"整体表现均衡"}
	}

	switch total := health.TotalScore; {
	case total >= 80:
		a.ShortTerm = "短期业绩稳健，预期保持平稳发展。"
		a.LongTerm = "长期发展前景良好，具备持续竞争优势。"
	case total >= 60:
		a.ShortTerm = "短期业绩基本稳定，需关注市场变化。"
		a.LongTerm = "长期发展取决于各项指标的改善情况。"
	case total >= 40:
		a.ShortTerm = "短期面临一定压力，需谨慎观察。"
		a.LongTerm = "长期发展存在不确定性，需关注应对策略。"
	default:
		a.ShortTerm = "短期存在较大不确定性，建议谨慎对待。"
		a.LongTerm = "长期面临挑战，需要密切关注改善措施。"
	}

	return a
}
