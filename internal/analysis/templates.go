package analysis

import (
	"strings"

	"github.com/wonny/caiwu/internal/contracts"
)

// 서술용 등급 표기 (점수 등급과 critical 표기만 다름)
var narrativeLabels = map[contracts.Rating]string{
	contracts.RatingExcellent: "优秀",
	contracts.RatingGood:      "良好",
	contracts.RatingNeutral:   "一般",
	contracts.RatingConcern:   "较差",
	contracts.RatingCritical:  "很差",
}

func narrativeLabel(r contracts.Rating) string {
	if label, ok := narrativeLabels[r]; ok {
		return label
	}
	return "一般"
}

// 지표 해석 문구. 자리표시자: {metric} {value} {industry_avg} {ability} {aspect} {industry}
var profitabilityTemplates = map[contracts.Rating][]string{
	contracts.RatingExcellent: {
		"{metric}达到{value}%，远超行业平均水平({industry_avg}%)，显示出强大的{ability}。",
		"公司{metric}表现卓越，在行业内处于领先地位。",
	},
	contracts.RatingGood: {
		"{metric}为{value}%，高于行业平均水平，表现良好。",
		"公司{metric}稳健，显示出较好的{ability}。",
	},
	contracts.RatingNeutral: {
		"{metric}为{value}%，处于行业平均水平附近。",
		"公司{metric}表现一般，还有提升空间。",
	},
	contracts.RatingConcern: {
		"{metric}为{value}%，低于行业平均水平，需要关注。",
		"{metric}偏低，建议分析原因并制定改善计划。",
	},
	contracts.RatingCritical: {
		"{metric}仅为{value}%，远低于行业平均水平，存在较大风险。",
		"{metric}持续低迷，严重影响公司盈利能力，需要立即采取措施。",
	},
}

var grossMarginTemplates = map[contracts.Rating]string{
	contracts.RatingExcellent: "高毛利率显示出强大的产品定价能力和品牌溢价，这是核心竞争优势。",
	contracts.RatingGood:      "毛利率处于良好水平，产品具备一定的市场竞争力。",
	contracts.RatingNeutral:   "毛利率处于行业平均水平，产品定价能力一般。",
	contracts.RatingConcern:   "毛利率偏低，产品定价能力较弱，建议优化产品结构或降低成本。",
	contracts.RatingCritical:  "毛利率偏低，产品定价能力较弱，建议优化产品结构或降低成本。",
}

var solvencyTemplates = map[contracts.Rating]string{
	contracts.RatingExcellent: "资产负债率仅{value}%，财务结构极为稳健。",
	contracts.RatingGood:      "资产负债率为{value}%，处于健康水平。",
	contracts.RatingNeutral:   "资产负债率为{value}%，处于行业平均水平。",
	contracts.RatingConcern:   "资产负债率达到{value}%，处于较高水平，需要关注。",
	contracts.RatingCritical:  "资产负债率高达{value}%，财务风险较大，需要警惕。",
}

var efficiencyTemplates = map[contracts.Rating]string{
	contracts.RatingExcellent: "资产周转率达到{value}次/年，远超行业平均水平，运营效率卓越。",
	contracts.RatingGood:      "资产周转率为{value}次/年，高于行业平均水平，运营效率良好。",
	contracts.RatingNeutral:   "资产周转率为{value}次/年，处于行业平均水平。",
	contracts.RatingConcern:   "资产周转率仅为{value}次/年，低于行业平均水平，运营效率有待提升。",
	contracts.RatingCritical:  "资产周转率低至{value}次/年，远低于行业平均水平，运营效率严重不足。",
}

var cashflowTemplates = map[contracts.Rating]string{
	contracts.RatingExcellent: "经营现金流占净利润{value}%，现金创造能力强劲。",
	contracts.RatingGood:      "经营现金流占净利润{value}%，现金流状况良好。",
	contracts.RatingNeutral:   "经营现金流占净利润{value}%，处于合理区间。",
	contracts.RatingConcern:   "经营现金流占净利润{value}%，低于理想水平，需关注现金回收情况。",
	contracts.RatingCritical:  "经营现金流为负，现金回收严重不足，存在流动性风险。",
}

const (
	freeCashFlowPositive = "自由现金流达到{value}，现金创造能力强劲，可用于分红、回购或扩张投资。"
	freeCashFlowNegative = "自由现金流为{value}，主要由于资本支出较大，需关注投资回报情况。"

	highMarginLowTurnover = "公司采用高毛利低周转的商业模式，这是{industry}行业的典型特征。"
	lowMarginHighTurnover = "公司采用低毛利高周转的商业模式，通过规模效应获取利润。"

	highDebtNormal = "{industry}行业高负债属于常态，关键在于经营现金流能否覆盖债务本息。"

	flexibilityGood = "低负债为公司提供了良好的融资空间和抗风险能力。"
	flexibilityPoor = "较高的负债水平限制了财务灵活性，需关注偿债压力。"
)

// 업종별 조언 (최대 2건 사용)
var industryAdvice = map[string][]string{
	"construction": {
		"建筑行业高负债属于常态，但需重点关注经营现金流对债务的覆盖。",
		"建议监控：(1) 应收账款周转天数 (2) 经营现金流/利息支出 (3) 新签合同额",
	},
	"consumer": {
		"高毛利率显示出强大的品牌溢价能力，这是核心竞争优势。",
		"关注品牌投入和渠道建设是否能够维持高毛利。",
	},
	"technology": {
		"研发投入是科技企业的核心竞争力，高研发费用率是必要的战略投入。",
		"技术创新能力决定了长期发展潜力，建议关注专利布局。",
	},
}

func pick(templates map[contracts.Rating][]string, r contracts.Rating, index int) string {
	list := templates[r]
	if len(list) == 0 {
		return "{metric}为{value}%，评级为{rating}。"
	}
	return list[index%len(list)]
}

// fill substitutes {key} placeholders
func fill(tpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
