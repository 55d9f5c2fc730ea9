package report

import (
	"fmt"
	"strings"

	"github.com/wonny/caiwu/internal/contracts"
)

// 핵심 지표 표 순서 (단위 포함)
var keyMetrics = []struct {
	metric contracts.Metric
	unit   string
}{
	{contracts.MetricGrossMargin, "%"},
	{contracts.MetricOperatingMargin, "%"},
	{contracts.MetricNetProfitMargin, "%"},
	{contracts.MetricROE, "%"},
	{contracts.MetricROA, "%"},
	{contracts.MetricRDRatio, "%"},
	{contracts.MetricCostToIncome, "%"},
	{contracts.MetricDebtRatio, "%"},
	{contracts.MetricCurrentRatio, ""},
	{contracts.MetricQuickRatio, ""},
	{contracts.MetricEquityMultiplier, ""},
	{contracts.MetricAssetTurnover, ""},
	{contracts.MetricOCFToNetProfit, "%"},
	{contracts.MetricCapexRatio, "%"},
	{contracts.MetricRevenue, ""},
	{contracts.MetricNetProfit, ""},
	{contracts.MetricTotalAssets, ""},
	{contracts.MetricTotalLiabilities, ""},
	{contracts.MetricOperatingCashFlow, ""},
	{contracts.MetricInvestingCashFlow, ""},
	{contracts.MetricFinancingCashFlow, ""},
	{contracts.MetricCapex, ""},
	{contracts.MetricFreeCashFlow, ""},
	{contracts.MetricNetCashIncrease, ""},
	{contracts.MetricEndingCash, ""},
	{contracts.MetricDividendsPaid, ""},
}

// Title is the report heading: "贵州茅台（600519）财务分析报告"
func Title(r *contracts.AnalysisReport) string {
	name := r.Security.Name
	if name == "" {
		name = r.Security.Code
	}
	return fmt.Sprintf("%s（%s）财务分析报告", name, r.Security.Code)
}

// Markdown renders the narrative report as markdown.
// Sections without data are left out.
func Markdown(r *contracts.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title(r))

	meta := []string{}
	if r.ReportDate != "" {
		meta = append(meta, "报告期："+r.ReportDate)
	}
	meta = append(meta, fmt.Sprintf("行业：%s（%s）", r.Industry.Industry.Name, r.Industry.Industry.NameEN))
	if !r.GeneratedAt.IsZero() {
		meta = append(meta, "生成时间："+r.GeneratedAt.Format("2006-01-02 15:04"))
	}
	if q := r.DataQuality; q != nil {
		meta = append(meta, fmt.Sprintf("数据完整度：%.0f%%", q.Score*100))
	}
	fmt.Fprintf(&b, "> %s\n\n", strings.Join(meta, " · "))
	if q := r.DataQuality; q != nil && !q.Passed {
		fmt.Fprintf(&b, "> ⚠ 缺失字段：%s\n\n", strings.Join(q.Missing, "、"))
	}

	writeAssessment(&b, r.Assessment)
	writeHealth(&b, r.Health)
	writeIndustry(&b, r.Industry)
	writeMetrics(&b, r.Metrics)
	writeDupont(&b, r.Dupont)
	writeNarratives(&b, r.Narratives)
	writeRecommendations(&b, r.Recommendations, r.Advice)
	writeNews(&b, r.News)

	return b.String()
}

func writeAssessment(b *strings.Builder, a contracts.Assessment) {
	if a.Summary == "" {
		return
	}
	b.WriteString("## 综合评估\n\n")
	b.WriteString(a.Summary + "\n\n")
	fmt.Fprintf(b, "- **优势**：%s\n", strings.Join(a.Strengths, "；"))
	fmt.Fprintf(b, "- **关注**：%s\n", strings.Join(a.Concerns, "；"))
	if a.ShortTerm != "" {
		fmt.Fprintf(b, "- **短期展望**：%s\n", a.ShortTerm)
	}
	if a.LongTerm != "" {
		fmt.Fprintf(b, "- **长期展望**：%s\n", a.LongTerm)
	}
	b.WriteString("\n")
}

func writeHealth(b *strings.Builder, h contracts.GenericHealthResult) {
	fmt.Fprintf(b, "## 基础健康评分：%s/%s（%s）\n\n", number(h.TotalScore), number(h.MaxScore), h.RiskLabel)
	b.WriteString("| 维度 | 得分 | 满分 | 说明 |\n|---|---:|---:|---|\n")
	for _, d := range h.Dimensions {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(d.Name), number(d.Score), number(d.MaxScore), cell(d.Details))
	}
	b.WriteString("\n")
}

func writeIndustry(b *strings.Builder, ind contracts.IndustryScoreResult) {
	fmt.Fprintf(b, "## 行业调整评分：%.2f（%s）\n\n", ind.NormalizedScore, ind.RiskLabel)
	fmt.Fprintf(b, "按%s行业基准评估，加权得分 %.2f / %.2f，调整系数 %.2f。\n\n",
		ind.Industry.Name, ind.TotalScore, ind.MaxScore, ind.AdjustmentFactor)

	for _, note := range ind.AdjustmentNotes {
		fmt.Fprintf(b, "- %s\n", note)
	}
	if len(ind.AdjustmentNotes) > 0 {
		b.WriteString("\n")
	}

	if len(ind.DimensionScores) > 0 {
		b.WriteString("| 指标 | 数值 | 行业区间 | 理想值 | 得分 | 权重 | 评级 |\n|---|---:|---:|---:|---:|---:|---|\n")
		for _, d := range ind.DimensionScores {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %.2f | %.2f | %s |\n",
				cell(d.Name), pointer(d.Value), d.IndustryRange, number(d.IndustryIdeal), d.Score, d.Weight, d.RatingLabel)
		}
		b.WriteString("\n")
	}

	if len(ind.IndustryComparison) > 0 {
		b.WriteString("### 行业对比\n\n")
		b.WriteString("| 指标 | 公司 | 行业理想值 | 差异 | 差异率 | 状态 |\n|---|---:|---:|---:|---:|---|\n")
		for _, c := range ind.IndustryComparison {
			fmt.Fprintf(b, "| %s | %s | %s | %+.2f | %+.2f%% | %s |\n",
				cell(c.Name), number(c.CompanyValue), number(c.IndustryIdeal), c.Difference, c.DifferencePct, c.StatusLabel)
		}
		b.WriteString("\n")
	}
}

func writeMetrics(b *strings.Builder, m contracts.MetricSet) {
	var rows []string
	for _, km := range keyMetrics {
		v, ok := m.Resolve(km.metric)
		if !ok {
			continue
		}
		rows = append(rows, fmt.Sprintf("| %s | %s%s |", km.metric.DisplayName(), number(v), km.unit))
	}
	if len(rows) == 0 {
		return
	}
	b.WriteString("## 核心财务指标\n\n| 指标 | 数值 |\n|---|---:|\n")
	b.WriteString(strings.Join(rows, "\n") + "\n\n")
}

func writeDupont(b *strings.Builder, d contracts.Dupont) {
	if d.ROE == nil {
		return
	}
	b.WriteString("## 杜邦分析\n\n")
	fmt.Fprintf(b, "ROE %s%% = 净利率 %s%% × 资产周转率 %s × 权益乘数 %s\n\n",
		pointer(d.ROE), pointer(d.NetMargin), pointer(d.AssetTurnover), pointer(d.EquityMultiplier))
}

func writeNarratives(b *strings.Builder, narratives []contracts.Narrative) {
	if len(narratives) == 0 {
		return
	}
	b.WriteString("## 分项分析\n\n")
	for _, n := range narratives {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", n.Name, n.Summary)
		for _, in := range n.Insights {
			fmt.Fprintf(b, "- **%s**（%s）：%s\n", in.Name, in.RatingLabel, in.Interpretation)
			for _, note := range in.Notes {
				fmt.Fprintf(b, "  - %s\n", note)
			}
		}
		if len(n.Insights) > 0 {
			b.WriteString("\n")
		}
		for _, c := range n.Context {
			b.WriteString(c + "\n\n")
		}
	}
}

func writeRecommendations(b *strings.Builder, recs []string, advice []contracts.Advice) {
	if len(recs) == 0 && len(advice) == 0 {
		return
	}
	b.WriteString("## 投资建议\n\n")
	for i, r := range recs {
		fmt.Fprintf(b, "%d. %s\n", i+1, r)
	}
	if len(recs) > 0 {
		b.WriteString("\n")
	}
	for _, a := range advice {
		fmt.Fprintf(b, "**%s**：%s\n\n> %s\n\n", a.Title, a.Detail, a.Action)
	}
}

func writeNews(b *strings.Builder, news []contracts.Headline) {
	if len(news) == 0 {
		return
	}
	b.WriteString("## 相关新闻\n\n")
	for _, h := range news {
		line := fmt.Sprintf("- [%s](%s)", escapeLink(h.Title), h.Link)
		if h.Published != nil {
			line += " " + h.Published.Format("2006-01-02")
		}
		if h.Source != "" {
			line += " · " + h.Source
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

// number drops trailing zeros: 82 → "82", 0.5 → "0.5", 12.345 → "12.35"
func number(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func pointer(v *float64) string {
	if v == nil {
		return "-"
	}
	return number(*v)
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func escapeLink(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(s)
}
