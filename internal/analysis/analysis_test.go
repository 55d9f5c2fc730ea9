package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
)

type fakeSource struct {
	set   *contracts.StatementSet
	err   error
	calls int
}

func (f *fakeSource) FetchStatements(ctx context.Context, code string) (*contracts.StatementSet, error) {
	f.calls++
	return f.set, f.err
}

type fakeNews struct {
	headlines []contracts.Headline
	err       error
}

func (f *fakeNews) Headlines(ctx context.Context, name, code string) ([]contracts.Headline, error) {
	return f.headlines, f.err
}

func moutai() *contracts.StatementSet {
	return &contracts.StatementSet{
		Code: "600519",
		Name: "贵州茅台",
		Income: []contracts.StatementRow{{
			"REPORT_DATE":          "2024-12-31 00:00:00",
			"TOTAL_OPERATE_INCOME": 150e9,
			"OPERATE_COST":         12e9,
			"NETPROFIT":            75e9,
			"OPERATE_PROFIT":       100e9,
		}},
		Balance: []contracts.StatementRow{{
			"TOTAL_ASSETS":         300e9,
			"TOTAL_LIABILITIES":    60e9,
			"TOTAL_CURRENT_ASSETS": 250e9,
			"TOTAL_CURRENT_LIAB":   50e9,
			"INVENTORY":            50e9,
		}},
		CashFlow: []contracts.StatementRow{{
			"NETCASH_OPERATE":      60e9,
			"CONSTRUCT_LONG_ASSET": 5e9,
		}},
	}
}

func consumer(t *testing.T) *benchmark.Industry {
	t.Helper()
	ind, ok := benchmark.Default().Industry("consumer")
	require.True(t, ok)
	return ind
}

func newTestAnalyzer(t *testing.T, source contracts.StatementSource, news NewsProvider) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(source, nil, news, nil)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return a
}

func TestAnalyzer_Analyze(t *testing.T) {
	source := &fakeSource{set: moutai()}
	news := &fakeNews{headlines: []contracts.Headline{{Title: "贵州茅台发布年报", Link: "https://example.com/1"}}}
	a := newTestAnalyzer(t, source, news)

	report, err := a.Analyze(context.Background(), contracts.Security{Code: "600519"})
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, "贵州茅台", report.Security.Name, "name filled from statements")
	assert.Equal(t, "2024-12-31", report.ReportDate)
	assert.Equal(t, "consumer", report.Industry.Industry.ID)
	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, report.BenchmarkHash)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), report.GeneratedAt)
	assert.Len(t, report.News, 1)

	require.NotNil(t, report.DataQuality)
	assert.True(t, report.DataQuality.Passed)
	assert.Equal(t, 1.0, report.DataQuality.Score)
	assert.Empty(t, report.DataQuality.Missing)

	// 25 + 25 + 5 + 12 + 15
	assert.Equal(t, 82.0, report.Health.TotalScore)
	assert.Equal(t, contracts.RiskLow, report.Health.RiskLevel)
	assert.Equal(t, "财务状况良好", report.Recommendations[0])

	require.NotNil(t, report.Dupont.ROE)
	assert.Equal(t, 31.25, *report.Dupont.ROE)

	assert.Len(t, report.Narratives, 4)
	assert.Equal(t, []string{"运营效率有待提升"}, report.Assessment.Concerns)
}

func TestAnalyzer_Analyze_NewsFailureIsNotFatal(t *testing.T) {
	a := newTestAnalyzer(t, &fakeSource{set: moutai()}, &fakeNews{err: errors.New("feed down")})

	report, err := a.Analyze(context.Background(), contracts.Security{Code: "600519", Name: "茅台"})
	require.NoError(t, err)

	assert.Empty(t, report.News)
	assert.Equal(t, "茅台", report.Security.Name, "caller name wins")
}

func TestAnalyzer_Analyze_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		code   string
		source *fakeSource
		want   error
	}{
		{"invalid code", "60051X", &fakeSource{set: moutai()}, contracts.ErrInvalidCode},
		{"source error", "600519", &fakeSource{err: boom}, boom},
		{"nil set", "600519", &fakeSource{}, contracts.ErrStatementsNotFound},
		{"empty set", "600519", &fakeSource{set: &contracts.StatementSet{Code: "600519"}}, contracts.ErrStatementsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t, tt.source, nil)

			_, err := a.Analyze(context.Background(), contracts.Security{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzer_Analyze_NoSource(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	_, err := a.Analyze(context.Background(), contracts.Security{Code: "600519"})
	assert.Error(t, err)
}

func TestAnalyzer_Score(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	report := a.Score(contracts.Security{Code: "600519", Name: "贵州茅台"}, contracts.MetricSet{
		"roe":               22.5,
		"debt_ratio":        21.5,
		"gross_margin":      51.26,
		"net_profit_margin": 51.26,
		"asset_turnover":    0.85,
	})

	assert.Equal(t, "consumer", report.Industry.Industry.ID)
	assert.InDelta(t, 81.19, report.Industry.NormalizedScore, 0.02)
	assert.Empty(t, report.ReportDate)
	assert.Nil(t, report.Dupont.ROE)
	assert.NotEmpty(t, report.Narratives)

	// 메트릭 없음 → 최악값 기준
	empty := a.Score(contracts.Security{Code: "519"}, nil)
	assert.Equal(t, "000519", empty.Security.Code)
	assert.Equal(t, 10.0, empty.Health.TotalScore)
	assert.Equal(t, contracts.RiskHigh, empty.Health.RiskLevel)
	assert.Empty(t, empty.Industry.DimensionScores)
}

func TestAnalyzer_ScoreDropsNonFiniteMetrics(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	report := a.Score(contracts.Security{Code: "600519"}, contracts.MetricSet{
		"roe":          math.NaN(),
		"debt_ratio":   math.Inf(1),
		"gross_margin": 51.26,
	})

	assert.Equal(t, contracts.MetricSet{"gross_margin": 51.26}, report.Metrics)
	assert.False(t, math.IsNaN(report.Industry.NormalizedScore))

	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestRecommendations(t *testing.T) {
	industry := contracts.IndustryScoreResult{
		Recommendations: []string{"财务状况良好", "行业特有建议"},
	}

	tests := []struct {
		name    string
		total   float64
		metrics contracts.MetricSet
		want    []string
	}{
		{"good", 82, contracts.MetricSet{"debt_ratio": 30}, []string{"财务状况良好", "行业特有建议"}},
		{"average", 45, nil, []string{"财务状况一般，建议关注薄弱环节", "财务状况良好", "行业特有建议"}},
		{"poor high debt", 20, contracts.MetricSet{"资产负债率": 80}, []string{
			"财务状况需警惕，建议深入分析", "资产负债率超过70%，需关注现金流", "财务状况良好", "行业特有建议",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := contracts.GenericHealthResult{TotalScore: tt.total}
			assert.Equal(t, tt.want, Recommendations(health, industry, tt.metrics))
		})
	}
}

func healthResult(scores ...float64) contracts.GenericHealthResult {
	maxes := []float64{25, 25, 20, 15, 15}
	r := contracts.GenericHealthResult{MaxScore: 100}
	for i, d := range contracts.HealthDimensions {
		r.Dimensions = append(r.Dimensions, contracts.DimensionScore{
			Dimension: d,
			Name:      d.Label(),
			Score:     scores[i],
			MaxScore:  maxes[i],
			Details:   "明细",
		})
		r.TotalScore += scores[i]
	}
	return r
}

func TestAdvise(t *testing.T) {
	advice := Advise(healthResult(25, 25, 5, 12, 15), "consumer")

	require.Len(t, advice, 4)
	assert.Equal(t, "strength", advice[0].Kind)
	assert.Equal(t, "财务状况优异", advice[0].Title)
	assert.Equal(t, "industry_specific", advice[1].Kind)
	assert.Equal(t, "行业特点提示", advice[1].Title)
	assert.Equal(t, "industry_specific", advice[2].Kind)
	assert.Equal(t, "dimension_specific", advice[3].Kind)
	assert.Equal(t, "运营效率需关注", advice[3].Title)
	assert.Contains(t, advice[3].Detail, "明细")
}

func TestAdvise_OverallTiers(t *testing.T) {
	tests := []struct {
		scores []float64
		title  string
	}{
		{[]float64{25, 20, 10, 5, 4}, "财务状况良好"},
		{[]float64{15, 15, 5, 5, 4}, "存在改善空间"},
		{[]float64{0, 5, 0, 5, 0}, "存在财务风险"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			advice := Advise(healthResult(tt.scores...), "unknown")
			assert.Equal(t, tt.title, advice[0].Title)
			for _, a := range advice[1:] {
				assert.NotEqual(t, "industry_specific", a.Kind, "no hints for an industry without advice")
			}
		})
	}
}

func TestAssess(t *testing.T) {
	industry := contracts.IndustryScoreResult{
		Industry:        contracts.IndustryRef{ID: "consumer", Name: "消费品"},
		NormalizedScore: 81.19,
		RiskLabel:       "低风险",
	}
	health := healthResult(25, 25, 5, 12, 15)
	health.RiskLabel = "低风险"

	a := Assess(health, industry)

	assert.Equal(t, "综合健康评分82/100分（低风险），消费品行业调整评分81.19分（低风险）", a.Summary)
	assert.Equal(t, []string{
		"卓越的盈利能力和高ROE水平",
		"稳健的财务结构和低财务风险",
		"优秀的成长能力",
		"强劲的现金创造能力",
	}, a.Strengths)
	assert.Equal(t, []string{"运营效率有待提升"}, a.Concerns)
	assert.Equal(t, "短期业绩稳健，预期保持平稳发展。", a.ShortTerm)
}

func TestAssess_Defaults(t *testing.T) {
	// 모든 차원이 50~80% 구간
	a := Assess(healthResult(15, 15, 12, 9, 9), contracts.IndustryScoreResult{})

	assert.Equal(t, []string{"暂无特别优势"}, a.Strengths)
	assert.Equal(t, []string{"整体表现均衡"}, a.Concerns)
	assert.Equal(t, "短期业绩基本稳定，需关注市场变化。", a.ShortTerm)
}

func TestNarratives(t *testing.T) {
	metrics := contracts.MetricSet{
		"gross_margin":      92,
		"operating_margin":  66.67,
		"net_profit_margin": 50,
		"roe":               31.25,
		"debt_ratio":        20,
		"asset_turnover":    0.5,
		"ocf_to_np":         80,
		"free_cash_flow":    550,
	}
	dupont := contracts.Dupont{
		NetMargin:        contracts.Float(50),
		AssetTurnover:    contracts.Float(0.5),
		EquityMultiplier: contracts.Float(1.25),
		ROE:              contracts.Float(31.25),
	}

	narratives := Narratives(metrics, dupont, consumer(t))
	require.Len(t, narratives, 4)

	var dims []contracts.HealthDimension
	for _, n := range narratives {
		dims = append(dims, n.Dimension)
	}
	assert.Equal(t, []contracts.HealthDimension{
		contracts.DimensionProfitability, contracts.DimensionSolvency,
		contracts.DimensionEfficiency, contracts.DimensionCashflow,
	}, dims)

	profit := narratives[0]
	require.Len(t, profit.Insights, 3)
	nm := profit.Insights[0]
	assert.Equal(t, contracts.MetricNetMargin, nm.Metric)
	assert.Equal(t, contracts.RatingExcellent, nm.Rating)
	assert.Equal(t, "优秀", nm.RatingLabel)
	assert.Equal(t, "净利率达到50.00%，远超行业平均水平(18.00%)，显示出强大的盈利能力和成本控制能力。", nm.Interpretation)
	assert.Equal(t, []string{"高于行业平均水平32.0个百分点", "高毛利率(92.00%)", "期间费用控制优秀"}, nm.Notes)

	roe := profit.Insights[1]
	assert.Equal(t, "公司ROE表现卓越，在行业内处于领先地位。", roe.Interpretation)
	assert.Equal(t, []string{"杜邦分解：净利率是主要驱动力（净利率50.00%，周转率0.50次，权益乘数1.25倍）"}, roe.Notes)

	assert.Equal(t, "盈利能力分析：优势方面：净利率优异、ROE出色。各项指标表现良好。", profit.Summary)

	efficiency := narratives[2]
	require.Len(t, efficiency.Insights, 1)
	assert.Equal(t, contracts.RatingNeutral, efficiency.Insights[0].Rating)
	assert.Equal(t, []string{"公司采用高毛利低周转的商业模式，这是消费品行业的典型特征。"}, efficiency.Context)

	cash := narratives[3]
	require.Len(t, cash.Insights, 1)
	assert.Equal(t, "经营现金流占净利润80.0%，处于合理区间。", cash.Insights[0].Interpretation)
	assert.Equal(t, []string{"自由现金流达到550.00亿元，现金创造能力强劲，可用于分红、回购或扩张投资。"}, cash.Context)
	assert.Equal(t, "现金流质量分析：各项指标表现良好。", cash.Summary)
}

func TestNarratives_Concerns(t *testing.T) {
	metrics := contracts.MetricSet{
		"net_profit_margin": 2,
		"roe":               5,
		"ocf_to_np":         -10,
		"free_cash_flow":    -3,
	}

	narratives := Narratives(metrics, contracts.Dupont{}, consumer(t))

	profit := narratives[0]
	assert.Equal(t, "盈利能力分析：需要关注：净利率偏低、ROE待提升。", profit.Summary)
	assert.Equal(t, "很差", profit.Insights[0].RatingLabel)
	assert.Empty(t, profit.Insights[1].Notes, "no dupont note without factors")

	cash := narratives[3]
	assert.Equal(t, contracts.RatingCritical, cash.Insights[0].Rating)
	assert.Equal(t, "现金流质量分析：需要关注：现金流偏弱。", cash.Summary)
	assert.Equal(t, []string{"自由现金流为-3.00亿元，主要由于资本支出较大，需关注投资回报情况。"}, cash.Context)
}

func TestNarratives_HighDebtIndustry(t *testing.T) {
	ind, ok := benchmark.Default().Industry("construction")
	require.True(t, ok)

	narratives := Narratives(contracts.MetricSet{"debt_ratio": 78}, contracts.Dupont{}, ind)

	solvency := narratives[1]
	require.Len(t, solvency.Insights, 1)
	assert.Equal(t, "建筑行业高负债属于常态，关键在于经营现金流能否覆盖债务本息。", solvency.Context[0])
}

func TestNarratives_WithoutIndustry(t *testing.T) {
	narratives := Narratives(contracts.MetricSet{"roe": 20, "ocf_to_np": 120}, contracts.Dupont{}, nil)

	require.Len(t, narratives, 4)
	assert.Empty(t, narratives[0].Insights, "benchmark needed for profitability")
	assert.Empty(t, narratives[1].Insights)
	assert.Len(t, narratives[3].Insights, 1, "cash quality needs no benchmark")
	assert.Equal(t, "现金流质量分析：优势方面：现金创造能力强。各项指标表现良好。", narratives[3].Summary)
}

func TestCashQuality(t *testing.T) {
	tests := []struct {
		v    float64
		want contracts.Rating
	}{
		{150, contracts.RatingExcellent},
		{100, contracts.RatingGood},
		{90, contracts.RatingGood},
		{60, contracts.RatingNeutral},
		{10, contracts.RatingConcern},
		{0, contracts.RatingCritical},
		{-5, contracts.RatingCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cashQuality(tt.v), tt.v)
	}
}

func TestFill(t *testing.T) {
	got := fill("{metric}为{value}%，{missing}", map[string]string{"metric": "ROE", "value": "12.00"})
	assert.Equal(t, "ROE为12.00%，{missing}", got)
}
