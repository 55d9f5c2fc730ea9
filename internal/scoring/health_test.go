package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/caiwu/internal/contracts"
)

func dimensionScores(r contracts.GenericHealthResult) map[contracts.HealthDimension]float64 {
	out := make(map[contracts.HealthDimension]float64, len(r.Dimensions))
	for _, d := range r.Dimensions {
		out[d.Dimension] = d.Score
	}
	return out
}

func TestHealthScorer_Example(t *testing.T) {
	s := NewHealthScorer(nil)

	result := s.Score(contracts.MetricSet{
		"roe":               25.18,
		"debt_ratio":        12.81,
		"asset_turnover":    0.43,
		"net_profit_margin": 51.11,
		"ocf_to_np":         57.1,
	})

	// ocf_to_np 는 퍼센트 값이라 비율 임계값(>1.2)을 항상 넘음
	assert.Equal(t, map[contracts.HealthDimension]float64{
		contracts.DimensionProfitability: 25,
		contracts.DimensionSolvency:      25,
		contracts.DimensionEfficiency:    5,
		contracts.DimensionGrowth:        12,
		contracts.DimensionCashflow:      15,
	}, dimensionScores(result))
	assert.Equal(t, 82.0, result.TotalScore)
	assert.Equal(t, 100.0, result.MaxScore)
	assert.Equal(t, contracts.RiskLow, result.RiskLevel)
	assert.Equal(t, "低风险", result.RiskLabel)

	profitability, ok := result.Dimension(contracts.DimensionProfitability)
	require.True(t, ok)
	assert.Equal(t, "盈利能力", profitability.Name)
	assert.Equal(t, 25.0, profitability.MaxScore)
	assert.Equal(t, "优秀 (ROE>15%)", profitability.Details)

	efficiency, _ := result.Dimension(contracts.DimensionEfficiency)
	assert.Equal(t, "较低 (周转率0.3-0.5)", efficiency.Details)
}

func TestHealthScorer_DimensionOrder(t *testing.T) {
	result := NewHealthScorer(nil).Score(contracts.MetricSet{})

	require.Len(t, result.Dimensions, len(contracts.HealthDimensions))
	for i, d := range result.Dimensions {
		assert.Equal(t, contracts.HealthDimensions[i], d.Dimension)
	}

	caps := 0.0
	for _, d := range result.Dimensions {
		caps += d.MaxScore
	}
	assert.Equal(t, HealthMaxScore, caps)
}

func TestHealthScorer_MissingIsWorstCase(t *testing.T) {
	result := NewHealthScorer(nil).Score(contracts.MetricSet{})

	assert.Equal(t, map[contracts.HealthDimension]float64{
		contracts.DimensionProfitability: 0,
		contracts.DimensionSolvency:      5,
		contracts.DimensionEfficiency:    0,
		contracts.DimensionGrowth:        5,
		contracts.DimensionCashflow:      0,
	}, dimensionScores(result))
	assert.Equal(t, 10.0, result.TotalScore)
	assert.Equal(t, contracts.RiskHigh, result.RiskLevel)

	solvency, _ := result.Dimension(contracts.DimensionSolvency)
	assert.Equal(t, "高风险 (负债率>70%)", solvency.Details)
}

func TestHealthScorer_ZeroDebtIsAValue(t *testing.T) {
	result := NewHealthScorer(nil).Score(contracts.MetricSet{"debt_ratio": 0})
	assert.Equal(t, 25.0, dimensionScores(result)[contracts.DimensionSolvency])
}

func TestHealthScorer_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		metric    string
		value     float64
		dimension contracts.HealthDimension
		want      float64
	}{
		{"roe 15 is not above 15", "roe", 15, contracts.DimensionProfitability, 20},
		{"roe 10.01", "roe", 10.01, contracts.DimensionProfitability, 20},
		{"roe 5", "roe", 5, contracts.DimensionProfitability, 10},
		{"roe 0.1", "roe", 0.1, contracts.DimensionProfitability, 10},
		{"roe loss", "roe", -3, contracts.DimensionProfitability, 0},
		{"debt 40 is not below 40", "debt_ratio", 40, contracts.DimensionSolvency, 20},
		{"debt 55", "debt_ratio", 55, contracts.DimensionSolvency, 15},
		{"debt 69.9", "debt_ratio", 69.9, contracts.DimensionSolvency, 10},
		{"debt 70", "debt_ratio", 70, contracts.DimensionSolvency, 5},
		{"turnover 1.0", "asset_turnover", 1.0, contracts.DimensionEfficiency, 15},
		{"turnover 1.5", "asset_turnover", 1.5, contracts.DimensionEfficiency, 20},
		{"turnover 0.6", "asset_turnover", 0.6, contracts.DimensionEfficiency, 10},
		{"turnover 0.3", "asset_turnover", 0.3, contracts.DimensionEfficiency, 0},
		{"margin 10", "net_profit_margin", 10, contracts.DimensionGrowth, 8},
		{"margin 5", "net_profit_margin", 5, contracts.DimensionGrowth, 5},
		{"margin via alias", "净利率", 20, contracts.DimensionGrowth, 12},
		{"ocf 1.2", "ocf_to_np", 1.2, contracts.DimensionCashflow, 12},
		{"ocf 1.1", "ocf_to_np", 1.1, contracts.DimensionCashflow, 12},
		{"ocf 0.9", "ocf_to_np", 0.9, contracts.DimensionCashflow, 8},
		{"ocf 0.6", "ocf_to_np", 0.6, contracts.DimensionCashflow, 4},
		{"ocf 0.2", "ocf_to_np", 0.2, contracts.DimensionCashflow, 2},
		{"ocf zero", "ocf_to_np", 0, contracts.DimensionCashflow, 0},
		{"ocf negative", "ocf_to_np", -40, contracts.DimensionCashflow, 0},
	}

	s := NewHealthScorer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Score(contracts.MetricSet{tt.metric: tt.value})
			assert.Equal(t, tt.want, dimensionScores(result)[tt.dimension])
		})
	}
}

func TestHealthScorer_TotalIsSum(t *testing.T) {
	result := NewHealthScorer(nil).Score(contracts.MetricSet{
		"roe":            12,
		"debt_ratio":     45,
		"asset_turnover": 0.8,
		"ocf_to_np":      1.1,
	})

	// 20 + 20 + 15 + 5 + 12
	assert.Equal(t, 72.0, result.TotalScore)
	assert.Equal(t, contracts.RiskMediumLow, result.RiskLevel)
}

func TestHealthScorer_Idempotent(t *testing.T) {
	s := NewHealthScorer(nil)
	metrics := contracts.MetricSet{"roe": 8, "debt_ratio": 62}

	first, err := json.Marshal(s.Score(metrics))
	require.NoError(t, err)
	second, err := json.Marshal(s.Score(metrics))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestHealthScorer_NonFiniteTakesWorstCase(t *testing.T) {
	s := NewHealthScorer(nil)

	got := s.Score(contracts.MetricSet{"roe": math.NaN(), "debt_ratio": math.Inf(1), "ocf_to_np": math.Inf(-1)})
	assert.Equal(t, s.Score(contracts.MetricSet{}), got)

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}
