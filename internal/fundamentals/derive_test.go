package fundamentals

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/caiwu/internal/contracts"
)

func sampleStatements() *contracts.StatementSet {
	return &contracts.StatementSet{
		Code: "600519",
		Name: "贵州茅台",
		Income: []contracts.StatementRow{
			{
				"REPORT_DATE":          "2024-12-31 00:00:00",
				"TOTAL_OPERATE_INCOME": "150000000000",
				"OPERATE_COST":         12e9,
				"NETPROFIT":            75e9,
				"OPERATE_PROFIT":       100e9,
			},
			{"REPORT_DATE": "2023-12-31 00:00:00", "TOTAL_OPERATE_INCOME": 1.0},
		},
		Balance: []contracts.StatementRow{
			{
				"TOTAL_ASSETS":         300e9,
				"TOTAL_LIABILITIES":    60e9,
				"TOTAL_CURRENT_ASSETS": 250e9,
				"TOTAL_CURRENT_LIAB":   50e9,
				"INVENTORY":            50e9,
			},
		},
		CashFlow: []contracts.StatementRow{
			{
				"NETCASH_OPERATE":      60e9,
				"CONSTRUCT_LONG_ASSET": 5e9,
				"NETCASH_INVEST":       -20e9,
				"NETCASH_FINANCE":      -30e9,
			},
		},
	}
}

func TestDerive(t *testing.T) {
	derived := Derive(sampleStatements())
	m := derived.Metrics

	want := map[contracts.Metric]float64{
		contracts.MetricGrossMargin:       92,
		contracts.MetricOperatingMargin:   66.67,
		contracts.MetricNetProfitMargin:   50,
		contracts.MetricROE:               31.25,
		contracts.MetricROA:               25,
		contracts.MetricDebtRatio:         20,
		contracts.MetricCurrentRatio:      5,
		contracts.MetricQuickRatio:        4,
		contracts.MetricEquityMultiplier:  1.25,
		contracts.MetricAssetTurnover:     0.5,
		contracts.MetricOCFToNetProfit:    80,
		contracts.MetricCapexRatio:        8.33,
		contracts.MetricRevenue:           1500,
		contracts.MetricNetProfit:         750,
		contracts.MetricTotalAssets:       3000,
		contracts.MetricTotalLiabilities:  600,
		contracts.MetricOperatingCashFlow: 600,
		contracts.MetricCapex:             50,
		contracts.MetricFreeCashFlow:      550,
		contracts.MetricInvestingCashFlow: -200,
		contracts.MetricFinancingCashFlow: -300,
		contracts.MetricROEDupont:         31.25,
	}

	for metric, expected := range want {
		got, ok := m.Get(string(metric))
		if assert.True(t, ok, metric) {
			assert.InDelta(t, expected, got, 1e-9, metric)
		}
	}

	// 입력 없는 지표는 빠짐
	for _, metric := range []contracts.Metric{
		contracts.MetricRDRatio, contracts.MetricCostToIncome,
		contracts.MetricEndingCash, contracts.MetricDividendsPaid, contracts.MetricNetCashIncrease,
	} {
		_, ok := m.Get(string(metric))
		assert.False(t, ok, metric)
	}

	// net_margin 은 net_profit_margin 별칭으로 조회됨
	nm, ok := m.Resolve(contracts.MetricNetMargin)
	require.True(t, ok)
	assert.Equal(t, 50.0, nm)
}

func TestDerive_Dupont(t *testing.T) {
	d := Derive(sampleStatements()).Dupont

	require.NotNil(t, d.NetMargin)
	require.NotNil(t, d.AssetTurnover)
	require.NotNil(t, d.EquityMultiplier)
	require.NotNil(t, d.ROE)
	assert.Equal(t, 50.0, *d.NetMargin)
	assert.Equal(t, 0.5, *d.AssetTurnover)
	assert.Equal(t, 1.25, *d.EquityMultiplier)
	assert.Equal(t, 31.25, *d.ROE)
}

func TestDupont_RoundedFactors(t *testing.T) {
	d := Dupont(contracts.Float(1), contracts.Float(3), contracts.Float(7), contracts.Float(2))

	// 33.33 × 0.43 × 1.4 / 100
	assert.Equal(t, 33.33, *d.NetMargin)
	assert.Equal(t, 0.43, *d.AssetTurnover)
	assert.Equal(t, 1.4, *d.EquityMultiplier)
	assert.Equal(t, 0.2, *d.ROE)
}

func TestDerive_ZeroDenominators(t *testing.T) {
	set := &contracts.StatementSet{
		Income:   []contracts.StatementRow{{"TOTAL_OPERATE_INCOME": 0, "OPERATE_COST": 10, "NETPROFIT": 0}},
		Balance:  []contracts.StatementRow{{"TOTAL_ASSETS": 100, "TOTAL_LIABILITIES": 100, "TOTAL_CURRENT_LIAB": 0, "TOTAL_CURRENT_ASSETS": 5}},
		CashFlow: []contracts.StatementRow{{"NETCASH_OPERATE": 0, "CONSTRUCT_LONG_ASSET": 3}},
	}

	m := Derive(set).Metrics

	for _, metric := range []contracts.Metric{
		contracts.MetricGrossMargin, contracts.MetricNetProfitMargin,
		contracts.MetricROE, contracts.MetricEquityMultiplier,
		contracts.MetricCurrentRatio, contracts.MetricQuickRatio,
		contracts.MetricOCFToNetProfit, contracts.MetricCapexRatio,
		contracts.MetricROEDupont,
	} {
		_, ok := m.Get(string(metric))
		assert.False(t, ok, metric)
	}

	// 분자 0은 유효한 값
	assert.Equal(t, 0.0, m["asset_turnover"])
	assert.Equal(t, 100.0, m["debt_ratio"])
	assert.Equal(t, 0.0, m["roa"])
	assert.InDelta(t, 0, m["free_cash_flow"], 1e-9)
}

func TestDerive_EmptyInput(t *testing.T) {
	assert.Empty(t, Derive(nil).Metrics)
	assert.Empty(t, Derive(&contracts.StatementSet{}).Metrics)

	// 손익계산서만 있으면 손익 비율만 계산
	m := Derive(&contracts.StatementSet{
		Income: []contracts.StatementRow{{"营业收入": 200.0, "营业成本": 150.0, "净利润": 20.0}},
	}).Metrics
	assert.Equal(t, contracts.MetricSet{
		"gross_margin":      25,
		"net_profit_margin": 10,
		"revenue":           0,
		"net_profit":        0,
	}, m)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		row    contracts.StatementRow
		fields []string
		want   *float64
	}{
		{"first alias wins", contracts.StatementRow{"A": 1.0, "B": 2.0}, []string{"A", "B"}, contracts.Float(1)},
		{"null falls through", contracts.StatementRow{"A": nil, "B": 2.0}, []string{"A", "B"}, contracts.Float(2)},
		{"placeholder falls through", contracts.StatementRow{"A": "--", "B": "3"}, []string{"A", "B"}, contracts.Float(3)},
		{"numeric string", contracts.StatementRow{"A": " 1,234.5 "}, []string{"A"}, contracts.Float(1234.5)},
		{"scientific string", contracts.StatementRow{"A": "1.5E10"}, []string{"A"}, contracts.Float(1.5e10)},
		{"json number", contracts.StatementRow{"A": json.Number("42")}, []string{"A"}, contracts.Float(42)},
		{"int", contracts.StatementRow{"A": 7}, []string{"A"}, contracts.Float(7)},
		{"zero is a value", contracts.StatementRow{"A": 0.0, "B": 5.0}, []string{"A", "B"}, contracts.Float(0)},
		{"garbage", contracts.StatementRow{"A": "n/a"}, []string{"A"}, nil},
		{"bool", contracts.StatementRow{"A": true}, []string{"A"}, nil},
		{"missing", contracts.StatementRow{"Z": 1.0}, []string{"A"}, nil},
		{"nil row", nil, []string{"A"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.row, tt.fields))
		})
	}
}

func TestLookup_CostPrefersOperateCost(t *testing.T) {
	row := contracts.StatementRow{"TOTAL_OPERATE_COST": 90.0, "OPERATE_COST": 60.0}
	assert.Equal(t, contracts.Float(60), Lookup(row, fieldOperatingCost))
}
