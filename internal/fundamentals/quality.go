package fundamentals

import (
	"github.com/wonny/caiwu/internal/contracts"
)

// QualityConfig holds the minimum key-field coverage per statement
type QualityConfig struct {
	MinIncomeCoverage   float64 `yaml:"min_income_coverage"`   // 0.75
	MinBalanceCoverage  float64 `yaml:"min_balance_coverage"`  // 0.80
	MinCashFlowCoverage float64 `yaml:"min_cashflow_coverage"` // 0.50
}

// DefaultQualityConfig returns the thresholds used by the analyzer
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinIncomeCoverage:   0.75,
		MinBalanceCoverage:  0.80,
		MinCashFlowCoverage: 0.50,
	}
}

type keyField struct {
	name   string
	fields []string
}

// 점수 계산에 쓰이는 항목만 (선택 항목 제외)
var keyFields = map[contracts.StatementKind][]keyField{
	contracts.StatementIncome: {
		{"revenue", fieldRevenue},
		{"operating_cost", fieldOperatingCost},
		{"net_profit", fieldNetProfit},
		{"operating_profit", fieldOperatingProfit},
	},
	contracts.StatementBalance: {
		{"total_assets", fieldTotalAssets},
		{"total_liabilities", fieldTotalLiabilities},
		{"current_assets", fieldCurrentAssets},
		{"current_liabilities", fieldCurrentLiabilities},
		{"inventory", fieldInventory},
	},
	contracts.StatementCashFlow: {
		{"operating_cash_flow", fieldOperatingCashFlow},
		{"capex", fieldCapex},
	},
}

var coverageWeights = map[contracts.StatementKind]float64{
	contracts.StatementIncome:   0.4,
	contracts.StatementBalance:  0.4,
	contracts.StatementCashFlow: 0.2,
}

// QualityGate checks that the latest statements carry the line items scoring needs
type QualityGate struct {
	config QualityConfig
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config QualityConfig) *QualityGate {
	return &QualityGate{config: config}
}

// Check measures key-field coverage of the latest row of each statement
// ⭐ SSOT: 재무제표 완전성 검증
func (g *QualityGate) Check(set *contracts.StatementSet) *contracts.DataQuality {
	q := &contracts.DataQuality{
		Coverage: make(map[contracts.StatementKind]float64, len(contracts.StatementKinds)),
	}

	for _, kind := range contracts.StatementKinds {
		var row contracts.StatementRow
		if set != nil {
			row = set.Latest(kind)
		}

		present := 0
		for _, kf := range keyFields[kind] {
			if Lookup(row, kf.fields) != nil {
				present++
			} else {
				q.Missing = append(q.Missing, string(kind)+"."+kf.name)
			}
		}

		coverage := float64(present) / float64(len(keyFields[kind]))
		q.Coverage[kind] = coverage
		q.Score += coverage * coverageWeights[kind]
	}

	q.Score = contracts.Round2(q.Score)
	q.Passed = q.Coverage[contracts.StatementIncome] >= g.config.MinIncomeCoverage &&
		q.Coverage[contracts.StatementBalance] >= g.config.MinBalanceCoverage &&
		q.Coverage[contracts.StatementCashFlow] >= g.config.MinCashFlowCoverage

	return q
}
