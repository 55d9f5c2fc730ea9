package fundamentals

import (
	"math"

	"github.com/wonny/caiwu/internal/contracts"
)

// yuanPerYi converts 元 to 亿元
const yuanPerYi = 1e8

// statementValues are the raw line items of the latest report
type statementValues struct {
	revenue         *float64
	cost            *float64
	netProfit       *float64
	operatingProfit *float64
	rdExpense       *float64
	manageExpense   *float64

	totalAssets        *float64
	totalLiabilities   *float64
	currentAssets      *float64
	currentLiabilities *float64
	inventory          *float64

	ocf             *float64
	investing       *float64
	financing       *float64
	capex           *float64
	netCashIncrease *float64
	endingCash      *float64
	dividendsPaid   *float64
}

func extract(set *contracts.StatementSet) statementValues {
	income := set.Latest(contracts.StatementIncome)
	balance := set.Latest(contracts.StatementBalance)
	cashflow := set.Latest(contracts.StatementCashFlow)

	return statementValues{
		revenue:         Lookup(income, fieldRevenue),
		cost:            Lookup(income, fieldOperatingCost),
		netProfit:       Lookup(income, fieldNetProfit),
		operatingProfit: Lookup(income, fieldOperatingProfit),
		rdExpense:       Lookup(income, fieldRDExpense),
		manageExpense:   Lookup(income, fieldManageExpense),

		totalAssets:        Lookup(balance, fieldTotalAssets),
		totalLiabilities:   Lookup(balance, fieldTotalLiabilities),
		currentAssets:      Lookup(balance, fieldCurrentAssets),
		currentLiabilities: Lookup(balance, fieldCurrentLiabilities),
		inventory:          Lookup(balance, fieldInventory),

		ocf:             Lookup(cashflow, fieldOperatingCashFlow),
		investing:       Lookup(cashflow, fieldInvestingCashFlow),
		financing:       Lookup(cashflow, fieldFinancingCashFlow),
		capex:           Lookup(cashflow, fieldCapex),
		netCashIncrease: Lookup(cashflow, fieldNetCashIncrease),
		endingCash:      Lookup(cashflow, fieldEndingCash),
		dividendsPaid:   Lookup(cashflow, fieldDividendsPaid),
	}
}

// Derive computes the standard ratios from the latest row of each statement.
// A ratio whose input is missing or whose denominator is zero stays absent.
// ⭐ SSOT: 재무제표 → 파생 지표 변환은 여기서만
func Derive(set *contracts.StatementSet) contracts.DerivedMetrics {
	out := contracts.DerivedMetrics{Metrics: contracts.MetricSet{}}
	if set == nil {
		return out
	}

	v := extract(set)
	m := out.Metrics
	equity := sub(v.totalAssets, v.totalLiabilities)

	// 수익성
	m.SetPtr(contracts.MetricGrossMargin, pct(sub(v.revenue, v.cost), v.revenue))
	m.SetPtr(contracts.MetricOperatingMargin, pct(v.operatingProfit, v.revenue))
	m.SetPtr(contracts.MetricNetProfitMargin, pct(v.netProfit, v.revenue))
	m.SetPtr(contracts.MetricROE, pct(v.netProfit, equity))
	m.SetPtr(contracts.MetricROA, pct(v.netProfit, v.totalAssets))
	m.SetPtr(contracts.MetricRDRatio, pct(v.rdExpense, v.revenue))
	m.SetPtr(contracts.MetricCostToIncome, pct(v.manageExpense, v.revenue))

	// 안정성
	m.SetPtr(contracts.MetricDebtRatio, pct(v.totalLiabilities, v.totalAssets))
	m.SetPtr(contracts.MetricCurrentRatio, div(v.currentAssets, v.currentLiabilities))
	m.SetPtr(contracts.MetricQuickRatio, div(sub(v.currentAssets, v.inventory), v.currentLiabilities))
	m.SetPtr(contracts.MetricEquityMultiplier, div(v.totalAssets, equity))

	// 효율성
	m.SetPtr(contracts.MetricAssetTurnover, div(v.revenue, v.totalAssets))

	// 현금흐름 (ocf_to_np 는 퍼센트)
	m.SetPtr(contracts.MetricOCFToNetProfit, pct(v.ocf, v.netProfit))
	if v.ocf != nil && v.capex != nil && *v.ocf != 0 {
		m.Set(contracts.MetricCapexRatio, contracts.Round2(math.Abs(*v.capex / *v.ocf * 100)))
	}

	// 규모 (亿元)
	m.SetPtr(contracts.MetricRevenue, yi(v.revenue))
	m.SetPtr(contracts.MetricNetProfit, yi(v.netProfit))
	m.SetPtr(contracts.MetricTotalAssets, yi(v.totalAssets))
	m.SetPtr(contracts.MetricTotalLiabilities, yi(v.totalLiabilities))
	m.SetPtr(contracts.MetricOperatingCashFlow, yi(v.ocf))
	m.SetPtr(contracts.MetricCapex, yi(v.capex))
	m.SetPtr(contracts.MetricFreeCashFlow, yi(sub(v.ocf, v.capex)))
	m.SetPtr(contracts.MetricInvestingCashFlow, yi(v.investing))
	m.SetPtr(contracts.MetricFinancingCashFlow, yi(v.financing))
	m.SetPtr(contracts.MetricNetCashIncrease, yi(v.netCashIncrease))
	m.SetPtr(contracts.MetricEndingCash, yi(v.endingCash))
	m.SetPtr(contracts.MetricDividendsPaid, yi(v.dividendsPaid))

	out.Dupont = Dupont(v.netProfit, v.revenue, v.totalAssets, v.totalLiabilities)
	m.SetPtr(contracts.MetricROEDupont, out.Dupont.ROE)

	return out
}

// Dupont decomposes ROE into net margin × asset turnover × equity multiplier.
// Each factor is rounded before the product, so roe_dupont can differ from roe
// in the last decimal.
func Dupont(netProfit, revenue, totalAssets, totalLiabilities *float64) contracts.Dupont {
	d := contracts.Dupont{
		NetMargin:        pct(netProfit, revenue),
		AssetTurnover:    div(revenue, totalAssets),
		EquityMultiplier: div(totalAssets, sub(totalAssets, totalLiabilities)),
	}

	if d.NetMargin != nil && d.AssetTurnover != nil && d.EquityMultiplier != nil {
		d.ROE = contracts.Float(contracts.Round2(*d.NetMargin * *d.AssetTurnover * *d.EquityMultiplier / 100))
	}
	return d
}

func div(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return contracts.Float(contracts.Round2(*num / *den))
}

func pct(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return contracts.Float(contracts.Round2(*num / *den * 100))
}

func sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return contracts.Float(*a - *b)
}

func yi(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return contracts.Float(contracts.Round2(*v / yuanPerYi))
}
