package contracts

import "math"

// Metric is a canonical financial ratio name
// ⭐ SSOT: 지표 이름은 이 enum만 사용 (문자열 하드코딩 금지)
type Metric string

const (
	MetricGrossMargin       Metric = "gross_margin"
	MetricNetMargin         Metric = "net_margin"
	MetricOperatingMargin   Metric = "operating_margin"
	MetricROE               Metric = "roe"
	MetricROA               Metric = "roa"
	MetricDebtRatio         Metric = "debt_ratio"
	MetricCurrentRatio      Metric = "current_ratio"
	MetricQuickRatio        Metric = "quick_ratio"
	MetricEquityMultiplier  Metric = "equity_multiplier"
	MetricAssetTurnover     Metric = "asset_turnover"
	MetricOCFToNetProfit    Metric = "ocf_to_np"
	MetricRDRatio           Metric = "rd_ratio"
	MetricCostToIncome      Metric = "cost_to_income"
	MetricNetProfitMargin   Metric = "net_profit_margin"
	MetricROEDupont         Metric = "roe_dupont"
	MetricRevenue           Metric = "revenue"
	MetricNetProfit         Metric = "net_profit"
	MetricTotalAssets       Metric = "total_assets"
	MetricTotalLiabilities  Metric = "total_liabilities"
	MetricOperatingCashFlow Metric = "operating_cash_flow"
	MetricCapex             Metric = "capex"
	MetricFreeCashFlow      Metric = "free_cash_flow"
	MetricInvestingCashFlow Metric = "investing_cash_flow"
	MetricFinancingCashFlow Metric = "financing_cash_flow"
	MetricNetCashIncrease   Metric = "net_cash_increase"
	MetricEndingCash        Metric = "ending_cash"
	MetricDividendsPaid     Metric = "dividends_paid"
	MetricCapexRatio        Metric = "capex_ratio"
)

type metricInfo struct {
	name    string   // 중문 표시명
	aliases []string // 조회 순서 = 우선순위
}

// 별칭은 순서 있는 리스트: 첫 번째로 존재하는 값이 채택됨
var metricTable = map[Metric]metricInfo{
	MetricGrossMargin:       {"毛利率", []string{"gross_margin", "毛利率"}},
	MetricNetMargin:         {"净利率", []string{"net_margin", "net_profit_margin", "净利率"}},
	MetricOperatingMargin:   {"营业利润率", []string{"operating_margin", "营业利润率"}},
	MetricROE:               {"净资产收益率(ROE)", []string{"roe"}},
	MetricROA:               {"总资产收益率(ROA)", []string{"roa"}},
	MetricDebtRatio:         {"资产负债率", []string{"debt_ratio", "资产负债率"}},
	MetricCurrentRatio:      {"流动比率", []string{"current_ratio", "流动比率"}},
	MetricQuickRatio:        {"速动比率", []string{"quick_ratio", "速动比率"}},
	MetricEquityMultiplier:  {"权益乘数", []string{"equity_multiplier", "权益乘数"}},
	MetricAssetTurnover:     {"总资产周转率", []string{"asset_turnover", "资产周转率"}},
	MetricOCFToNetProfit:    {"现金流/净利润比", []string{"ocf_to_np", "现金流/净利润"}},
	MetricRDRatio:           {"研发费用率", []string{"rd_ratio", "研发费用率"}},
	MetricCostToIncome:      {"成本收入比", []string{"cost_to_income", "成本收入比"}},
	MetricNetProfitMargin:   {"销售净利率", []string{"net_profit_margin", "net_margin", "净利率"}},
	MetricROEDupont:         {"杜邦ROE", []string{"roe_dupont"}},
	MetricRevenue:           {"营业收入(亿元)", []string{"revenue"}},
	MetricNetProfit:         {"净利润(亿元)", []string{"net_profit"}},
	MetricTotalAssets:       {"总资产(亿元)", []string{"total_assets"}},
	MetricTotalLiabilities:  {"总负债(亿元)", []string{"total_liabilities"}},
	MetricOperatingCashFlow: {"经营现金流(亿元)", []string{"operating_cash_flow"}},
	MetricCapex:             {"资本开支(亿元)", []string{"capex"}},
	MetricFreeCashFlow:      {"自由现金流(亿元)", []string{"free_cash_flow"}},
	MetricInvestingCashFlow: {"投资现金流(亿元)", []string{"investing_cash_flow"}},
	MetricFinancingCashFlow: {"筹资现金流(亿元)", []string{"financing_cash_flow"}},
	MetricNetCashIncrease:   {"现金净增加额(亿元)", []string{"net_cash_increase"}},
	MetricEndingCash:        {"期末现金余额(亿元)", []string{"ending_cash"}},
	MetricDividendsPaid:     {"分红及付息(亿元)", []string{"dividends_paid"}},
	MetricCapexRatio:        {"资本开支/经营现金流", []string{"capex_ratio"}},
}

// Known reports whether m is a canonical metric name
func (m Metric) Known() bool {
	_, ok := metricTable[m]
	return ok
}

// DisplayName returns the Chinese display name, or the raw name if unknown
func (m Metric) DisplayName() string {
	if info, ok := metricTable[m]; ok {
		return info.name
	}
	return string(m)
}

// Aliases returns the ordered lookup keys for m. Unknown metrics resolve only by their own name.
func (m Metric) Aliases() []string {
	if info, ok := metricTable[m]; ok {
		return info.aliases
	}
	return []string{string(m)}
}

// ParseMetric converts a canonical name into a Metric
func ParseMetric(s string) (Metric, bool) {
	m := Metric(s)
	return m, m.Known()
}

// Round2 rounds half away from zero to 2 decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Float returns a pointer to v (absent values are nil)
func Float(v float64) *float64 {
	return &v
}
