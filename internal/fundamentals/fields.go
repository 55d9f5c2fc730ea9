package fundamentals

import (
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/wonny/caiwu/internal/contracts"
)

// Field aliases per statement line item, in lookup order.
// Eastmoney F10 names first, then Chinese column names, then snake_case.
var (
	// 利润表
	fieldRevenue         = []string{"TOTAL_OPERATE_INCOME", "营业收入", "营业总收入", "operating_revenue", "revenue"}
	fieldOperatingCost   = []string{"OPERATE_COST", "TOTAL_OPERATE_COST", "营业成本", "operating_cost"}
	fieldNetProfit       = []string{"NETPROFIT", "净利润", "net_profit", "归属于母公司所有者的净利润"}
	fieldOperatingProfit = []string{"OPERATE_PROFIT", "营业利润", "operating_profit"}
	fieldRDExpense       = []string{"RESEARCH_EXPENSE", "研发费用", "rd_expense"}
	fieldManageExpense   = []string{"BUSINESS_MANAGE_EXPENSE", "业务及管理费", "business_manage_expense"}

	// 资产负债表
	fieldTotalAssets        = []string{"TOTAL_ASSETS", "资产总计", "total_assets"}
	fieldTotalLiabilities   = []string{"TOTAL_LIABILITIES", "负债合计", "total_liabilities"}
	fieldCurrentAssets      = []string{"TOTAL_CURRENT_ASSETS", "流动资产合计", "current_assets"}
	fieldCurrentLiabilities = []string{"TOTAL_CURRENT_LIAB", "TOTAL_CURRENT_LIABILITIES", "流动负债合计", "current_liabilities"}
	fieldInventory          = []string{"INVENTORY", "存货", "inventory"}

	// 现金流量表
	fieldOperatingCashFlow = []string{"NETCASH_OPERATE", "经营活动产生的现金流量净额", "operating_cash_flow"}
	fieldInvestingCashFlow = []string{"NETCASH_INVEST", "投资活动产生的现金流量净额", "investing_cash_flow"}
	fieldFinancingCashFlow = []string{"NETCASH_FINANCE", "筹资活动产生的现金流量净额", "financing_cash_flow"}
	fieldCapex             = []string{"CONSTRUCT_LONG_ASSET", "购建固定资产、无形资产和其他长期资产支付的现金", "capex"}
	fieldNetCashIncrease   = []string{"CCE_ADD", "现金及现金等价物净增加额", "net_cash_increase"}
	fieldEndingCash        = []string{"END_CCE", "期末现金及现金等价物余额", "ending_cash"}
	fieldDividendsPaid     = []string{"ASSIGN_DIVIDEND_PORFIT", "分配股利、利润或偿付利息支付的现金", "dividends_paid"}
)

// Lookup returns the first present, non-null, numeric value among fields.
// Strings such as "1.2E10" are parsed; placeholders like "--" count as absent.
func Lookup(row contracts.StatementRow, fields []string) *float64 {
	if row == nil {
		return nil
	}

	for _, f := range fields {
		raw, ok := row[f]
		if !ok || raw == nil {
			continue
		}
		if v, ok := toFloat(raw); ok {
			return &v
		}
	}
	return nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" || s == "-" || s == "--" {
			return 0, false
		}
		raw = s
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
