package benchmark

import (
	"fmt"
	"strconv"

	"github.com/wonny/caiwu/internal/contracts"
	"gopkg.in/yaml.v3"
)

// Table is the read-only industry benchmark table
// ⭐ SSOT: 업종 벤치마크는 industries.yaml 에서만 정의
type Table struct {
	DefaultIndustry string            `yaml:"default_industry" json:"default_industry"`
	Industries      []Industry        `yaml:"industries" json:"industries"` // 선언 순서 = 동점 처리 순서
	SectorMap       map[string]string `yaml:"sector_map" json:"sector_map"` // 申万一级 → industry id
}

// Industry is one of the fixed industry categories
type Industry struct {
	ID           string           `yaml:"id" json:"id"`
	Name         string           `yaml:"name" json:"name"`
	NameEN       string           `yaml:"name_en" json:"name_en"`
	Description  string           `yaml:"description" json:"description"`
	Keywords     []string         `yaml:"keywords" json:"keywords"`
	CodePatterns []string         `yaml:"code_patterns" json:"code_patterns"`
	CodeExamples []string         `yaml:"code_examples" json:"code_examples"`
	Metrics      MetricBenchmarks `yaml:"metrics" json:"metrics"`
	SpecialRules SpecialRules     `yaml:"special_rules" json:"special_rules"`
}

// Benchmark is the acceptable range, ideal point and weight of one metric
type Benchmark struct {
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Ideal  float64 `yaml:"ideal" json:"ideal"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Range formats the benchmark range as "min-max"
func (b Benchmark) Range() string {
	return formatNumber(b.Min) + "-" + formatNumber(b.Max)
}

// HigherIsBetter reports the benchmark direction: ideal above min means larger values are better
func (b Benchmark) HigherIsBetter() bool {
	return b.Ideal > b.Min
}

// MetricBenchmark binds a benchmark to its metric
type MetricBenchmark struct {
	Metric contracts.Metric `json:"metric"`
	Benchmark
}

// MetricBenchmarks keeps the document order of the metrics mapping
type MetricBenchmarks []MetricBenchmark

var benchmarkFields = map[string]bool{"min": true, "max": true, "ideal": true, "weight": true}

// UnmarshalYAML decodes a mapping of metric → benchmark preserving key order
func (m *MetricBenchmarks) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: metrics must be a mapping", node.Line)
	}

	out := make(MetricBenchmarks, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		// KnownFields 는 커스텀 디코더에 전파되지 않으므로 직접 검사
		if value.Kind == yaml.MappingNode {
			for j := 0; j < len(value.Content); j += 2 {
				if f := value.Content[j].Value; !benchmarkFields[f] {
					return fmt.Errorf("line %d: field %s not found in benchmark", value.Content[j].Line, f)
				}
			}
		}

		var b Benchmark
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("metric %s: %w", key.Value, err)
		}
		out = append(out, MetricBenchmark{Metric: contracts.Metric(key.Value), Benchmark: b})
	}

	*m = out
	return nil
}

// RuleName identifies a special scoring rule of an industry
type RuleName string

const (
	RuleDebtTolerance    RuleName = "debt_tolerance"
	RuleCashflowCritical RuleName = "cashflow_critical"
	RuleHighRDBonus      RuleName = "high_rd_bonus"
)

// 점수에 영향 없는 서술용 플래그 (보고서 표시용)
var descriptiveRules = map[RuleName]string{
	"growth_critical":      "成长性关键",
	"capacity_utilization": "产能利用率",
	"inventory_critical":   "库存周转关键",
	"order_book_important": "订单储备重要",
	"high_turnover":        "高周转",
	"same_store_growth":    "同店增长",
	"use_custom_metrics":   "采用专用指标",
	"capital_adequacy":     "资本充足率",
	"npl_ratio":            "不良贷款率",
	"land_reserve":         "土地储备",
	"brand_value":          "品牌价值",
	"channel_coverage":     "渠道覆盖",
	"repetition_rate":      "复购率",
	"price_sensitive":      "价格敏感",
	"resource_reserves":    "资源储量",
	"policy_impact":        "政策影响",
	"stable_cashflow":      "现金流稳定",
	"franchise_important":  "特许经营权",
	"regulated":            "受监管定价",
	"high_capex":           "高资本开支",
	"subscriber_base":      "用户规模",
	"arpu_important":       "ARPU关键",
	"heavy_assets":         "重资产",
	"fuel_cost_sensitive":  "燃油成本敏感",
	"cyclical":             "强周期",
	"price_volatility":     "价格波动",
	"inventory_important":  "库存重要",
}

// Known reports whether the rule name is recognised
func (r RuleName) Known() bool {
	switch r {
	case RuleDebtTolerance, RuleCashflowCritical, RuleHighRDBonus:
		return true
	}
	_, ok := descriptiveRules[r]
	return ok
}

// Label returns a short Chinese description of a descriptive rule
func (r RuleName) Label() string {
	if label, ok := descriptiveRules[r]; ok {
		return label
	}
	return string(r)
}

// SpecialRule is one flag (bool) or level (text) of an industry
type SpecialRule struct {
	Name RuleName `json:"name"`
	Flag bool     `json:"flag,omitempty"`
	Text string   `json:"text,omitempty"`
}

// Enabled reports whether the rule is switched on
func (r SpecialRule) Enabled() bool {
	return r.Flag || r.Text != ""
}

// SpecialRules keeps the document order of the special_rules mapping
type SpecialRules []SpecialRule

// UnmarshalYAML decodes a mapping of rule → bool|string preserving key order
func (s *SpecialRules) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: special_rules must be a mapping", node.Line)
	}

	out := make(SpecialRules, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		rule := SpecialRule{Name: RuleName(key.Value)}

		switch value.ShortTag() {
		case "!!bool":
			if err := value.Decode(&rule.Flag); err != nil {
				return fmt.Errorf("rule %s: %w", key.Value, err)
			}
		case "!!str":
			rule.Text = value.Value
		default:
			return fmt.Errorf("line %d: rule %s must be a bool or string", value.Line, key.Value)
		}
		out = append(out, rule)
	}

	*s = out
	return nil
}

// Ref returns the identifying part of the industry
func (ind *Industry) Ref() contracts.IndustryRef {
	return contracts.IndustryRef{
		ID:          ind.ID,
		Name:        ind.Name,
		NameEN:      ind.NameEN,
		Description: ind.Description,
	}
}

// Benchmark returns the benchmark of a metric, if the industry scores it
func (ind *Industry) Benchmark(m contracts.Metric) (Benchmark, bool) {
	for _, mb := range ind.Metrics {
		if mb.Metric == m {
			return mb.Benchmark, true
		}
	}
	return Benchmark{}, false
}

// Rule returns a special rule by name
func (ind *Industry) Rule(name RuleName) (SpecialRule, bool) {
	for _, r := range ind.SpecialRules {
		if r.Name == name {
			return r, true
		}
	}
	return SpecialRule{}, false
}

// HasRule reports whether a rule is present and enabled
func (ind *Industry) HasRule(name RuleName) bool {
	r, ok := ind.Rule(name)
	return ok && r.Enabled()
}

// HighDebtTolerance reports debt_tolerance == "high"
func (ind *Industry) HighDebtTolerance() bool {
	r, ok := ind.Rule(RuleDebtTolerance)
	return ok && r.Text == "high"
}

// Industry returns an industry by id
func (t *Table) Industry(id string) (*Industry, bool) {
	for i := range t.Industries {
		if t.Industries[i].ID == id {
			return &t.Industries[i], true
		}
	}
	return nil, false
}

// IndustryOrDefault returns the industry by id, falling back to the default industry
func (t *Table) IndustryOrDefault(id string) *Industry {
	if ind, ok := t.Industry(id); ok {
		return ind
	}
	ind, _ := t.Industry(t.DefaultIndustry)
	return ind
}

// SectorIndustry maps a 申万一级 sector tag to an industry id
func (t *Table) SectorIndustry(tag string) (string, bool) {
	id, ok := t.SectorMap[tag]
	return id, ok
}

// IDs returns the industry ids in declaration order
func (t *Table) IDs() []string {
	ids := make([]string, len(t.Industries))
	for i, ind := range t.Industries {
		ids[i] = ind.ID
	}
	return ids
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
