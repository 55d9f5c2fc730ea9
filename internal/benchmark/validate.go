package benchmark

import (
	"fmt"
	"math"
)

// ValidationError 검증 실패 (로딩 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints of a benchmark table
func Validate(t *Table) error {
	if len(t.Industries) == 0 {
		return ValidationError{"industries", "required"}
	}

	seen := make(map[string]bool, len(t.Industries))
	for i, ind := range t.Industries {
		field := fmt.Sprintf("industries[%d]", i)

		if ind.ID == "" {
			return ValidationError{field + ".id", "required"}
		}
		if seen[ind.ID] {
			return ValidationError{field + ".id", fmt.Sprintf("duplicate industry %q", ind.ID)}
		}
		seen[ind.ID] = true

		if ind.Name == "" {
			return ValidationError{field + ".name", "required"}
		}

		if err := validateMetrics(field, ind.Metrics); err != nil {
			return err
		}

		for _, r := range ind.SpecialRules {
			if !r.Name.Known() {
				return ValidationError{field + ".special_rules", fmt.Sprintf("unknown rule %q", r.Name)}
			}
		}
	}

	if t.DefaultIndustry == "" {
		return ValidationError{"default_industry", "required"}
	}
	if !seen[t.DefaultIndustry] {
		return ValidationError{"default_industry", fmt.Sprintf("unknown industry %q", t.DefaultIndustry)}
	}

	for tag, id := range t.SectorMap {
		if !seen[id] {
			return ValidationError{"sector_map." + tag, fmt.Sprintf("unknown industry %q", id)}
		}
	}

	return nil
}

func validateMetrics(field string, metrics MetricBenchmarks) error {
	if len(metrics) == 0 {
		return ValidationError{field + ".metrics", "at least one metric required"}
	}

	seen := make(map[string]bool, len(metrics))
	for _, mb := range metrics {
		f := field + ".metrics." + string(mb.Metric)

		if !mb.Metric.Known() {
			return ValidationError{f, "unknown metric"}
		}
		if seen[string(mb.Metric)] {
			return ValidationError{f, "duplicate metric"}
		}
		seen[string(mb.Metric)] = true

		if mb.Weight < 0 || mb.Weight > 1 {
			return ValidationError{f + ".weight", "must be in [0, 1]"}
		}
		if mb.Min > mb.Max {
			return ValidationError{f, "min must be <= max"}
		}
	}
	return nil
}

// Warn returns recommended-practice violations that do not block loading
func Warn(t *Table) []Warning {
	var warnings []Warning

	for _, ind := range t.Industries {
		sum := 0.0
		for _, mb := range ind.Metrics {
			sum += mb.Weight
		}
		// 정규화 점수는 가중치 합과 무관하지만 원점수 해석이 어려워짐
		if err := validateWeightsSum(sum, 1.0, 1e-6); err != nil {
			warnings = append(warnings, Warning{
				Code:    "WEIGHTS_SUM",
				Message: fmt.Sprintf("%s: %v", ind.ID, err),
			})
		}

		if len(ind.Keywords) == 0 {
			warnings = append(warnings, Warning{
				Code:    "NO_KEYWORDS",
				Message: fmt.Sprintf("%s: name classification can never select this industry", ind.ID),
			})
		}

		for _, mb := range ind.Metrics {
			if mb.Ideal < mb.Min || mb.Ideal > mb.Max {
				warnings = append(warnings, Warning{
					Code:    "IDEAL_OUT_OF_RANGE",
					Message: fmt.Sprintf("%s.%s: ideal %v outside [%v, %v]", ind.ID, mb.Metric, mb.Ideal, mb.Min, mb.Max),
				})
			}
		}
	}

	return warnings
}

func validateWeightsSum(sum, target, eps float64) error {
	if math.Abs(sum-target) > eps {
		return fmt.Errorf("weights sum to %.4f, want %.1f", sum, target)
	}
	return nil
}
