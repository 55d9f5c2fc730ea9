package scoring

import (
	"math"

	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
)

// ScoreMetric scores one metric value against its industry benchmark.
// In range the score falls linearly with the distance from the ideal point,
// reaching 0 at half the range width; outside the range it is the ratio to the
// violated bound.
// ⭐ SSOT: 개별 지표 점수 계산은 여기서만
func ScoreMetric(m contracts.Metric, value *float64, b benchmark.Benchmark) contracts.MetricScore {
	ms := contracts.MetricScore{
		Metric:        m,
		Name:          m.DisplayName(),
		Weight:        b.Weight,
		IndustryRange: b.Range(),
		IndustryIdeal: b.Ideal,
	}

	if value == nil {
		ms.Rating = contracts.RatingNoData
		ms.RatingLabel = ms.Rating.Label()
		return ms
	}

	score := contracts.Round2(rawScore(*value, b))

	ms.Value = contracts.Float(contracts.Round2(*value))
	ms.Score = score
	ms.WeightedScore = contracts.Round2(score * b.Weight)
	ms.Rating = contracts.RatingFromScore(score)
	ms.RatingLabel = ms.Rating.Label()
	return ms
}

func rawScore(v float64, b benchmark.Benchmark) float64 {
	switch {
	case v < b.Min:
		if b.Min == 0 {
			return 0
		}
		return math.Max(0, 100*v/b.Min)

	case v > b.Max:
		if v == 0 {
			return 0
		}
		return math.Max(0, 100*b.Max/v)
	}

	width := b.Max - b.Min
	if width == 0 {
		if v == b.Ideal {
			return 100
		}
		return 50
	}

	deviation := math.Abs(v - b.Ideal)
	return math.Max(0, 100*(1-deviation/(width/2)))
}

// DirectionalRating grades a raw value by the benchmark direction rather than by
// distance from ideal. Used for narrative text, never for the numeric score.
//
// Higher is better (ideal > min): ≥ideal excellent, ≥(ideal+min)/2 good, ≥min neutral,
// ≥0.7·min concern. Lower is better: the same steps mirrored towards max and 1.2·max.
func DirectionalRating(v float64, b benchmark.Benchmark) contracts.Rating {
	if b.HigherIsBetter() {
		switch {
		case v >= b.Ideal:
			return contracts.RatingExcellent
		case v >= (b.Ideal+b.Min)/2:
			return contracts.RatingGood
		case v >= b.Min:
			return contracts.RatingNeutral
		case v >= b.Min*0.7:
			return contracts.RatingConcern
		default:
			return contracts.RatingCritical
		}
	}

	switch {
	case v <= b.Ideal:
		return contracts.RatingExcellent
	case v <= (b.Ideal+b.Max)/2:
		return contracts.RatingGood
	case v <= b.Max:
		return contracts.RatingNeutral
	case v <= b.Max*1.2:
		return contracts.RatingConcern
	default:
		return contracts.RatingCritical
	}
}
