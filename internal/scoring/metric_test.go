package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wonny/caiwu/internal/benchmark"
	"github.com/wonny/caiwu/internal/contracts"
)

var roeBenchmark = benchmark.Benchmark{Min: 12, Max: 35, Ideal: 22, Weight: 0.30}

func score(v float64, b benchmark.Benchmark) float64 {
	return ScoreMetric(contracts.MetricROE, &v, b).Score
}

func TestScoreMetric_Absent(t *testing.T) {
	ms := ScoreMetric(contracts.MetricROE, nil, roeBenchmark)

	assert.Nil(t, ms.Value)
	assert.Zero(t, ms.Score)
	assert.Zero(t, ms.WeightedScore)
	assert.Equal(t, contracts.RatingNoData, ms.Rating)
	assert.Equal(t, "无数据", ms.RatingLabel)
	assert.Equal(t, "12-35", ms.IndustryRange)
	assert.Equal(t, 22.0, ms.IndustryIdeal)
}

func TestScoreMetric_IdealIsFullScore(t *testing.T) {
	for _, ind := range benchmark.Default().Industries {
		for _, mb := range ind.Metrics {
			if mb.Max == mb.Min {
				continue
			}
			assert.Equal(t, 100.0, score(mb.Ideal, mb.Benchmark), "%s.%s", ind.ID, mb.Metric)
		}
	}
}

func TestScoreMetric_Boundaries(t *testing.T) {
	b := benchmark.Benchmark{Min: 10, Max: 30, Ideal: 20, Weight: 1}

	assert.Equal(t, 0.0, score(10, b))
	assert.Equal(t, 0.0, score(30, b))

	// 이상점이 중앙이 아니면 가까운 경계만 0 초과
	assert.Equal(t, 13.04, score(12, roeBenchmark))
	assert.Equal(t, 0.0, score(35, roeBenchmark))
}

func TestScoreMetric_Symmetry(t *testing.T) {
	for _, d := range []float64{0.5, 1, 2.5, 7, 9.99} {
		assert.Equal(t, score(22+d, roeBenchmark), score(22-d, roeBenchmark), "d=%v", d)
	}
}

func TestScoreMetric_Monotonic(t *testing.T) {
	prev := score(22, roeBenchmark)
	for d := 1.0; d <= 10; d++ {
		cur := score(22+d, roeBenchmark)
		assert.Less(t, cur, prev, "d=%v", d)
		prev = cur
	}
}

func TestScoreMetric_OutOfRange(t *testing.T) {
	b := benchmark.Benchmark{Min: 10, Max: 30, Ideal: 25, Weight: 0.5}

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"below min ratio", 5, 50},
		{"just below min", 9.5, 95},
		{"negative clamps to zero", -3, 0},
		{"above max ratio", 60, 50},
		{"far above max", 300, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, score(tt.value, b))
		})
	}
}

func TestScoreMetric_OutOfRangeDecreasesWithDistance(t *testing.T) {
	b := benchmark.Benchmark{Min: 10, Max: 30, Ideal: 20, Weight: 1}

	assert.Greater(t, score(9, b), score(8, b))
	assert.Greater(t, score(8, b), score(2, b))
	assert.Greater(t, score(31, b), score(45, b))
	assert.Greater(t, score(45, b), score(90, b))
}

func TestScoreMetric_ZeroMin(t *testing.T) {
	b := benchmark.Benchmark{Min: 0, Max: 10, Ideal: 5, Weight: 1}
	assert.Equal(t, 0.0, score(-1, b))
}

func TestScoreMetric_ZeroWidth(t *testing.T) {
	b := benchmark.Benchmark{Min: 5, Max: 5, Ideal: 5, Weight: 0.2}
	assert.Equal(t, 100.0, score(5, b))

	b.Ideal = 4
	assert.Equal(t, 50.0, score(5, b))
}

func TestScoreMetric_WeightedAndRounding(t *testing.T) {
	for _, v := range []float64{13.37, 18.1, 22.5, 27.777, 34.2, 40.01, 3.3} {
		val := v
		ms := ScoreMetric(contracts.MetricROE, &val, roeBenchmark)

		assert.Equal(t, contracts.Round2(ms.Score*roeBenchmark.Weight), ms.WeightedScore)
		assert.Equal(t, contracts.Round2(ms.Score), ms.Score)
		assert.Equal(t, contracts.RatingFromScore(ms.Score), ms.Rating)
		assert.Equal(t, contracts.Round2(v), *ms.Value)
	}
}

func TestScoreMetric_Fields(t *testing.T) {
	v := 22.5
	ms := ScoreMetric(contracts.MetricROE, &v, roeBenchmark)

	assert.Equal(t, contracts.MetricROE, ms.Metric)
	assert.Equal(t, "净资产收益率(ROE)", ms.Name)
	assert.Equal(t, 95.65, ms.Score)
	assert.Equal(t, contracts.RatingExcellent, ms.Rating)
	assert.Equal(t, "优秀", ms.RatingLabel)
	assert.Equal(t, 0.30, ms.Weight)
}

func TestDirectionalRating(t *testing.T) {
	higher := benchmark.Benchmark{Min: 10, Max: 30, Ideal: 20}
	lower := benchmark.Benchmark{Min: 25, Max: 45, Ideal: 25}

	tests := []struct {
		name string
		b    benchmark.Benchmark
		v    float64
		want contracts.Rating
	}{
		{"higher: above ideal", higher, 40, contracts.RatingExcellent},
		{"higher: at ideal", higher, 20, contracts.RatingExcellent},
		{"higher: midpoint", higher, 15, contracts.RatingGood},
		{"higher: at min", higher, 10, contracts.RatingNeutral},
		{"higher: above 70% of min", higher, 7.5, contracts.RatingConcern},
		{"higher: far below", higher, 2, contracts.RatingCritical},
		{"lower: below ideal", lower, 10, contracts.RatingExcellent},
		{"lower: midpoint", lower, 35, contracts.RatingGood},
		{"lower: at max", lower, 45, contracts.RatingNeutral},
		{"lower: within 120% of max", lower, 50, contracts.RatingConcern},
		{"lower: far above", lower, 80, contracts.RatingCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DirectionalRating(tt.v, tt.b))
		})
	}
}
