package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	t.Run("equal width bins cover the range", func(t *testing.T) {
		values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		bins := Histogram(values, 5)
		require.Len(t, bins, 5)

		assert.Equal(t, 0.0, bins[0].Lo)
		assert.Equal(t, 10.0, bins[4].Hi)
		assert.Equal(t, 2, bins[0].Count)
		// the last bin is closed and holds the maximum
		assert.Equal(t, 3, bins[4].Count)

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, len(values), total)
	})

	t.Run("identical values share one bin", func(t *testing.T) {
		bins := Histogram([]float64{7, 7, 7}, 20)
		require.Len(t, bins, 1)
		assert.Equal(t, Bin{Lo: 7, Hi: 7, Count: 3}, bins[0])
	})

	t.Run("no values", func(t *testing.T) {
		assert.Nil(t, Histogram(nil, 20))
		assert.Nil(t, Histogram([]float64{1}, 0))
		assert.Nil(t, Histogram([]float64{math.NaN(), math.Inf(1)}, 20))
	})
}

func TestHistogram_Extremes(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"opposite float limits", []float64{-1e308, 1e308}},
		{"max float span", []float64{-math.MaxFloat64, 0, math.MaxFloat64}},
		{"near float precision", []float64{1e16, 1e16 + 2, 1e16 + 4}},
		{"tiny span", []float64{1, math.Nextafter(1, 2)}},
		{"non finite values skipped", []float64{math.Inf(-1), 3, math.NaN(), 5, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins := Histogram(tt.values, 20)
			require.NotEmpty(t, bins)

			total := 0
			for _, b := range bins {
				assert.False(t, math.IsInf(b.Lo, 0) || math.IsNaN(b.Lo), "bin edge %v", b.Lo)
				assert.False(t, math.IsInf(b.Hi, 0) || math.IsNaN(b.Hi), "bin edge %v", b.Hi)
				assert.LessOrEqual(t, b.Lo, b.Hi)
				total += b.Count
			}
			assert.Equal(t, len(finite(tt.values)), total)
		})
	}

	bins := Histogram([]float64{-1e308, 1e308}, 20)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[19].Count)
	assert.Equal(t, -1e308, bins[0].Lo)
	assert.Equal(t, 1e308, bins[19].Hi)
}

func TestBox(t *testing.T) {
	tests := []struct {
		name           string
		values         []float64
		q1, median, q3 string
		lower, upper   string
		outliers       int
	}{
		{
			name:     "odd count",
			values:   []float64{9, 1, 8, 2, 7, 3, 6, 4, 5},
			q1:       "3",
			median:   "5",
			q3:       "7",
			lower:    "1",
			upper:    "9",
			outliers: 0,
		},
		{
			name:     "interpolated quartiles with an outlier",
			values:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100},
			q1:       "3.25",
			median:   "5.5",
			q3:       "7.75",
			lower:    "1",
			upper:    "9",
			outliers: 1,
		},
		{
			name:     "single value",
			values:   []float64{42.5},
			q1:       "42.5",
			median:   "42.5",
			q3:       "42.5",
			lower:    "42.5",
			upper:    "42.5",
			outliers: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, ok := Box(tt.values)
			require.True(t, ok)
			assert.Equal(t, tt.q1, stats.Q1.String())
			assert.Equal(t, tt.median, stats.Median.String())
			assert.Equal(t, tt.q3, stats.Q3.String())
			assert.Equal(t, tt.lower, stats.LowerWhisker.String())
			assert.Equal(t, tt.upper, stats.UpperWhisker.String())
			assert.Len(t, stats.Outliers, tt.outliers)
			assert.Equal(t, len(tt.values), stats.N)
		})
	}

	_, ok := Box(nil)
	assert.False(t, ok)

	_, ok = Box([]float64{math.Inf(1), math.NaN()})
	assert.False(t, ok)
}

func TestBox_Extremes(t *testing.T) {
	stats, ok := Box([]float64{math.Inf(1), -1e308, 1e308, math.NaN()})
	require.True(t, ok)
	assert.Equal(t, 2, stats.N)
	assert.Equal(t, -1e308, stats.Min.InexactFloat64())
	assert.Equal(t, 1e308, stats.Max.InexactFloat64())
	assert.Equal(t, 0.0, stats.Median.InexactFloat64())

	stats, ok = Box([]float64{1e16, 1e16 + 2, 1e16 + 4})
	require.True(t, ok)
	assert.Equal(t, "10000000000000002", stats.Median.String())
}

func TestBoxAxis(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"ordinary", 10, 250},
		{"single value", 42, 42},
		{"zero", 0, 0},
		{"near float precision", 1e16, 1e16 + 4},
		{"opposite float limits", -1e308, 1e308},
		{"max float span", -math.MaxFloat64, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axisLo, axisHi, step := boxAxis(tt.lo, tt.hi)
			assert.False(t, math.IsInf(axisLo, 0) || math.IsNaN(axisLo))
			assert.False(t, math.IsInf(axisHi, 0) || math.IsNaN(axisHi))
			assert.LessOrEqual(t, axisLo, tt.lo)
			assert.GreaterOrEqual(t, axisHi, tt.hi)
			assert.Greater(t, step, 0.0)
			assert.NotEqual(t, tt.lo, tt.lo+step, "step must be visible at the data magnitude")
		})
	}
}

func TestNiceCeil(t *testing.T) {
	tests := []struct {
		max         float64
		bound, step float64
	}{
		{max: 0, bound: 1, step: 1},
		{max: 1, bound: 1, step: 1},
		{max: 3, bound: 3, step: 1},
		{max: 47, bound: 50, step: 10},
		{max: 120, bound: 150, step: 50},
		{max: 1000, bound: 1000, step: 200},
	}
	for _, tt := range tests {
		bound, step := niceCeil(tt.max, 5)
		assert.Equal(t, tt.bound, bound, "bound for %v", tt.max)
		assert.Equal(t, tt.step, step, "step for %v", tt.max)
	}
}
