package charts

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Bin is one equal-width histogram interval. Every bin is [Lo, Hi) except
// the last, which also holds Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram splits values into n equal-width bins spanning their range.
// When every value is equal a single bin holds them all. NaN and infinite
// values are not counted.
func Histogram(values []float64, n int) []Bin {
	values = finite(values)
	if len(values) == 0 || n <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}

	// hi-lo may overflow; half of it never does
	half := hi/2 - lo/2
	bins := make([]Bin, n)
	for i := range bins {
		step := float64(i) / float64(n) * half
		bins[i].Lo = math.Min(lo+step+step, hi)
	}
	for i := 0; i < n-1; i++ {
		bins[i].Hi = bins[i+1].Lo
	}
	bins[n-1].Hi = hi

	for _, v := range values {
		pos := (v/2 - lo/2) / half * float64(n)
		i := n - 1
		if pos < float64(n) {
			i = int(math.Max(pos, 0))
		}
		bins[i].Count++
	}
	return bins
}

// finite returns values without NaN and infinities, reusing the slice when
// every value is finite.
func finite(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out := append([]float64(nil), values[:i]...)
			for _, v := range values[i+1:] {
				if !math.IsNaN(v) && !math.IsInf(v, 0) {
					out = append(out, v)
				}
			}
			return out
		}
	}
	return values
}

// BoxStats are the five-number summary behind a box plot. Whiskers reach
// the furthest values within 1.5×IQR of the quartiles; anything beyond is
// an outlier.
type BoxStats struct {
	Min, Q1, Median, Q3, Max   decimal.Decimal
	LowerWhisker, UpperWhisker decimal.Decimal
	Outliers                   []decimal.Decimal
	N                          int
}

// Box computes BoxStats using linear interpolation between order
// statistics. NaN and infinite values are ignored; ok is false when none
// remain.
func Box(values []float64) (BoxStats, bool) {
	values = finite(values)
	if len(values) == 0 {
		return BoxStats{}, false
	}

	sorted := make([]decimal.Decimal, len(values))
	for i, v := range values {
		sorted[i] = decimal.NewFromFloat(v)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	stats := BoxStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, decimal.NewFromFloat(0.25)),
		Median: quantile(sorted, decimal.NewFromFloat(0.5)),
		Q3:     quantile(sorted, decimal.NewFromFloat(0.75)),
		N:      len(sorted),
	}

	fence := stats.Q3.Sub(stats.Q1).Mul(decimal.NewFromFloat(1.5))
	lowFence, highFence := stats.Q1.Sub(fence), stats.Q3.Add(fence)

	stats.LowerWhisker, stats.UpperWhisker = stats.Max, stats.Min
	for _, v := range sorted {
		if v.LessThan(lowFence) || v.GreaterThan(highFence) {
			stats.Outliers = append(stats.Outliers, v)
			continue
		}
		if v.LessThan(stats.LowerWhisker) {
			stats.LowerWhisker = v
		}
		if v.GreaterThan(stats.UpperWhisker) {
			stats.UpperWhisker = v
		}
	}
	return stats, true
}

func quantile(sorted []decimal.Decimal, q decimal.Decimal) decimal.Decimal {
	pos := q.Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := pos.Floor()
	frac := pos.Sub(lo)
	i := int(lo.IntPart())
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i].Add(sorted[i+1].Sub(sorted[i]).Mul(frac))
}

// niceCeil rounds max up to a readable axis bound and returns a tick step
func niceCeil(max float64, ticks int) (bound, step float64) {
	if max <= 0 {
		return 1, 1
	}
	raw := max / float64(ticks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	if step < 1 {
		step = 1
	}
	return math.Ceil(max/step) * step, step
}
