package charts

import (
	"fmt"
	"io"
	"math"

	"hospitalpulse/pkg/contracts/domain"
)

// renderBox draws a single vertical box plot with whiskers and outliers
func (r *Renderer) renderBox(w io.Writer, s domain.Summary) error {
	stats, ok := Box(s.Values)
	if !ok {
		return r.renderEmpty(w, s.Title)
	}

	c, err := newCanvas(r.opts.Width, r.opts.Height, s.Title)
	if err != nil {
		return err
	}

	lo, hi := stats.Min.InexactFloat64(), stats.Max.InexactFloat64()
	axisLo, axisHi, step := boxAxis(lo, hi)

	plot := area{left: 70, top: titleBand + 10, right: r.opts.Width - 200, bottom: r.opts.Height - 30}
	scale := c.valueAxis(plot, axisLo, axisHi, step)

	center := (plot.left + plot.right) / 2
	half := plot.width() / 6
	color := paletteColor(0)

	q1, med, q3 := scale(stats.Q1.InexactFloat64()), scale(stats.Median.InexactFloat64()), scale(stats.Q3.InexactFloat64())
	lw, uw := scale(stats.LowerWhisker.InexactFloat64()), scale(stats.UpperWhisker.InexactFloat64())

	c.line(center, uw, center, q3, colorAxis, 1.5)
	c.line(center, q1, center, lw, colorAxis, 1.5)
	c.line(center-half/2, uw, center+half/2, uw, colorAxis, 1.5)
	c.line(center-half/2, lw, center+half/2, lw, colorAxis, 1.5)
	c.fillRect(area{center - half, q3, center + half, q1}, color.WithAlpha(120), color)
	c.line(center-half, med, center+half, med, colorText, 2.5)

	for _, o := range stats.Outliers {
		c.dot(center, scale(o.InexactFloat64()), 2.5, paletteColor(1))
	}

	notes := []string{
		fmt.Sprintf("n = %d", stats.N),
		"max " + stats.Max.StringFixed(2),
		"Q3 " + stats.Q3.StringFixed(2),
		"median " + stats.Median.StringFixed(2),
		"Q1 " + stats.Q1.StringFixed(2),
		"min " + stats.Min.StringFixed(2),
	}
	if len(stats.Outliers) > 0 {
		notes = append(notes, fmt.Sprintf("%d outliers", len(stats.Outliers)))
	}
	for i, n := range notes {
		c.text(n, plot.right+30, plot.top+14+i*16, labelFontSize+1, colorText)
	}

	return c.save(w)
}

// boxAxis pads [lo, hi] by 5% on each side and snaps it to a readable
// step that is still visible at the magnitude of the values.
func boxAxis(lo, hi float64) (axisLo, axisHi, step float64) {
	span := hi - lo
	if math.IsInf(span, 0) {
		span = math.MaxFloat64
	}
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	_, step = niceRange(span)
	for lo+step == lo || hi+step == hi {
		step *= 2
	}
	axisLo = math.Max(math.Floor((lo-span*0.05)/step)*step, -math.MaxFloat64)
	axisHi = math.Min(math.Ceil((hi+span*0.05)/step)*step, math.MaxFloat64)
	return axisLo, axisHi, step
}

// niceRange returns a readable bound and tick step for a value span
func niceRange(span float64) (bound, step float64) {
	raw := span / 5
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
	return math.Ceil(span/step) * step, step
}
