package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"hospitalpulse/pkg/contracts/domain"
)

// barLabelRunes bounds x-axis labels so neighbours do not collide
const barLabelRunes = 12

func (r *Renderer) renderBar(w io.Writer, s domain.Summary) error {
	bars := make([]chart.Value, len(s.Counts))
	max := 0
	for i, c := range s.Counts {
		bars[i] = chart.Value{
			Value: float64(c.Count),
			Label: truncate(label(c.Value), barLabelRunes),
			Style: chart.Style{FillColor: paletteColor(0), StrokeColor: paletteColor(0)},
		}
		if c.Count > max {
			max = c.Count
		}
	}
	return r.barChart(w, s.Title, bars, float64(max))
}

func (r *Renderer) renderHistogram(w io.Writer, s domain.Summary) error {
	bins := Histogram(s.Values, r.opts.HistogramBins)
	if len(bins) == 0 {
		return r.renderEmpty(w, s.Title)
	}

	bars := make([]chart.Value, len(bins))
	max := 0
	for i, b := range bins {
		bars[i] = chart.Value{
			Value: float64(b.Count),
			Label: formatTick(roundTo(b.Lo, 1)),
			Style: chart.Style{FillColor: paletteColor(0), StrokeColor: colorBackground},
		}
		if b.Count > max {
			max = b.Count
		}
	}
	return r.barChart(w, s.Title, bars, float64(max))
}

func (r *Renderer) barChart(w io.Writer, title string, bars []chart.Value, max float64) error {
	bound, _ := niceCeil(max, 5)
	barWidth, spacing := r.barGeometry(len(bars))

	bc := chart.BarChart{
		Title:  title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: titleBand + 10, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: bound},
			ValueFormatter: tickFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	return nil
}

// barGeometry fits n bars into the plot width
func (r *Renderer) barGeometry(n int) (width, spacing int) {
	usable := r.opts.Width - 100
	slot := usable / n
	if slot < 3 {
		slot = 3
	}
	spacing = slot / 5
	width = slot - spacing
	if width > 60 {
		width, spacing = 60, slot-60
	}
	return width, spacing
}

func roundTo(v float64, places int) float64 {
	// past 2^53 there are no fractional digits left to round
	if math.Abs(v) >= 1<<53 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func tickFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return formatTick(f)
	}
	return fmt.Sprint(v)
}
