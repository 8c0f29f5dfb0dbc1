package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"hospitalpulse/pkg/contracts/domain"
)

const maxTimeTicks = 6

func (r *Renderer) renderLine(w io.Writer, s domain.Summary) error {
	xs := make([]time.Time, len(s.Dates))
	ys := make([]float64, len(s.Dates))
	max := 0.0
	for i, d := range s.Dates {
		xs[i], ys[i] = d.Date, float64(d.Count)
		if ys[i] > max {
			max = ys[i]
		}
	}

	first, last := xs[0], xs[len(xs)-1]
	if !last.After(first) {
		// go-chart rejects a zero-width x range
		first, last = first.Add(-12*time.Hour), last.Add(12*time.Hour)
	}

	bound, _ := niceCeil(max, 5)
	graph := chart.Chart{
		Title:  s.Title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: titleBand + 10, Left: 10, Right: 30, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(first), Max: chart.TimeToFloat64(last)},
			Ticks: timeTicks(xs),
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: bound},
			ValueFormatter: tickFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    s.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: paletteColor(0),
					StrokeWidth: 2,
					DotColor:    paletteColor(0),
					DotWidth:    2.5,
				},
			},
		},
	}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	return nil
}

// timeTicks picks up to maxTimeTicks evenly spaced dates for labels
func timeTicks(xs []time.Time) []chart.Tick {
	layout := "Jan 2"
	if xs[len(xs)-1].Year() != xs[0].Year() {
		layout = "Jan 2 2006"
	}

	step := 1
	if len(xs) > maxTimeTicks {
		step = (len(xs) + maxTimeTicks - 1) / maxTimeTicks
	}

	ticks := make([]chart.Tick, 0, maxTimeTicks+1)
	for i := 0; i < len(xs); i += step {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(xs[i]), Label: xs[i].Format(layout)})
	}
	return ticks
}
