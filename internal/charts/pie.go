package charts

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"hospitalpulse/pkg/contracts/domain"
)

// renderPie draws pie and donut charts; slice labels carry the share
func (r *Renderer) renderPie(w io.Writer, s domain.Summary) error {
	total := s.Total()
	values := make([]chart.Value, len(s.Counts))
	for i, c := range s.Counts {
		values[i] = chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s %.0f%%", truncate(label(c.Value), barLabelRunes), 100*float64(c.Count)/float64(total)),
			Style: chart.Style{FillColor: paletteColor(i), StrokeColor: colorBackground, StrokeWidth: 2},
		}
	}

	background := chart.Style{Padding: chart.Box{Top: titleBand + 10, Left: 10, Right: 10, Bottom: 10}}

	var err error
	if s.Kind == domain.ChartDonut {
		err = chart.DonutChart{
			Title:      s.Title,
			Width:      r.opts.Width,
			Height:     r.opts.Height,
			Background: background,
			Values:     values,
		}.Render(chart.SVG, w)
	} else {
		err = chart.PieChart{
			Title:      s.Title,
			Width:      r.opts.Width,
			Height:     r.opts.Height,
			Background: background,
			Values:     values,
		}.Render(chart.SVG, w)
	}
	if err != nil {
		return fmt.Errorf("%s chart: %w", s.Kind, err)
	}
	return nil
}
