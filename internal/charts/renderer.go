package charts

import (
	"fmt"
	"io"

	"hospitalpulse/pkg/contracts/domain"
)

// Options size the rendered charts
type Options struct {
	Width         int
	Height        int
	HistogramBins int
}

// DefaultOptions matches the dashboard grid
func DefaultOptions() Options {
	return Options{Width: 640, Height: 400, HistogramBins: 20}
}

// Renderer draws summaries as SVG. It is stateless and safe for
// concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer, filling zero options with defaults
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = def.HistogramBins
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options
func (r *Renderer) Options() Options { return r.opts }

// Render writes one SVG document for s. An empty summary produces the
// empty-state chart rather than an error.
func (r *Renderer) Render(w io.Writer, s domain.Summary) error {
	if s.Empty() {
		return r.renderEmpty(w, s.Title)
	}

	var err error
	switch s.Kind {
	case domain.ChartHistogram:
		err = r.renderHistogram(w, s)
	case domain.ChartBar:
		err = r.renderBar(w, s)
	case domain.ChartStackedBar:
		err = r.renderStackedBar(w, s)
	case domain.ChartLine:
		err = r.renderLine(w, s)
	case domain.ChartPie, domain.ChartDonut:
		err = r.renderPie(w, s)
	case domain.ChartBox:
		err = r.renderBox(w, s)
	case domain.ChartTreemap:
		err = r.renderTreemap(w, s)
	default:
		return fmt.Errorf("unsupported chart kind %q", s.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", s.ID, err)
	}
	return nil
}

func (r *Renderer) renderEmpty(w io.Writer, title string) error {
	c, err := newCanvas(r.opts.Width, r.opts.Height, title)
	if err != nil {
		return err
	}
	c.fillRect(area{20, titleBand, r.opts.Width - 20, r.opts.Height - 20}, colorBackground, colorGrid)
	c.centeredText("No data", r.opts.Width/2, r.opts.Height/2, 16, colorMuted)
	c.centeredText("No rows match the current selection", r.opts.Width/2, r.opts.Height/2+20, labelFontSize+1, colorMuted)
	return c.save(w)
}
