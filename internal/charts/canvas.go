package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	titleFontSize = 14
	labelFontSize = 9
	titleBand     = 40
)

// area is a pixel rectangle
type area struct {
	left, top, right, bottom int
}

func (a area) width() int  { return a.right - a.left }
func (a area) height() int { return a.bottom - a.top }

// canvas wraps a go-chart SVG renderer for charts go-chart has no type for
type canvas struct {
	r      chart.Renderer
	width  int
	height int
}

func newCanvas(width, height int, title string) (*canvas, error) {
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	c := &canvas{r: r, width: width, height: height}
	c.fillRect(area{0, 0, width, height}, colorBackground, colorBackground)
	c.centeredText(title, width/2, 26, titleFontSize, colorText)
	return c, nil
}

func (c *canvas) save(w io.Writer) error {
	return c.r.Save(w)
}

func (c *canvas) fillRect(a area, fill, stroke drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(1)
	c.r.MoveTo(a.left, a.top)
	c.r.LineTo(a.right, a.top)
	c.r.LineTo(a.right, a.bottom)
	c.r.LineTo(a.left, a.bottom)
	c.r.LineTo(a.left, a.top)
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, color drawing.Color, width float64) {
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

func (c *canvas) dot(x, y int, radius float64, color drawing.Color) {
	c.r.SetFillColor(color)
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(1)
	c.r.Circle(radius, x, y)
	c.r.FillStroke()
}

func (c *canvas) textWidth(s string, size float64) int {
	c.r.SetFontSize(size)
	return c.r.MeasureText(s).Width()
}

func (c *canvas) text(s string, x, y int, size float64, color drawing.Color) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	c.r.Text(s, x, y)
}

func (c *canvas) centeredText(s string, x, y int, size float64, color drawing.Color) {
	c.text(s, x-c.textWidth(s, size)/2, y, size, color)
}

// maxAxisTicks bounds the grid lines drawn by valueAxis
const maxAxisTicks = 50

// valueAxis draws a vertical axis from lo to hi with horizontal grid lines
// and returns the value-to-pixel mapping. Halved operands keep the
// arithmetic finite across the whole float64 range.
func (c *canvas) valueAxis(plot area, lo, hi, step float64) func(float64) int {
	half := hi/2 - lo/2
	scale := func(v float64) int {
		if !(half > 0) {
			return plot.bottom
		}
		return plot.bottom - int(math.Round((v/2-lo/2)/half*float64(plot.height())))
	}

	n := 0
	if half > 0 && step > 0 && !math.IsInf(step, 0) {
		n = int(math.Min(math.Round(half/(step/2)), maxAxisTicks+1))
		if n > maxAxisTicks {
			n = maxAxisTicks
			step = half / float64(n) * 2
		}
	}
	for i := 0; i <= n; i++ {
		v := math.Min(lo+float64(i)*step, hi)
		y := scale(v)
		c.line(plot.left, y, plot.right, y, colorGrid, 1)
		tick := formatTick(v)
		c.text(tick, plot.left-6-c.textWidth(tick, labelFontSize), y+3, labelFontSize, colorMuted)
	}
	c.line(plot.left, plot.top, plot.left, plot.bottom, colorAxis, 1)
	c.line(plot.left, plot.bottom, plot.right, plot.bottom, colorAxis, 1)
	return scale
}

// legendItem is one swatch in a legend column
type legendItem struct {
	name  string
	color drawing.Color
}

// legend draws a swatch column starting at x, y
func (c *canvas) legend(items []legendItem, x, y, maxWidth int) {
	const rowHeight = 14
	for i, item := range items {
		top := y + i*rowHeight
		if top+rowHeight > c.height-4 {
			c.text(fmt.Sprintf("+%d more", len(items)-i), x, top+9, labelFontSize, colorMuted)
			return
		}
		c.fillRect(area{x, top, x + 10, top + 10}, item.color, item.color)
		c.text(truncate(item.name, maxWidth), x+14, top+9, labelFontSize, colorText)
	}
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1e9 {
		return fmt.Sprintf("%.4g", v)
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
