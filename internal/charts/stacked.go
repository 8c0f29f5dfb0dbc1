package charts

import (
	"io"
	"sort"

	"hospitalpulse/pkg/contracts/domain"
)

// renderStackedBar draws one bar per group with a segment per sub-value,
// stacked in absolute counts. A sub-value keeps one colour in every bar.
func (r *Renderer) renderStackedBar(w io.Writer, s domain.Summary) error {
	c, err := newCanvas(r.opts.Width, r.opts.Height, s.Title)
	if err != nil {
		return err
	}

	var groups []string
	totals := map[string]int{}
	subs := map[string]int{}
	for _, g := range s.Groups {
		if _, seen := totals[g.Group]; !seen {
			groups = append(groups, g.Group)
		}
		totals[g.Group] += g.Count
		subs[g.Sub] += 0
	}

	subNames := make([]string, 0, len(subs))
	for name := range subs {
		subNames = append(subNames, name)
	}
	sort.Strings(subNames)
	colors := make(map[string]int, len(subNames))
	legend := make([]legendItem, len(subNames))
	for i, name := range subNames {
		colors[name] = i
		legend[i] = legendItem{name: label(name), color: paletteColor(i)}
	}

	max := 0
	for _, t := range totals {
		if t > max {
			max = t
		}
	}

	const legendWidth = 120
	plot := area{left: 50, top: titleBand + 10, right: r.opts.Width - legendWidth - 10, bottom: r.opts.Height - 40}
	bound, step := niceCeil(float64(max), 5)
	scale := c.valueAxis(plot, 0, bound, step)

	slot := float64(plot.width()) / float64(len(groups))
	barWidth := int(slot * 0.8)
	if barWidth < 1 {
		barWidth = 1
	}

	// Show at most ~10 x labels however many groups there are.
	labelEvery := (len(groups) + 9) / 10

	offsets := map[string]int{}
	index := map[string]int{}
	for i, g := range groups {
		index[g] = i
	}
	for _, g := range s.Groups {
		i := index[g.Group]
		x := plot.left + int(slot*float64(i)+slot*0.1)
		base := offsets[g.Group]
		top := base + g.Count
		c.fillRect(area{x, scale(float64(top)), x + barWidth, scale(float64(base))}, paletteColor(colors[g.Sub]), colorBackground)
		offsets[g.Group] = top
	}

	for i, g := range groups {
		if i%labelEvery != 0 {
			continue
		}
		center := plot.left + int(slot*float64(i)+slot/2)
		c.centeredText(truncate(label(g), barLabelRunes), center, plot.bottom+14, labelFontSize, colorText)
	}

	c.legend(legend, plot.right+16, plot.top, 16)
	return c.save(w)
}
