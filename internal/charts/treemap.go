package charts

import (
	"fmt"
	"io"
	"math"
	"sort"

	"hospitalpulse/pkg/contracts/domain"
)

const headerBand = 16

// rect is a floating-point layout rectangle
type rect struct {
	x, y, w, h float64
}

func (r rect) area() area {
	return area{
		left:   int(math.Round(r.x)),
		top:    int(math.Round(r.y)),
		right:  int(math.Round(r.x + r.w)),
		bottom: int(math.Round(r.y + r.h)),
	}
}

func (r rect) inset(d float64) rect {
	if r.w <= 2*d || r.h <= 2*d {
		return r
	}
	return rect{r.x + d, r.y + d, r.w - 2*d, r.h - 2*d}
}

type treemapNode struct {
	name     string
	count    int
	children []treemapNode
}

// treemapNodes nests sub-values under their groups, largest first
func treemapNodes(groups []domain.GroupCountRow) []treemapNode {
	index := map[string]int{}
	var nodes []treemapNode
	for _, g := range groups {
		i, ok := index[g.Group]
		if !ok {
			i = len(nodes)
			index[g.Group] = i
			nodes = append(nodes, treemapNode{name: g.Group})
		}
		nodes[i].count += g.Count
		nodes[i].children = append(nodes[i].children, treemapNode{name: g.Sub, count: g.Count})
	}

	byCount := func(n []treemapNode) {
		sort.SliceStable(n, func(i, j int) bool {
			if n[i].count != n[j].count {
				return n[i].count > n[j].count
			}
			return n[i].name < n[j].name
		})
	}
	byCount(nodes)
	for i := range nodes {
		byCount(nodes[i].children)
	}
	return nodes
}

// renderTreemap draws groups as coloured tiles holding one tile per
// sub-value, sized by count.
func (r *Renderer) renderTreemap(w io.Writer, s domain.Summary) error {
	c, err := newCanvas(r.opts.Width, r.opts.Height, s.Title)
	if err != nil {
		return err
	}

	nodes := treemapNodes(s.Groups)
	weights := make([]float64, len(nodes))
	for i, n := range nodes {
		weights[i] = float64(n.count)
	}

	bounds := rect{x: 10, y: titleBand, w: float64(r.opts.Width - 20), h: float64(r.opts.Height - titleBand - 10)}
	for i, tile := range squarify(weights, bounds) {
		node := nodes[i]
		color := paletteColor(i)
		c.fillRect(tile.area(), color, colorBackground)

		inner := tile.inset(2)
		name := fmt.Sprintf("%s (%d)", label(node.name), node.count)
		if inner.h > 2*headerBand && c.fits(name, inner.w-4) {
			c.text(name, int(inner.x)+3, int(inner.y)+12, labelFontSize+1, colorBackground)
			inner = rect{inner.x, inner.y + headerBand, inner.w, inner.h - headerBand}
		}

		childWeights := make([]float64, len(node.children))
		for j, child := range node.children {
			childWeights[j] = float64(child.count)
		}
		for j, sub := range squarify(childWeights, inner) {
			child := node.children[j]
			c.fillRect(sub.area(), color.WithAlpha(uint8(110+145*(len(node.children)-j)/len(node.children))), colorBackground)
			text := label(child.name)
			if sub.h >= 14 && c.fits(text, sub.w-6) {
				c.text(text, int(sub.x)+3, int(sub.y)+11, labelFontSize, colorText)
				count := fmt.Sprint(child.count)
				if sub.h >= 26 {
					c.text(count, int(sub.x)+3, int(sub.y)+23, labelFontSize, colorText)
				}
			}
		}
	}

	return c.save(w)
}

func (c *canvas) fits(s string, width float64) bool {
	return float64(c.textWidth(s, labelFontSize+1)) <= width
}

// squarify lays weights out inside bounds so that each tile's area is
// proportional to its weight and tiles stay close to square. Weights are
// expected in descending order.
func squarify(weights []float64, bounds rect) []rect {
	out := make([]rect, 0, len(weights))
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 || bounds.w <= 0 || bounds.h <= 0 {
		for range weights {
			out = append(out, rect{x: bounds.x, y: bounds.y})
		}
		return out
	}

	scale := bounds.w * bounds.h / total
	areas := make([]float64, len(weights))
	for i, w := range weights {
		areas[i] = w * scale
	}

	free := bounds
	for i := 0; i < len(areas); {
		side := math.Min(free.w, free.h)
		j := i + 1
		for j < len(areas) && worstRatio(areas[i:j+1], side) <= worstRatio(areas[i:j], side) {
			j++
		}

		row := areas[i:j]
		sum := 0.0
		for _, a := range row {
			sum += a
		}

		if free.w >= free.h {
			colW := sum / free.h
			y := free.y
			for _, a := range row {
				h := a / colW
				out = append(out, rect{free.x, y, colW, h})
				y += h
			}
			free.x += colW
			free.w -= colW
		} else {
			rowH := sum / free.w
			x := free.x
			for _, a := range row {
				w := a / rowH
				out = append(out, rect{x, free.y, w, rowH})
				x += w
			}
			free.y += rowH
			free.h -= rowH
		}
		i = j
	}
	return out
}

// worstRatio is the largest aspect ratio in a row laid along side
func worstRatio(row []float64, side float64) float64 {
	sum, lo, hi := 0.0, math.Inf(1), 0.0
	for _, a := range row {
		sum += a
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	if sum == 0 || lo == 0 {
		return math.Inf(1)
	}
	s2, side2 := sum*sum, side*side
	return math.Max(side2*hi/s2, s2/(side2*lo))
}
