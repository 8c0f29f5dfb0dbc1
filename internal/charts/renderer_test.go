package charts

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospitalpulse/pkg/contracts/domain"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func render(t *testing.T, s domain.Summary) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(Options{}).Render(&buf, s))
	out := buf.String()
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg"), "not an svg document: %.60s", out)
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
	return out
}

func TestRenderEveryKind(t *testing.T) {
	counts := []domain.CountRow{{Value: "Paid", Count: 4}, {Value: "Pending", Count: 2}, {Value: "", Count: 1}}
	groups := []domain.GroupCountRow{
		{Group: "Cardiology", Sub: "Alice", Count: 5},
		{Group: "Cardiology", Sub: "Bob", Count: 2},
		{Group: "Neurology", Sub: "Cara", Count: 3},
		{Group: "Oncology", Sub: "Dan", Count: 1},
	}
	dates := []domain.DateCountRow{
		{Date: day("2024-01-01"), Count: 2},
		{Date: day("2024-01-03"), Count: 5},
		{Date: day("2024-02-10"), Count: 1},
	}

	tests := []struct {
		name    string
		summary domain.Summary
	}{
		{"histogram", domain.Summary{Title: "Age Distribution", Kind: domain.ChartHistogram, Shape: domain.ShapeValues, Values: []float64{21, 34, 34, 50, 67, 80}}},
		{"bar", domain.Summary{Title: "Doctor Utilization", Kind: domain.ChartBar, Shape: domain.ShapeCounts, Counts: counts}},
		{"stacked bar", domain.Summary{Title: "Treatment Outcomes", Kind: domain.ChartStackedBar, Shape: domain.ShapeGroups, Groups: groups}},
		{"line", domain.Summary{Title: "Appointment Frequency", Kind: domain.ChartLine, Shape: domain.ShapeDates, Dates: dates}},
		{"pie", domain.Summary{Title: "Specialization Demand", Kind: domain.ChartPie, Shape: domain.ShapeCounts, Counts: counts}},
		{"donut", domain.Summary{Title: "Payment Status", Kind: domain.ChartDonut, Shape: domain.ShapeCounts, Counts: counts}},
		{"box", domain.Summary{Title: "Billing Amounts", Kind: domain.ChartBox, Shape: domain.ShapeValues, Values: []float64{100, 120.5, 130, 150, 2000}}},
		{"treemap", domain.Summary{Title: "Department Utilization", Kind: domain.ChartTreemap, Shape: domain.ShapeGroups, Groups: groups}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.summary)
			assert.Contains(t, out, tt.summary.Title)
			assert.NotContains(t, out, "No data")
		})
	}
}

func TestRenderEmptySummaries(t *testing.T) {
	kinds := map[domain.ChartKind]domain.SummaryShape{
		domain.ChartHistogram:  domain.ShapeValues,
		domain.ChartBar:        domain.ShapeCounts,
		domain.ChartStackedBar: domain.ShapeGroups,
		domain.ChartLine:       domain.ShapeDates,
		domain.ChartPie:        domain.ShapeCounts,
		domain.ChartDonut:      domain.ShapeCounts,
		domain.ChartBox:        domain.ShapeValues,
		domain.ChartTreemap:    domain.ShapeGroups,
	}

	for kind, shape := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			out := render(t, domain.Summary{Title: "Empty " + string(kind), Kind: kind, Shape: shape})
			assert.Contains(t, out, "Empty "+string(kind))
			assert.Contains(t, out, "No data")
		})
	}
}

func TestRenderEdgeCases(t *testing.T) {
	t.Run("single date line", func(t *testing.T) {
		out := render(t, domain.Summary{
			Title: "Diagnosis Date Analysis", Kind: domain.ChartLine, Shape: domain.ShapeDates,
			Dates: []domain.DateCountRow{{Date: day("2024-03-01"), Count: 3}},
		})
		assert.Contains(t, out, "Mar 1")
	})

	t.Run("identical values", func(t *testing.T) {
		render(t, domain.Summary{Title: "Age Distribution", Kind: domain.ChartHistogram, Shape: domain.ShapeValues, Values: []float64{30, 30}})
		render(t, domain.Summary{Title: "Billing Amounts", Kind: domain.ChartBox, Shape: domain.ShapeValues, Values: []float64{0, 0, 0}})
	})

	t.Run("extreme numeric values", func(t *testing.T) {
		tests := []struct {
			name   string
			values []float64
		}{
			{"near float precision", []float64{1e16, 1e16 + 2, 1e16 + 4}},
			{"two values one ulp apart", []float64{1e16, 1e16 + 2}},
			{"opposite float limits", []float64{-1e308, 1e308}},
			{"max float span", []float64{-math.MaxFloat64, math.MaxFloat64}},
			{"tiny span", []float64{1, math.Nextafter(1, 2)}},
			{"non finite mixed in", []float64{math.Inf(1), 40, math.NaN(), 60}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				for _, kind := range []domain.ChartKind{domain.ChartHistogram, domain.ChartBox} {
					out := render(t, domain.Summary{Title: "Billing Amounts", Kind: kind, Shape: domain.ShapeValues, Values: tt.values})
					assert.NotContains(t, out, "NaN")
					assert.NotContains(t, out, "Inf")
				}
			})
		}
	})

	t.Run("only non finite values", func(t *testing.T) {
		for _, kind := range []domain.ChartKind{domain.ChartHistogram, domain.ChartBox} {
			out := render(t, domain.Summary{Title: "Billing Amounts", Kind: kind, Shape: domain.ShapeValues, Values: []float64{math.Inf(1), math.NaN()}})
			assert.Contains(t, out, "No data")
		}
	})

	t.Run("blank categories are labelled", func(t *testing.T) {
		out := render(t, domain.Summary{
			Title: "Nurse Workload", Kind: domain.ChartBar, Shape: domain.ShapeCounts,
			Counts: []domain.CountRow{{Value: "", Count: 2}},
		})
		assert.Contains(t, out, BlankLabel)
	})

	t.Run("markup in values is neutralised", func(t *testing.T) {
		out := render(t, domain.Summary{
			Title: "Common Symptoms", Kind: domain.ChartBar, Shape: domain.ShapeCounts,
			Counts: []domain.CountRow{{Value: "<b>Fever & Chills</b>", Count: 1}},
		})
		assert.NotContains(t, out, "<b>")
		assert.Contains(t, out, "‹b›Fever")
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := NewRenderer(DefaultOptions()).Render(&bytes.Buffer{}, domain.Summary{
			Kind: "radar", Shape: domain.ShapeCounts, Counts: []domain.CountRow{{Value: "x", Count: 1}},
		})
		assert.Error(t, err)
	})
}

func TestNewRendererDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions(), NewRenderer(Options{}).Options())
	assert.Equal(t, 800, NewRenderer(Options{Width: 800}).Options().Width)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, BlankLabel, label("  "))
	assert.Equal(t, "A ＆ B", label("A & B"))
	assert.Equal(t, "Cardiolo…", truncate("Cardiology", 9))
	assert.Equal(t, "Cardiology", truncate("Cardiology", 10))
}

func TestSquarify(t *testing.T) {
	bounds := rect{x: 0, y: 0, w: 600, h: 400}
	weights := []float64{6, 6, 4, 3, 2, 2, 1}
	tiles := squarify(weights, bounds)
	require.Len(t, tiles, len(weights))

	total := 0.0
	for _, w := range weights {
		total += w
	}
	covered := 0.0
	for i, tile := range tiles {
		want := weights[i] / total * bounds.w * bounds.h
		assert.InDelta(t, want, tile.w*tile.h, 1e-6, "tile %d", i)
		assert.GreaterOrEqual(t, tile.x, bounds.x-1e-9)
		assert.GreaterOrEqual(t, tile.y, bounds.y-1e-9)
		assert.LessOrEqual(t, tile.x+tile.w, bounds.x+bounds.w+1e-6)
		assert.LessOrEqual(t, tile.y+tile.h, bounds.y+bounds.h+1e-6)
		covered += tile.w * tile.h
	}
	assert.InDelta(t, bounds.w*bounds.h, covered, 1e-6)

	assert.True(t, math.IsInf(worstRatio([]float64{0}, 10), 1))
}

func TestTreemapNodes(t *testing.T) {
	nodes := treemapNodes([]domain.GroupCountRow{
		{Group: "Neurology", Sub: "Cara", Count: 3},
		{Group: "Cardiology", Sub: "Alice", Count: 1},
		{Group: "Cardiology", Sub: "Bob", Count: 4},
	})
	require.Len(t, nodes, 2)
	assert.Equal(t, "Cardiology", nodes[0].name)
	assert.Equal(t, 5, nodes[0].count)
	assert.Equal(t, "Bob", nodes[0].children[0].name)
	assert.Equal(t, "Neurology", nodes[1].name)
}
