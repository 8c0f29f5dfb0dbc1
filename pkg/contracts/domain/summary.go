package domain

import "time"

// ChartKind is the fixed visual form bound to a summary.
type ChartKind string

const (
	ChartHistogram  ChartKind = "histogram"
	ChartBar        ChartKind = "bar"
	ChartStackedBar ChartKind = "stacked_bar"
	ChartLine       ChartKind = "line"
	ChartPie        ChartKind = "pie"
	ChartDonut      ChartKind = "donut"
	ChartBox        ChartKind = "box"
	ChartTreemap    ChartKind = "treemap"
)

// SummaryShape names which payload field of a Summary is populated.
type SummaryShape string

const (
	ShapeCounts SummaryShape = "counts"
	ShapeGroups SummaryShape = "groups"
	ShapeDates  SummaryShape = "dates"
	ShapeValues SummaryShape = "values"
)

// CountRow is one (value, count) pair of a single-column count.
type CountRow struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// GroupCountRow is one (group, sub, count) triple of a two-column count.
type GroupCountRow struct {
	Group string `json:"group"`
	Sub   string `json:"sub"`
	Count int    `json:"count"`
}

// DateCountRow is one (date, count) pair of a temporal count.
type DateCountRow struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Summary is the derived table feeding exactly one chart. Only the field
// matching Shape is populated.
type Summary struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Kind    ChartKind       `json:"kind"`
	Shape   SummaryShape    `json:"shape"`
	Columns []string        `json:"columns"`
	Counts  []CountRow      `json:"counts,omitempty"`
	Groups  []GroupCountRow `json:"groups,omitempty"`
	Dates   []DateCountRow  `json:"dates,omitempty"`
	Values  []float64       `json:"values,omitempty"`
}

// Empty reports whether the summary has no rows to draw.
func (s Summary) Empty() bool {
	switch s.Shape {
	case ShapeCounts:
		return len(s.Counts) == 0
	case ShapeGroups:
		return len(s.Groups) == 0
	case ShapeDates:
		return len(s.Dates) == 0
	case ShapeValues:
		return len(s.Values) == 0
	}
	return true
}

// Total returns the number of rows the summary accounts for.
func (s Summary) Total() int {
	total := 0
	switch s.Shape {
	case ShapeCounts:
		for _, c := range s.Counts {
			total += c.Count
		}
	case ShapeGroups:
		for _, g := range s.Groups {
			total += g.Count
		}
	case ShapeDates:
		for _, d := range s.Dates {
			total += d.Count
		}
	case ShapeValues:
		total = len(s.Values)
	}
	return total
}

// Dashboard is the result of one filter-and-aggregate pass.
type Dashboard struct {
	Dataset   DatasetInfo `json:"dataset"`
	Selection []string    `json:"selection"`
	Rows      int         `json:"rows"`
	Summaries []Summary   `json:"summaries"`
}
