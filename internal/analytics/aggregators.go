package analytics

import (
	"fmt"
	"sort"

	"hospitalpulse/internal/dataset"
	"hospitalpulse/pkg/contracts/domain"
)

// keyer returns the grouping key of one row. ok is false for rows that
// have no key (an empty date).
type keyer func(row int) (key string, ok bool)

func columnKeyer(t *dataset.Table, column string) (keyer, error) {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	if t.IsDateColumn(column) {
		return func(row int) (string, bool) {
			d, ok := t.Date(column, row)
			if !ok {
				return "", false
			}
			return t.DateKey(column, d), true
		}, nil
	}
	return func(row int) (string, bool) {
		return t.Cell(row, col), true
	}, nil
}

// CountBy counts rows per distinct value of column, ordered by count
// descending then value ascending. Empty categorical cells count as "".
func CountBy(v *dataset.View, column string) ([]domain.CountRow, error) {
	key, err := columnKeyer(v.Table(), column)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	v.Each(func(row int) {
		if k, ok := key(row); ok {
			counts[k]++
		}
	})

	out := make([]domain.CountRow, 0, len(counts))
	for value, n := range counts {
		out = append(out, domain.CountRow{Value: value, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// GroupCount counts rows per distinct (a, b) pair, ordered by a then b.
// Rows missing either key (an empty date) are skipped.
func GroupCount(v *dataset.View, a, b string) ([]domain.GroupCountRow, error) {
	keyA, err := columnKeyer(v.Table(), a)
	if err != nil {
		return nil, err
	}
	keyB, err := columnKeyer(v.Table(), b)
	if err != nil {
		return nil, err
	}

	type pair struct{ a, b string }
	counts := make(map[pair]int)
	v.Each(func(row int) {
		ka, okA := keyA(row)
		kb, okB := keyB(row)
		if okA && okB {
			counts[pair{ka, kb}]++
		}
	})

	out := make([]domain.GroupCountRow, 0, len(counts))
	for p, n := range counts {
		out = append(out, domain.GroupCountRow{Group: p.a, Sub: p.b, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Sub < out[j].Sub
	})
	return out, nil
}

// DateCount counts rows per distinct date of a date column, ascending.
// Dates with no rows are absent; there is no gap filling.
func DateCount(v *dataset.View, column string) ([]domain.DateCountRow, error) {
	t := v.Table()
	if _, err := t.ColumnIndex(column); err != nil {
		return nil, err
	}
	if !t.IsDateColumn(column) {
		return nil, fmt.Errorf("column %q is not a date column", column)
	}

	// Keyed by instant; time.Time values are not reliable map keys.
	counts := make(map[int64]*domain.DateCountRow)
	v.Each(func(row int) {
		d, ok := t.Date(column, row)
		if !ok {
			return
		}
		if c, seen := counts[d.UnixNano()]; seen {
			c.Count++
			return
		}
		counts[d.UnixNano()] = &domain.DateCountRow{Date: d, Count: 1}
	})

	out := make([]domain.DateCountRow, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Values returns the numeric values of column in row order, skipping
// empty cells. Binning is left to the chart.
func Values(v *dataset.View, column string) ([]float64, error) {
	t := v.Table()
	if _, err := t.ColumnIndex(column); err != nil {
		return nil, err
	}
	if !t.IsNumericColumn(column) {
		return nil, fmt.Errorf("column %q is not a numeric column", column)
	}

	out := make([]float64, 0, v.Len())
	v.Each(func(row int) {
		if n, ok := t.Number(column, row); ok {
			out = append(out, n.InexactFloat64())
		}
	})
	return out, nil
}
