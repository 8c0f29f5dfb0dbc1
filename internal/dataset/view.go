package dataset

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// View is a row subset of a Table. A nil bitmap selects every row.
type View struct {
	table *Table
	rows  *roaring.Bitmap
}

// All returns the identity view of t
func All(t *Table) *View {
	return &View{table: t}
}

// Table returns the underlying table
func (v *View) Table() *Table { return v.table }

// Filtered reports whether the view restricts rows
func (v *View) Filtered() bool { return v.rows != nil }

// Len returns the number of rows in the view
func (v *View) Len() int {
	if v.rows == nil {
		return v.table.Len()
	}
	return int(v.rows.GetCardinality())
}

// Each calls fn with every row index in table order
func (v *View) Each(fn func(row int)) {
	if v.rows == nil {
		for i := 0; i < v.table.Len(); i++ {
			fn(i)
		}
		return
	}
	it := v.rows.Iterator()
	for it.HasNext() {
		fn(int(it.Next()))
	}
}

// RowIndexes returns the row indexes in table order
func (v *View) RowIndexes() []int {
	out := make([]int, 0, v.Len())
	v.Each(func(row int) { out = append(out, row) })
	return out
}
