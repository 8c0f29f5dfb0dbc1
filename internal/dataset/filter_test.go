package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospitalpulse/pkg/contracts/domain"
)

func cityTable(t *testing.T, cities ...string) *Table {
	t.Helper()
	records := [][]string{domain.RequiredColumns}
	for _, c := range cities {
		records = append(records, record(c, nil))
	}
	table, err := FromRecords(context.Background(), "cities.csv", records)
	require.NoError(t, err)
	return table
}

func TestFilter(t *testing.T) {
	table := cityTable(t, "A", "B", "A", "C", "")

	tests := []struct {
		name      string
		selection []string
		wantRows  []int
		filtered  bool
	}{
		{name: "nil selection is identity", selection: nil, wantRows: []int{0, 1, 2, 3, 4}},
		{name: "empty selection is identity", selection: []string{}, wantRows: []int{0, 1, 2, 3, 4}},
		{name: "single city", selection: []string{"A"}, wantRows: []int{0, 2}, filtered: true},
		{name: "two cities keep table order", selection: []string{"C", "A"}, wantRows: []int{0, 2, 3}, filtered: true},
		{name: "duplicates harmless", selection: []string{"B", "B"}, wantRows: []int{1}, filtered: true},
		{name: "unknown city matches nothing", selection: []string{"Z"}, wantRows: []int{}, filtered: true},
		{name: "blank city is selectable", selection: []string{""}, wantRows: []int{4}, filtered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Filter(table, tt.selection)
			assert.Same(t, table, view.Table())
			assert.Equal(t, tt.filtered, view.Filtered())
			assert.Equal(t, len(tt.wantRows), view.Len())
			assert.Equal(t, tt.wantRows, view.RowIndexes())
		})
	}
}

func TestFilter_ExactlyMatchingRows(t *testing.T) {
	table := cityTable(t, "A", "A", "B", "C", "B", "A")
	cityCol, err := table.ColumnIndex(domain.ColumnCity)
	require.NoError(t, err)

	for _, selection := range [][]string{{"A"}, {"B"}, {"A", "C"}, {"A", "B", "C"}} {
		allowed := map[string]bool{}
		for _, c := range selection {
			allowed[c] = true
		}

		var want []int
		for row := 0; row < table.Len(); row++ {
			if allowed[table.Cell(row, cityCol)] {
				want = append(want, row)
			}
		}

		assert.Equal(t, want, Filter(table, selection).RowIndexes(), "selection %v", selection)
	}
}

func TestFilter_Scenario(t *testing.T) {
	table := cityTable(t, "A", "A", "B")
	assert.Equal(t, 2, Filter(table, []string{"A"}).Len())
	assert.Equal(t, 3, Filter(table, nil).Len())
}

func TestFilter_EmptyTable(t *testing.T) {
	table := cityTable(t)
	assert.Zero(t, Filter(table, nil).Len())
	assert.Zero(t, Filter(table, []string{"A"}).Len())
}
