package charts

// Rows groups dashboard charts into display rows: three, three, two,
// then one per row.
func Rows[T any](items []T) [][]T {
	widths := []int{3, 3, 2}
	var rows [][]T
	for i := 0; len(items) > 0; i++ {
		n := 1
		if i < len(widths) {
			n = widths[i]
		}
		if n > len(items) {
			n = len(items)
		}
		rows = append(rows, items[:n:n])
		items = items[n:]
	}
	return rows
}
