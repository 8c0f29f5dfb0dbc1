package dataset

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Filter restricts t to rows whose city is in cities. An empty selection
// applies no filter at all and returns every row. Unknown cities match
// nothing; duplicates are harmless.
func Filter(t *Table, cities []string) *View {
	if len(cities) == 0 {
		return All(t)
	}

	matched := make([]*roaring.Bitmap, 0, len(cities))
	seen := make(map[string]struct{}, len(cities))
	for _, city := range cities {
		if _, dup := seen[city]; dup {
			continue
		}
		seen[city] = struct{}{}
		if bm, ok := t.cities[city]; ok {
			matched = append(matched, bm)
		}
	}

	rows := roaring.New()
	if len(matched) > 0 {
		rows = roaring.FastOr(matched...)
	}
	return &View{table: t, rows: rows}
}
