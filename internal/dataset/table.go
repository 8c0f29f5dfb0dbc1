package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/shopspring/decimal"

	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/pkg/contracts/domain"
)

// Layouts used when a date is written back out
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// dateColumn holds the parsed values of one date column. valid[i] is false
// for an empty cell.
type dateColumn struct {
	values   []time.Time
	valid    []bool
	withTime bool
}

// Table is an immutable, row-oriented record table
type Table struct {
	name        string
	header      []string
	index       map[string]int
	rows        [][]string
	dates       map[string]*dateColumn
	numbers     map[string][]decimal.NullDecimal
	cities      map[string]*roaring.Bitmap
	fingerprint string
	loadedAt    time.Time
}

// Name returns the file name the table was ingested from
func (t *Table) Name() string { return t.name }

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Fingerprint is the hex BLAKE2b-256 digest of the raw upload
func (t *Table) Fingerprint() string { return t.fingerprint }

// LoadedAt returns the ingestion time
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Header returns a copy of the column names in file order
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// ColumnIndex resolves a column name. Missing columns wrap
// apierrors.ErrMissingColumn.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apierrors.ErrMissingColumn, name)
	}
	return i, nil
}

// Cell returns the text of one cell
func (t *Table) Cell(row, col int) string {
	return t.rows[row][col]
}

// IsDateColumn reports whether name was parsed as a date column
func (t *Table) IsDateColumn(name string) bool {
	_, ok := t.dates[name]
	return ok
}

// Date returns the parsed value of a date cell; ok is false when the cell
// is empty or the column is not a date column.
func (t *Table) Date(column string, row int) (time.Time, bool) {
	dc, found := t.dates[column]
	if !found || !dc.valid[row] {
		return time.Time{}, false
	}
	return dc.values[row], true
}

// DateKey formats a date the way the column is exported: date only, or
// date and time when any value in the column carries a clock time. Keys
// are always in UTC.
func (t *Table) DateKey(column string, d time.Time) string {
	d = d.UTC()
	if dc, ok := t.dates[column]; ok && dc.withTime {
		return d.Format(DateTimeLayout)
	}
	return d.Format(DateLayout)
}

// IsNumericColumn reports whether name was parsed as a numeric column
func (t *Table) IsNumericColumn(name string) bool {
	_, ok := t.numbers[name]
	return ok
}

// Number returns the parsed value of a numeric cell
func (t *Table) Number(column string, row int) (decimal.Decimal, bool) {
	col, found := t.numbers[column]
	if !found || !col[row].Valid {
		return decimal.Decimal{}, false
	}
	return col[row].Decimal, true
}

// Cities lists the distinct city values in ascending order
func (t *Table) Cities() []string {
	out := make([]string, 0, len(t.cities))
	for c := range t.cities {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Records returns the header followed by every row, as exported
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Header())
	for _, row := range t.rows {
		r := make([]string, len(row))
		copy(r, row)
		out = append(out, r)
	}
	return out
}

// Info summarizes the table for the API
func (t *Table) Info() domain.DatasetInfo {
	return domain.DatasetInfo{
		ID:          t.fingerprint[:16],
		Name:        t.name,
		Rows:        len(t.rows),
		Columns:     t.Header(),
		Cities:      t.Cities(),
		Fingerprint: t.fingerprint,
		LoadedAt:    t.loadedAt.UTC().Format(time.RFC3339),
	}
}
