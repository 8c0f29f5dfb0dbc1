package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding/charmap"

	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/pkg/contracts/domain"
)

// DefaultEncoding is the single-byte encoding uploads are decoded with
const DefaultEncoding = "iso-8859-1"

// IngestOptions tunes Ingest
type IngestOptions struct {
	// Encoding of delimited text: iso-8859-1 (latin1), windows-1252
	// (cp1252) or utf-8. Spreadsheets are always UTF-8 internally.
	Encoding string
	// MaxBytes caps the upload size; zero means unlimited.
	MaxBytes int64
	// Now stamps the table; defaults to time.Now.
	Now func() time.Time
}

// rawTable is the tabular content of a file before typing
type rawTable struct {
	header []string
	rows   [][]string
	lines  []int
}

// Ingest reads one uploaded file into a Table. The file format is chosen by
// the extension of name. Any failure rejects the whole file: the returned
// error wraps apierrors.ErrIngestionFailed or apierrors.ErrDateParseFailed
// (or is the context error) and no table is returned.
func Ingest(ctx context.Context, r io.Reader, name string, opts IngestOptions) (*Table, error) {
	if r == nil {
		return nil, apierrors.NewIngestionError("no file supplied", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := readLimited(r, opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apierrors.NewIngestionError("file is empty", nil)
	}

	var rt *rawTable
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xls":
		return nil, apierrors.NewIngestionError("legacy .xls workbooks are not supported, save the file as .xlsx or .csv", nil)
	case ".xlsx", ".xlsm":
		rt, err = readWorkbook(ctx, raw)
	default:
		rt, err = readDelimited(ctx, raw, ext, opts.Encoding)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	sum := blake2b.Sum256(raw)
	return buildTable(ctx, name, rt, hex.EncodeToString(sum[:]), now())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, apierrors.NewIngestionError("file could not be read", err)
		}
		return raw, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apierrors.NewIngestionError("file could not be read", err)
	}
	if int64(len(raw)) > limit {
		return nil, apierrors.NewIngestionError(fmt.Sprintf("file exceeds the %d byte limit", limit), &http.MaxBytesError{Limit: limit})
	}
	return raw, nil
}

// decode converts raw bytes in the configured encoding to UTF-8
func decode(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Bytes(raw)
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Bytes(raw)
	case "utf-8", "utf8":
		raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(raw) {
			return nil, errors.New("input is not valid UTF-8")
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// sniffDelimiter picks the field separator for a delimited file
func sniffDelimiter(text []byte, ext string) rune {
	if ext == ".tsv" {
		return '\t'
	}
	if ext != ".txt" {
		return ','
	}

	firstLine := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if bytes.IndexByte(firstLine, ',') >= 0 {
		return ','
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{'\t', ';', '|'} {
		if n := bytes.Count(firstLine, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func readDelimited(ctx context.Context, raw []byte, ext, encoding string) (*rawTable, error) {
	text, err := decode(raw, encoding)
	if err != nil {
		return nil, apierrors.NewIngestionError("file could not be decoded", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text, ext)

	header, err := reader.Read()
	if err != nil {
		return nil, notTabular(err)
	}

	rt := &rawTable{header: header}
	for {
		if len(rt.rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, notTabular(err)
		}
		line, _ := reader.FieldPos(0)
		rt.rows = append(rt.rows, record)
		rt.lines = append(rt.lines, line)
	}
	return rt, nil
}

func notTabular(err error) error {
	ingestErr := apierrors.NewIngestionError("file is not tabular", err)
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		ingestErr.Line = pe.Line
		ingestErr.Cause = pe.Err
	}
	return ingestErr
}

// readWorkbook reads the first sheet of an xlsx workbook. Cells are read
// raw; date columns holding Excel serial numbers are converted to ISO text.
func readWorkbook(ctx context.Context, raw []byte) (*rawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, apierrors.NewIngestionError("workbook could not be opened", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierrors.NewIngestionError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apierrors.NewIngestionError("workbook could not be read", err)
	}

	rt := &rawTable{}
	for i, row := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(row) {
			continue
		}
		if rt.header == nil {
			rt.header = row
			continue
		}
		if len(row) > len(rt.header) {
			return nil, &apierrors.IngestionError{
				Kind:   apierrors.ErrIngestionFailed,
				Reason: "file is not tabular",
				Line:   i + 1,
				Cause:  fmt.Errorf("row has %d cells, header has %d", len(row), len(rt.header)),
			}
		}
		// GetRows drops trailing empty cells.
		for len(row) < len(rt.header) {
			row = append(row, "")
		}
		rt.rows = append(rt.rows, row)
		rt.lines = append(rt.lines, i+1)
	}

	if rt.header == nil {
		return nil, apierrors.NewIngestionError("file is empty", nil)
	}

	for _, column := range domain.DateColumns {
		col := indexOf(rt.header, column)
		if col < 0 {
			continue
		}
		for _, row := range rt.rows {
			row[col] = excelSerialToText(row[col])
		}
	}
	return rt, nil
}

func excelSerialToText(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	if serial == float64(int64(serial)) {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// buildTable types a raw table: header validation, date and numeric
// parsing, city index.
func buildTable(ctx context.Context, name string, rt *rawTable, fingerprint string, loadedAt time.Time) (*Table, error) {
	t := &Table{
		name:        filepath.Base(name),
		header:      make([]string, len(rt.header)),
		index:       make(map[string]int, len(rt.header)),
		rows:        rt.rows,
		dates:       make(map[string]*dateColumn, len(domain.DateColumns)),
		numbers:     make(map[string][]decimal.NullDecimal, len(domain.NumericColumns)),
		cities:      make(map[string]*roaring.Bitmap),
		fingerprint: fingerprint,
		loadedAt:    loadedAt,
	}

	for i, h := range rt.header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, apierrors.NewIngestionError(fmt.Sprintf("header cell %d is empty", i+1), nil)
		}
		if _, dup := t.index[h]; dup {
			return nil, apierrors.NewColumnError("duplicate column", h, 1, "")
		}
		t.header[i] = h
		t.index[h] = i
	}

	var missing []string
	for _, required := range domain.RequiredColumns {
		if _, ok := t.index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		e := apierrors.NewColumnError("missing required column", missing[0], 0, "")
		if len(missing) > 1 {
			e.Reason = fmt.Sprintf("missing required columns %s", strings.Join(missing, ", "))
		}
		return nil, e
	}

	lineOf := func(row int) int {
		if row < len(rt.lines) {
			return rt.lines[row]
		}
		return row + 2
	}

	for _, column := range domain.DateColumns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col := t.index[column]
		dc := &dateColumn{
			values: make([]time.Time, len(t.rows)),
			valid:  make([]bool, len(t.rows)),
		}
		for row, cells := range t.rows {
			if strings.TrimSpace(cells[col]) == "" {
				continue
			}
			parsed, clock, ok := parseDate(cells[col])
			if !ok {
				return nil, apierrors.NewDateParseError(column, lineOf(row), cells[col])
			}
			dc.values[row], dc.valid[row] = parsed, true
			dc.withTime = dc.withTime || clock
		}
		t.dates[column] = dc

		// Cells are rewritten in canonical form so exports re-ingest cleanly.
		for row, cells := range t.rows {
			if dc.valid[row] {
				cells[col] = t.DateKey(column, dc.values[row])
			} else {
				cells[col] = ""
			}
		}
	}

	for _, column := range domain.NumericColumns {
		col := t.index[column]
		values := make([]decimal.NullDecimal, len(t.rows))
		for row, cells := range t.rows {
			n, ok, err := parseNumber(cells[col])
			if err != nil {
				msg := "value is not numeric"
				if errors.Is(err, errNumberOutOfRange) {
					msg = "value is out of range"
				}
				return nil, apierrors.NewColumnError(msg, column, lineOf(row), cells[col])
			}
			values[row] = decimal.NullDecimal{Decimal: n, Valid: ok}
		}
		t.numbers[column] = values
	}

	cityCol := t.index[domain.ColumnCity]
	for row, cells := range t.rows {
		city := cells[cityCol]
		bm, ok := t.cities[city]
		if !ok {
			bm = roaring.New()
			t.cities[city] = bm
		}
		bm.Add(uint32(row))
	}
	for _, bm := range t.cities {
		bm.RunOptimize()
	}

	return t, nil
}

var errNumberOutOfRange = errors.New("number out of range")

// parseNumber accepts plain decimals with an optional currency sign and
// thousands separators. ok is false for an empty cell.
func parseNumber(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false, nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	if d.IsZero() {
		return decimal.Zero, true, nil
	}
	// order of magnitude first, so absurd exponents never reach big.Rat
	if mag := d.NumDigits() + int(d.Exponent()); mag > 309 || mag < -323 {
		return decimal.Decimal{}, false, errNumberOutOfRange
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, false, errNumberOutOfRange
	}
	return d, true, nil
}

// FromRecords builds a Table from in-memory records whose first entry is
// the header. The same validation as Ingest applies.
func FromRecords(ctx context.Context, name string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, apierrors.NewIngestionError("file is empty", nil)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	if err := csv.NewWriter(h).WriteAll(records); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records)-1)
	for i, r := range records[1:] {
		if len(r) != len(records[0]) {
			return nil, &apierrors.IngestionError{
				Kind:   apierrors.ErrIngestionFailed,
				Reason: "file is not tabular",
				Line:   i + 2,
				Cause:  fmt.Errorf("row has %d cells, header has %d", len(r), len(records[0])),
			}
		}
		row := make([]string, len(r))
		copy(row, r)
		rows = append(rows, row)
	}

	rt := &rawTable{header: records[0], rows: rows}
	return buildTable(ctx, name, rt, hex.EncodeToString(h.Sum(nil)), time.Now())
}
