// Package dataset holds the in-memory hospital record table.
//
// A Table is built once by Ingest from an uploaded delimited or
// spreadsheet file and is read-only afterwards. Filter derives a View (a
// row subset keyed on the city column) and the export functions write the
// whole table back out regardless of any view.
package dataset
