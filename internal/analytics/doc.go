// Package analytics turns a filtered view of the record table into the
// summary tables behind each dashboard chart.
//
// Every aggregator is pure: it reads the view and returns a fresh result.
// Three shapes cover the whole dashboard (single-column counts,
// two-column group counts and per-date counts) plus raw numeric values for
// the charts that bin or rank values themselves.
package analytics
