// Package charts renders dashboard summaries as standalone SVG documents.
//
// Bar, pie, donut and line charts use go-chart's chart types. Histogram
// bars are binned here. Stacked bars, box plots, treemaps and the
// empty-state placeholder are drawn directly on go-chart's SVG renderer.
package charts
