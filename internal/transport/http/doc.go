// Package http holds the HTTP handlers of the dashboard: the HTML page with
// its upload form, city selector, chart grid and download links; the JSON
// API over the same dashboard service; health probes; and the WebSocket
// endpoint that tells open pages a new file was loaded.
//
// Handlers stay thin. They parse and validate the request, call the
// service, and either render a response or hand the error to
// errors.ErrorHandler, which answers with RFC 7807 problem details:
//
//	GET  /                          dashboard page, ?city=A&city=B filters
//	POST /upload                    multipart "file", 303 to / on success
//	GET  /charts/{id}.svg           one chart for the current selection
//	GET  /download/hospital_data.csv  full table, UTF-8
//	POST /api/dataset               upload, 201 with the dataset info
//	GET  /api/dashboard             every summary as JSON
//	GET  /api/summaries/{id}        one summary as JSON
//	POST /api/logs                  browser-side log reports
//	GET  /ws                        live update stream
//
// Chart SVGs and exports are written to a buffer first, so a failure
// midway still produces a proper error response.
package http
