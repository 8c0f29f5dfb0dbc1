package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"hospitalpulse/internal/charts"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/middleware"
	"hospitalpulse/pkg/contracts/domain"
)

// PageTitle heads the dashboard page
const PageTitle = "Hospital Data Dashboard"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/dashboard.html"))

type cityOption struct {
	Name     string
	Label    string
	Selected bool
}

type chartCell struct {
	ID     string
	Title  string
	SVG    template.HTML
	Failed bool
}

type pageData struct {
	Title     string
	Dataset   *domain.DatasetInfo
	Cities    []cityOption
	Selection []string
	RowCount  int
	Rows      [][]chartCell
	Error     string
	CSVURL    string
	XLSXURL   string
}

// PageHandler serves the HTML dashboard, uploads, single charts and the
// full-table downloads
type PageHandler struct {
	service        DashboardServiceInterface
	validator      *middleware.Validator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	csvName        string
	xlsxName       string
	logger         *slog.Logger
}

// NewPageHandler creates the page handler. exportName is the CSV download
// name; the spreadsheet download shares its stem.
func NewPageHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, exportName string, logger *slog.Logger) *PageHandler {
	if exportName == "" {
		exportName = "hospital_data.csv"
	}
	stem := strings.TrimSuffix(exportName, path.Ext(exportName))
	return &PageHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		csvName:        exportName,
		xlsxName:       stem + ".xlsx",
		logger:         logger.With(slog.String("component", "page_handler")),
	}
}

// Routes mounts the page routes on r
func (h *PageHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/upload", h.Upload)
	r.Get("/charts/{id}.svg", h.Chart)
	r.Get("/download/"+h.csvName, h.DownloadCSV)
	r.Get("/download/"+h.xlsxName, h.DownloadXLSX)
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	cities, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data := h.newPage()
	rendered, err := h.service.RenderDashboard(r.Context(), cities)
	switch {
	case errors.Is(err, apierrors.ErrNoDataset):
		h.writePage(w, r, http.StatusOK, data)
		return
	case err != nil:
		h.errorHandler.HandleError(w, r, err)
		return
	}

	info := rendered.Dataset
	data.Dataset = &info
	data.Selection = rendered.Selection
	data.RowCount = rendered.Rows
	data.Cities = cityOptions(info.Cities, rendered.Selection)

	cells := make([]chartCell, len(rendered.Charts))
	for i, c := range rendered.Charts {
		cells[i] = chartCell{
			ID:     c.Summary.ID,
			Title:  c.Summary.Title,
			SVG:    template.HTML(c.SVG), // produced by charts.Renderer, labels are sanitized
			Failed: c.Err != nil,
		}
	}
	data.Rows = charts.Rows(cells)

	h.writePage(w, r, http.StatusOK, data)
}

// Upload handles POST /upload. Success redirects to the dashboard; a
// rejected file re-renders the page with the reason and no charts.
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, name, err := openUpload(w, r, h.maxUploadBytes)
	if err == nil {
		defer file.Close()
		_, err = h.service.Load(r.Context(), file, name)
	}
	if err != nil {
		problem := h.errorHandler.ErrorToProblem(err, r)
		if problem.Status >= http.StatusInternalServerError {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.logger.WarnContext(r.Context(), "Upload rejected", slog.String("error", err.Error()))

		data := h.newPage()
		data.Error = problem.Detail
		if info, derr := h.service.Dataset(r.Context()); derr == nil {
			data.Dataset = &info
			data.Cities = cityOptions(info.Cities, nil)
		}
		h.writePage(w, r, problem.Status, data)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Chart handles GET /charts/{id}.svg
func (h *PageHandler) Chart(w http.ResponseWriter, r *http.Request) {
	cities, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Chart(r.Context(), &buf, chi.URLParam(r, "id"), cities); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// DownloadCSV handles GET /download/hospital_data.csv. The whole loaded
// table is sent whatever the current selection.
func (h *PageHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.csvName, "text/csv; charset=utf-8", h.service.Export)
}

// DownloadXLSX handles GET /download/hospital_data.xlsx
func (h *PageHandler) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.xlsxName, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.service.ExportXLSX)
}

func (h *PageHandler) download(w http.ResponseWriter, r *http.Request, filename, contentType string, export func(context.Context, io.Writer) error) {
	info, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	etag := `"` + info.Fingerprint + `-` + path.Ext(filename)[1:] + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := export(r.Context(), &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("ETag", etag)
	w.Write(buf.Bytes())
}

func (h *PageHandler) newPage() pageData {
	return pageData{
		Title:   PageTitle,
		CSVURL:  "/download/" + h.csvName,
		XLSXURL: "/download/" + h.xlsxName,
	}
}

func (h *PageHandler) writePage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func cityOptions(cities, selection []string) []cityOption {
	selected := make(map[string]bool, len(selection))
	for _, c := range selection {
		selected[c] = true
	}
	out := make([]cityOption, len(cities))
	for i, c := range cities {
		label := c
		if strings.TrimSpace(c) == "" {
			label = charts.BlankLabel
		}
		out[i] = cityOption{Name: c, Label: label, Selected: selected[c]}
	}
	return out
}
