package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/middleware"
)

// DatasetHandler exposes the loaded table and its summaries as JSON
type DatasetHandler struct {
	service        DashboardServiceInterface
	validator      *middleware.Validator
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDatasetHandler creates a new dataset API handler
func NewDatasetHandler(service DashboardServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "dataset")),
	}
}

// Routes mounts the API routes on r
func (h *DatasetHandler) Routes(r chi.Router) {
	r.Post("/dataset", h.Upload)
	r.Get("/dataset", h.Get)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/summaries/{id}", h.Summary)
}

// Upload handles POST /api/dataset
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, name, err := openUpload(w, r, h.maxUploadBytes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	info, err := h.service.Load(r.Context(), file, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Dataset uploaded",
		slog.String("name", info.Name),
		slog.Int("rows", info.Rows))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// Get handles GET /api/dataset
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Dataset(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// Dashboard handles GET /api/dashboard?city=...
func (h *DatasetHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cities, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), cities)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dashboard)
}

// Summary handles GET /api/summaries/{id}?city=...
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cities, err := parseSelection(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"), cities)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}
