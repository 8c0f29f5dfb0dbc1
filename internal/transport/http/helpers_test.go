package http

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"hospitalpulse/internal/dataset"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/middleware"
	"hospitalpulse/internal/services"
)

const header = "city,age,appointmentdate,status,doctor_firstname,paymentstatus,amount,treatmentname,departmentname,specialization,symptomname,nurse_firstname,diagnosisdate\n"

const records = header +
	"Boston,34,2024-01-15,Completed,Alice,Paid,120.50,Checkup,Cardiology,Cardiologist,Cough,Nina,2024-01-16\n" +
	"Boston,51,2024-01-16,Cancelled,Bob,Pending,80,X-Ray,Radiology,Radiologist,Back Pain,Omar,2024-01-17\n" +
	"Denver,27,2024-01-16,Completed,Alice,Paid,300,Checkup,Cardiology,Cardiologist,Fever,Nina,2024-01-18\n"

const testMaxUpload = 1 << 20

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(hub services.Broadcaster) *services.DashboardService {
	return services.NewDashboardService(services.DashboardOptions{
		Ingest: dataset.IngestOptions{Encoding: "utf-8", MaxBytes: testMaxUpload},
		Hub:    hub,
		Logger: quietLogger(),
	})
}

// newTestRouter mounts the page, API and log handlers the way the app does
func newTestRouter(svc DashboardServiceInterface) http.Handler {
	logger := quietLogger()
	validator := middleware.NewValidator()
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	NewPageHandler(svc, validator, errorHandler, testMaxUpload, "hospital_data.csv", logger).Routes(r)
	r.Route("/api", func(r chi.Router) {
		NewDatasetHandler(svc, validator, errorHandler, testMaxUpload, logger).Routes(r)
		r.Post("/logs", NewClientLogHandler(validator, errorHandler, logger).Handle)
	})
	return r
}

// uploadRequest builds a multipart POST carrying content as the file field
func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "ignored"))
	part, err := mw.CreateFormFile(UploadField, filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// loadedRouter returns a router over a service holding the three sample rows
func loadedRouter(t *testing.T) http.Handler {
	t.Helper()
	router := newTestRouter(newTestService(nil))
	rec := serve(router, uploadRequest(t, "/upload", "records.csv", records))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return router
}
