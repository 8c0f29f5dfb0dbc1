package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/internal/middleware"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLog    string
		expectedAttr   string
	}{
		{
			name:           "warning from the dashboard",
			body:           `{"level":"warn","message":"Live updates keep disconnecting","context":{"retry_ms":16000}}`,
			expectedStatus: http.StatusNoContent,
			expectedLog:    "level=WARN msg=\"Live updates keep disconnecting\"",
			expectedAttr:   "context=map[retry_ms:16000]",
		},
		{
			name:           "level is case insensitive",
			body:           `{"level":"ERROR","message":"boom"}`,
			expectedStatus: http.StatusNoContent,
			expectedLog:    "level=ERROR msg=boom",
		},
		{
			name:           "missing level defaults to info",
			body:           `{"message":"hello"}`,
			expectedStatus: http.StatusNoContent,
			expectedLog:    "level=INFO msg=hello",
		},
		{
			name:           "unknown level",
			body:           `{"level":"loud","message":"hello"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			handler := NewClientLogHandler(middleware.NewValidator(), apierrors.NewErrorHandler(quietLogger(), false), logger)

			req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedLog != "" {
				assert.Contains(t, logs.String(), tt.expectedLog)
				assert.Contains(t, logs.String(), "handler=client_log")
				if tt.expectedAttr != "" {
					assert.Contains(t, logs.String(), tt.expectedAttr)
				}
				return
			}
			var problem map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		})
	}
}

func TestClientLogHandler_BodyTooLarge(t *testing.T) {
	handler := NewClientLogHandler(middleware.NewValidator(), apierrors.NewErrorHandler(quietLogger(), false), quietLogger())

	body := `{"level":"info","message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
