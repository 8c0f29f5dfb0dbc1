package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospitalpulse/internal/services"
	ws "hospitalpulse/internal/websocket"
)

func TestHealthHandler(t *testing.T) {
	logger := quietLogger()
	svc := newTestService(nil)
	hub := ws.NewHub(logger, nil)

	healthService := services.NewHealthService("v1.0.0-test", "2026-01-01T00:00:00Z", "abc123", svc, hub, logger)
	router := chi.NewRouter()
	router.Route("/api", NewHealthHandler(healthService, logger).Routes)

	tests := []struct {
		name           string
		endpoint       string
		startHub       bool
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "health check endpoint",
			endpoint:       "/api/health",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
		{
			name:           "liveness check endpoint",
			endpoint:       "/api/health/live",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "alive", body["status"])
			},
		},
		{
			name:           "readiness fails while the hub is stopped",
			endpoint:       "/api/health/ready",
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_ready", body["status"])
			},
		},
		{
			name:           "readiness with no file loaded",
			endpoint:       "/api/health/ready",
			startHub:       true,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ready", body["status"])
				probes := body["services"].(map[string]interface{})
				dataset := probes["dataset"].(map[string]interface{})
				assert.Equal(t, "no file loaded", dataset["message"])
			},
		},
		{
			name:           "version endpoint",
			endpoint:       "/api/version",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "v1.0.0-test", body["version"])
				assert.Equal(t, "abc123", body["build_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.startHub {
				hub.Start()
				t.Cleanup(hub.Stop)
			}

			rec := serve(router, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}
