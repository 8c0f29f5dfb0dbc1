package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), false)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedType string
		expectedExt  map[string]interface{}
	}{
		{
			name:         "missing column",
			err:          NewColumnError("required column is missing", "age", 0, ""),
			expectedCode: http.StatusUnprocessableEntity,
			expectedType: TypeIngestionFailed,
			expectedExt:  map[string]interface{}{"error_code": "INGESTION_FAILED", "column": "age"},
		},
		{
			name:         "bad date",
			err:          fmt.Errorf("load: %w", NewDateParseError("appointmentdate", 3, "not-a-date")),
			expectedCode: http.StatusUnprocessableEntity,
			expectedType: TypeDateParseFailed,
			expectedExt: map[string]interface{}{
				"error_code": "DATE_PARSE_FAILED",
				"column":     "appointmentdate",
				"line":       float64(3),
				"value":      "not-a-date",
			},
		},
		{
			name:         "no dataset",
			err:          fmt.Errorf("dashboard: %w", ErrNoDataset),
			expectedCode: http.StatusNotFound,
			expectedType: TypeDataNotFound,
			expectedExt:  map[string]interface{}{"error_code": "NO_DATASET"},
		},
		{
			name:         "unknown chart",
			err:          fmt.Errorf("%w: bogus", ErrUnknownChart),
			expectedCode: http.StatusNotFound,
			expectedType: TypeChartNotFound,
		},
		{
			name:         "upload too large",
			err:          fmt.Errorf("read upload: %w", &http.MaxBytesError{Limit: 10}),
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedType: TypePayloadTooLarge,
		},
		{
			name:         "validation api error",
			err:          NewValidationErrors([]ValidationError{{Field: "city", Message: "too many values"}}),
			expectedCode: http.StatusBadRequest,
			expectedType: TypeValidation,
			expectedExt:  map[string]interface{}{"error_code": "VALIDATION_FAILED"},
		},
		{
			name:         "context deadline",
			err:          context.DeadlineExceeded,
			expectedCode: http.StatusGatewayTimeout,
			expectedType: TypeTimeout,
		},
		{
			name:         "unexpected",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedType: TypeInternal,
		},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			w := httptest.NewRecorder()

			h.HandleError(w, req, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedType, body["type"])
			assert.Equal(t, float64(tt.expectedCode), body["status"])
			assert.Equal(t, "/api/dashboard", body["instance"])
			for k, v := range tt.expectedExt {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler().HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestIngestionError(t *testing.T) {
	err := NewDateParseError("diagnosisdate", 7, "31/31/2020")

	assert.True(t, errors.Is(err, ErrDateParseFailed))
	assert.False(t, errors.Is(err, ErrIngestionFailed))
	assert.Contains(t, err.Error(), `column "diagnosisdate", line 7, value "31/31/2020"`)

	cause := errors.New("unexpected EOF")
	wrapped := NewIngestionError("file is not tabular", cause)
	assert.True(t, errors.Is(wrapped, ErrIngestionFailed))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "ingestion failed: file is not tabular: unexpected EOF", wrapped.Error())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("trace_id", "abc")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "abc", body["trace_id"])
	assert.Equal(t, "/x", body["instance"])
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}
