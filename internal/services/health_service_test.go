package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name    string
		dataset DatasetState
		hub     ClientCounter
		status  string
		message string
	}{
		{"no file loaded is ready", stubDataset(false), stubHub{running: true}, "ready", "no file loaded"},
		{"file loaded", stubDataset(true), stubHub{running: true}, "ready", "file loaded"},
		{"hub stopped", stubDataset(true), stubHub{}, "not_ready", "file loaded"},
		{"nothing wired", nil, nil, "not_ready", "dashboard service not initialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", "", tt.dataset, tt.hub, quietLogger())
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.status, status.Status)
			assert.Equal(t, tt.message, status.Services["dataset"].Message)
		})
	}
}

func TestHealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.0.0", "2024-01-01T00:00:00Z", "abc123", stubDataset(false), stubHub{running: true}, nil)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.0.0", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Equal(t, runtime.Version(), live.Runtime["go_version"])

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "abc123", v["build_id"])
	assert.Equal(t, "2024-01-01T00:00:00Z", v["build_time"])
}
