package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"HP_SERVER_PORT":              "9090",
				"HP_INGEST_ENCODING":          "utf-8",
				"HP_DASHBOARD_HISTOGRAM_BINS": "10",
				"HP_SERVER_READ_TIMEOUT":      "5s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "utf-8", cfg.Ingest.Encoding)
				assert.Equal(t, 10, cfg.Dashboard.HistogramBins)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "hospital_data.csv", cfg.Dashboard.ExportFilename)
			},
		},
		{
			name: "file overlays environment",
			env:  map[string]string{"HP_SERVER_PORT": "9090"},
			file: "server:\n  port: 7000\ndashboard:\n  chart_width: 800\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 800, cfg.Dashboard.ChartWidth)
				assert.Equal(t, 400, cfg.Dashboard.ChartHeight)
			},
		},
		{
			name:    "invalid encoding",
			env:     map[string]string{"HP_INGEST_ENCODING": "ebcdic"},
			wantErr: "unsupported ingest encoding",
		},
		{
			name:    "invalid yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
		{
			name:    "invalid env value",
			env:     map[string]string{"HP_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			configPath := filepath.Join(dir, "none.yaml")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.file), 0o644))
			}
			t.Setenv("HP_CONFIG_FILE", "")
			if tt.file != "" {
				t.Setenv("HP_CONFIG_FILE", configPath)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "zero upload limit", mutate: func(c *Config) { c.Ingest.MaxUploadBytes = 0 }, wantErr: "max upload bytes"},
		{name: "tiny chart", mutate: func(c *Config) { c.Dashboard.ChartWidth = 10 }, wantErr: "chart size"},
		{name: "no bins", mutate: func(c *Config) { c.Dashboard.HistogramBins = 0 }, wantErr: "histogram bins"},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, wantErr: "trace exporter"},
		{name: "unknown metric exporter", mutate: func(c *Config) { c.Telemetry.MetricExporter = "statsd" }, wantErr: "metric exporter"},
		{name: "sample ratio", mutate: func(c *Config) { c.Telemetry.SampleRatio = 2 }, wantErr: "sample ratio"},
		{name: "log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: "logging output"},
		{name: "latin1 alias", mutate: func(c *Config) { c.Ingest.Encoding = "LATIN1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
