package validation

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
		wantWarning   bool
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "records.csv")
				require.NoError(t, os.WriteFile(path, []byte("city\nBoston\n"), 0o644))
				return path
			},
		},
		{
			name: "workbook with upper case extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "records.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))
				return path
			},
		},
		{
			name: "unknown extension is read as text",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "records.dat")
				require.NoError(t, os.WriteFile(path, []byte("city\nBoston\n"), 0o644))
				return path
			},
			wantWarning: true,
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "legacy workbook",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "records.xls")
				require.NoError(t, os.WriteFile(path, []byte{0xD0, 0xCF}, 0o644))
				return path
			},
			wantErr:       true,
			errorContains: "legacy .xls",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$records.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
				return path
			},
			wantErr:       true,
			errorContains: "lock file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			v := NewFileValidator(slog.New(slog.NewTextHandler(&logs, nil)))

			err := v.ValidateInputFile(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.wantWarning {
				assert.Contains(t, logs.String(), "Unrecognised extension")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)
		assert.NoFileExists(t, filepath.Join(dir, ".write_test"))
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		assert.Error(t, v.ValidateOutputDirectory(file))
	})
}
