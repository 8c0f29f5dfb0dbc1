package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	apierrors "hospitalpulse/internal/errors"
)

// UploadField is the multipart field holding the uploaded file
const UploadField = "file"

// multipartOverhead allows for form boundaries and headers around the file
const multipartOverhead = 1 << 20

// openUpload caps the request body and returns the uploaded file part.
// The caller must close the returned reader.
func openUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (io.ReadCloser, string, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, "", apierrors.NewIngestionError("expected a multipart/form-data upload", err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", apierrors.NewIngestionError(fmt.Sprintf("no %q field in the upload", UploadField), nil)
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, "", err
			}
			return nil, "", apierrors.NewIngestionError("malformed upload", err)
		}
		if part.FormName() != UploadField {
			part.Close()
			continue
		}
		name := filepath.Base(part.FileName())
		if name == "." || name == string(filepath.Separator) || part.FileName() == "" {
			part.Close()
			return nil, "", apierrors.NewIngestionError("no file selected", nil)
		}
		return part, name, nil
	}
}
