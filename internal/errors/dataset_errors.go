package errors

import (
	"errors"
	"fmt"
)

// Dataset sentinel errors. Wrap them rather than comparing messages.
var (
	ErrIngestionFailed = errors.New("ingestion failed")
	ErrDateParseFailed = errors.New("date parse failed")
	ErrNoDataset       = errors.New("no dataset loaded")
	ErrUnknownChart    = errors.New("unknown chart")
	ErrMissingColumn   = errors.New("missing column")
)

// IngestionError describes why an uploaded file was rejected. Kind is
// either ErrIngestionFailed or ErrDateParseFailed.
type IngestionError struct {
	Kind   error
	Reason string
	Column string
	Line   int
	Value  string
	Cause  error
}

// Error implements the error interface
func (e *IngestionError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q", e.Column)
		if e.Line > 0 {
			msg += fmt.Sprintf(", line %d", e.Line)
		}
		if e.Value != "" {
			msg += fmt.Sprintf(", value %q", e.Value)
		}
		msg += ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches the error kind sentinel
func (e *IngestionError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap exposes the underlying cause
func (e *IngestionError) Unwrap() error {
	return e.Cause
}

// NewIngestionError creates an ingestion failure
func NewIngestionError(reason string, cause error) *IngestionError {
	return &IngestionError{Kind: ErrIngestionFailed, Reason: reason, Cause: cause}
}

// NewColumnError creates an ingestion failure tied to one column
func NewColumnError(reason, column string, line int, value string) *IngestionError {
	return &IngestionError{Kind: ErrIngestionFailed, Reason: reason, Column: column, Line: line, Value: value}
}

// NewDateParseError creates a date parse failure for one cell
func NewDateParseError(column string, line int, value string) *IngestionError {
	return &IngestionError{
		Kind:   ErrDateParseFailed,
		Reason: "value is not a recognizable date",
		Column: column,
		Line:   line,
		Value:  value,
	}
}
