package validation

import (
	"sort"
	"strings"

	"github.com/tilab/tilab/internal/pkg/apperrors"
)

// FieldError is a single field-level failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field-level failures for one form submission.
// It unwraps to apperrors.ErrValidationFailed.
type Errors struct {
	fields map[string]string
	order  []string
}

// NewErrors creates an empty error set
func NewErrors() *Errors {
	return &Errors{fields: make(map[string]string)}
}

// Add records msg for field. Empty messages are ignored and the first
// message recorded for a field wins.
func (e *Errors) Add(field, msg string) *Errors {
	if msg == "" {
		return e
	}
	if _, ok := e.fields[field]; ok {
		return e
	}
	e.fields[field] = msg
	e.order = append(e.order, field)
	return e
}

// HasErrors reports whether any field failed
func (e *Errors) HasErrors() bool {
	return len(e.order) > 0
}

// Get returns the message recorded for field
func (e *Errors) Get(field string) string {
	return e.fields[field]
}

// Fields returns the failures in the order they were recorded
func (e *Errors) Fields() []FieldError {
	out := make([]FieldError, 0, len(e.order))
	for _, f := range e.order {
		out = append(out, FieldError{Field: f, Message: e.fields[f]})
	}
	return out
}

// Err returns e as an error, or nil when there are no failures
func (e *Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements error
func (e *Errors) Error() string {
	keys := append([]string(nil), e.order...)
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap implements errors.Unwrap interface
func (e *Errors) Unwrap() error {
	return apperrors.ErrValidationFailed
}
