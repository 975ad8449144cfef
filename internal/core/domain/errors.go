package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNetwork            = errors.New("remote store unreachable")
	ErrUnauthorized       = errors.New("session expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrMalformedResponse  = errors.New("malformed response from remote store")
	ErrUnsupported        = errors.New("operation not supported by this store")
	ErrSameDepartment     = errors.New("printer is already in this department")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// ValidationError carries the per-field messages of a rejected record,
// either from local form validation or from a 422 response.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field message was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message != "" {
			return e.Message
		}
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.sortedFields() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], ", ")))
	}
	return strings.Join(msgs, "; ")
}

// Bullets renders one "- message" line per field message, fields sorted.
func (e *ValidationError) Bullets() string {
	var b strings.Builder
	for _, f := range e.sortedFields() {
		for _, m := range e.Fields[f] {
			b.WriteString("- ")
			b.WriteString(m)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (e *ValidationError) sortedFields() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// RemoteError is an unclassified failure answered by the remote store.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store: %d %s", e.Status, e.Message)
}
