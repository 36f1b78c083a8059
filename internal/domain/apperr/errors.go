// Package apperr is the client-wide error taxonomy: transport failures, upstream
// status failures, local validation failures, and missing screen state.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindAPI          Kind = "api"
	KindValidation   Kind = "validation"
	KindStateMissing Kind = "state_missing"
	KindSchema       Kind = "schema"
	KindUnknown      Kind = "unknown"
)

// NetworkError means no response was received: the request timed out, was aborted,
// or the connection could not be established.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network error: %s: request timed out", e.Op)
	}
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError carries a non-2xx response. Body is the best-effort JSON decode of the
// response payload and is nil when the payload was not JSON.
type APIError struct {
	Status     int
	StatusText string
	Body       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.Status, e.StatusText)
}

// Message returns the upstream "message" or "error" field when present.
func (e *APIError) Message() string {
	if m, ok := e.Body.(map[string]any); ok {
		for _, k := range []string{"message", "error"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// ClientError reports 4xx statuses, which are never retried.
func (e *APIError) ClientError() bool { return e.Status >= 400 && e.Status < 500 }

func NewAPIError(status int, statusText string, body any) *APIError {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &APIError{Status: status, StatusText: statusText, Body: body}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a local form or request rejection; it never reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// StateMissingError means a screen was entered without its upstream payload.
// Callers redirect to RedirectTo instead of surfacing it.
type StateMissingError struct {
	Screen     string
	RedirectTo string
}

func (e *StateMissingError) Error() string {
	return fmt.Sprintf("%s entered without upstream state", e.Screen)
}

// SchemaError is a 2xx response whose body does not match the expected contract.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: invalid response: %s", e.Source, strings.Join(e.Problems, "; "))
}

// KindOf classifies err into the taxonomy.
func KindOf(err error) Kind {
	var (
		netErr    *NetworkError
		apiErr    *APIError
		valErr    *ValidationError
		stateErr  *StateMissingError
		schemaErr *SchemaError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &stateErr):
		return KindStateMissing
	case errors.As(err, &schemaErr):
		return KindSchema
	default:
		return KindUnknown
	}
}

// IsClientError reports whether err is an APIError with a 4xx status.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ClientError()
}
