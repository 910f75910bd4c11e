package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// --------------------------------------------------------------------
// Typed failure surface
// --------------------------------------------------------------------

// APIError is the failure returned by any remote operation that reached the
// service and was rejected. Status carries the HTTP status, Code the
// machine-readable error code from the response body when present.
type APIError struct {
	Op      string // operation, e.g. "create task"
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d (%s): %s", e.Op, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// IsNotFound reports whether err means the targeted entity no longer exists
// on the server, so a UI can say "already removed" instead of a generic
// failure.
func IsNotFound(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Status == http.StatusNotFound || ae.Code == "not_found"
}

// decodeAPIError drains a non-2xx response into an *APIError. The body is
// best-effort: services reply {code, message} but a bare status is enough.
func decodeAPIError(op string, resp *http.Response) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{Op: op, Status: resp.StatusCode, Code: body.Code, Message: body.Message}
}

// --------------------------------------------------------------------
// Validation errors
// --------------------------------------------------------------------

// ValidationError rejects caller-constructed input before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local input-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
