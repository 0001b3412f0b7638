package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for propagation and HTTP mapping.
type Kind string

const (
	// KindValidation marks a malformed or incomplete inbound request.
	KindValidation Kind = "validation"
	// KindConfiguration marks a missing credential or setting. Calls fail
	// fast with this kind before any network I/O is attempted.
	KindConfiguration Kind = "configuration"
	// KindProvider marks an upstream AI provider failure: a non-2xx
	// transport response, an error object embedded in a 2xx payload, or a
	// payload lacking the expected content shape.
	KindProvider Kind = "provider"
	// KindUnexpected marks any other runtime failure.
	KindUnexpected Kind = "unexpected"
)

// Error is the single error type crossing package boundaries. Provider
// failures carry the upstream code, status, and raw payload when available
// so handlers can surface diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Code    string // provider-supplied error code, if any
	Status  int    // upstream HTTP status, if any
	Raw     []byte // raw provider payload for diagnostics
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Configuration creates a configuration error.
func Configuration(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// Provider creates a provider error.
func Provider(message string) *Error {
	return &Error{Kind: KindProvider, Message: message}
}

// Unexpected wraps any other runtime failure.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "internal error", Err: err}
}

// WithCode attaches the provider-supplied error code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithStatus attaches the upstream HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithRaw attaches the raw provider payload.
func (e *Error) WithRaw(raw []byte) *Error {
	e.Raw = raw
	return e
}

// KindOf returns the kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// As extracts the *Error from err's chain.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code surfaced to the caller.
// Configuration errors become 503 so operational detail is not leaked;
// provider errors pass through the upstream status when one was recorded.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindProvider:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
