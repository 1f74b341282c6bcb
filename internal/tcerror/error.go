package tcerror

import (
	"net/http"

	"github.com/pkg/errors"
)

// StatusExpiredAccessToken is the HTTP status code used when the access token must be refreshed.
const StatusExpiredAccessToken = 498

// A Kind classifies an error by how it must be handled.
type Kind int

// Error kinds.
const (
	// KindPersistence is a failed store call. It is retained for logging and shown as a transient failure.
	KindPersistence Kind = iota
	// KindValidation is a malformed or over-length input. Retrying will not help.
	KindValidation
	// KindNotFound is a failed draft or recipient resolution.
	KindNotFound
	// KindAuthentication is surfaced immediately and never retried.
	KindAuthentication
)

type (
	// An Error represents the error format that can be rendered by timecapsule server.
	Error struct {
		HTTPCode   int  `json:"-"`
		Kind       Kind `json:"-"`
		FieldError err  `json:"error"`
		cause      error
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.HTTPCode > 0 {
		return e.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new Error with the given message.
func New(message string) *Error {
	return &Error{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new Error with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *Error {
	e := &Error{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case http.StatusNotFound:
		e.Kind = KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden, StatusExpiredAccessToken:
		e.Kind = KindAuthentication
	}
	return e
}

// Validation returns a new validation Error.
func Validation(tag, message string) *Error {
	return NewWithTagCode(http.StatusUnprocessableEntity, tag, message)
}

// NotFound returns a new not found Error.
func NotFound(tag, message string) *Error {
	return NewWithTagCode(http.StatusNotFound, tag, message)
}

// Authentication returns a new authentication Error.
func Authentication(message string) *Error {
	return NewWithTagCode(http.StatusUnauthorized, "invalid-auth", message)
}

// Persistence wraps cause as a persistence Error.
func Persistence(cause error, message string) *Error {
	e := NewWithTagCode(http.StatusInternalServerError, "", message)
	e.cause = cause
	return e
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.FieldError.Message + ": " + e.cause.Error()
	}
	return e.FieldError.Message
}

// Cause returns the underlying error (github.com/pkg/errors causer).
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Validation returns true for validation errors.
func (e *Error) Validation() bool {
	return e.Kind == KindValidation
}

// NotFound returns true for not found errors.
func (e *Error) NotFound() bool {
	return e.Kind == KindNotFound
}

// Authentication returns true for authentication errors.
func (e *Error) Authentication() bool {
	return e.Kind == KindAuthentication
}

//
// Behaviour checks.
// They also classify errors coming from other packages (e.g. libtc) implementing the same methods.
//

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool {
	var v interface{ Validation() bool }
	return errors.As(err, &v) && v.Validation()
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	var v interface{ NotFound() bool }
	return errors.As(err, &v) && v.NotFound()
}

// IsAuthentication returns true if err is an authentication error.
func IsAuthentication(err error) bool {
	var v interface{ Authentication() bool }
	return errors.As(err, &v) && v.Authentication()
}

// IsPersistence returns true if err is neither a validation, a not found nor an authentication error.
func IsPersistence(err error) bool {
	return err != nil && !IsValidation(err) && !IsNotFound(err) && !IsAuthentication(err)
}
