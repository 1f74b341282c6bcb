package libtc

import (
	"encoding/json"
	"io"
	"net/http"
)

// StatusExpiredAccessToken is the status code returned when the access token must be refreshed.
const StatusExpiredAccessToken = 498

// An Error reprensents an HTTP error returned by timecapsule server.
type Error struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseError(r io.Reader, code int) error {
	tcerr := Error{StatusCode: code}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&tcerr); err != nil {
		tcerr.Err.Message = http.StatusText(code)
	}
	return &tcerr
}

func (e *Error) Error() string {
	return e.Err.Message
}

// Validation returns true when the request has been rejected because of its content.
func (e *Error) Validation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

// NotFound returns true when the requested resource does not exist.
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Authentication returns true when the credentials are missing, invalid or expired.
func (e *Error) Authentication() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, StatusExpiredAccessToken:
		return true
	}
	return false
}
