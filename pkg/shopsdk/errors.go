package shopsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrLoginRequired is returned when the shop redirected an
	// authenticated call to the login page.
	ErrLoginRequired = errors.New("shopsdk: login required")

	// ErrRejected is returned when a form step did not advance, e.g. a
	// wrong password or OTP code. The shop reports the reason as a flash
	// on the page it redirected to.
	ErrRejected = errors.New("shopsdk: rejected")

	// ErrNotReady is returned with the report when /readyz answers 503.
	ErrNotReady = errors.New("shopsdk: not ready")
)

// APIError is a non-2xx answer from a JSON endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopsdk: %d: %s", e.StatusCode, e.Message)
}

func parseErrorResponse(status int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
