package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx response from the API. Detail carries the server's
// "detail" field when the body was parseable JSON, otherwise a body snippet.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	detail := strings.TrimSpace(e.Detail)
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, detail)
}

// NewStatusError builds a StatusError for the given code and detail text.
func NewStatusError(code int, detail string) *StatusError {
	return &StatusError{StatusCode: code, Detail: detail}
}

func statusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusForbidden
}

// IsPaymentRequired reports whether err is a 402 response.
func IsPaymentRequired(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusPaymentRequired
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusNotFound
}

// IsThrottled reports whether err is a 429 response.
func IsThrottled(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}
