// ABOUTME: Typed API errors and helpers to classify them
// ABOUTME: Separates authorization failures from other server errors

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericErrorMessage is shown when the server gives no usable message
const GenericErrorMessage = "Something went wrong. Please try again."

// ErrorResponse is the JSON error body the backend may return
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string // server-provided message, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Message returns the text to show the user for err: the server's message
// when it sent one, the transport error for connectivity failures, and
// fallback otherwise.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = GenericErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return err.Error()
}

// extractMessage pulls a message out of a JSON or plain-text error body
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "{") {
		var resp ErrorResponse
		if err := json.Unmarshal(body, &resp); err == nil {
			switch {
			case resp.Message != "":
				return resp.Message
			case resp.Error != "":
				return resp.Error
			case resp.Details != "":
				return resp.Details
			}
		}
		return ""
	}

	// HTML error pages are noise to a terminal user
	if strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
