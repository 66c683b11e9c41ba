package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wayfarerhq/wayfarer/pkg/httpx"
)

// Error codes returned by the auth service.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeBadAuthentication = "bad_authentication"
	ErrorCodeInvalidCode       = "invalid_code"
	ErrorCodeEmailTaken        = "email_taken"
	ErrorCodeServerError       = "server_error"
)

// APIError is the wire error shape of the auth service. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "bad_authentication")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter, includes an invalid value, or is otherwise malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrBadAuthentication covers every authentication failure: wrong
	// credentials, bad access tokens and bad refresh tokens alike. The
	// description deliberately carries no detail.
	ErrBadAuthentication = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeBadAuthentication,
		Description: "authentication failed",
	}

	// ErrInvalidCode is returned when a password reset code cannot be
	// redeemed, whatever the reason.
	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "the reset code is invalid",
	}

	// ErrEmailTaken is returned when registering with an address that
	// already has an account.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email address already exists",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates an APIError with a custom description while keeping
// the wire format consistent.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ErrorResponse is the decoded JSON body of a failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
