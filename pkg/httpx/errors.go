package httpx

import (
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of an error body.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"
	CodeUnsupportedToken  = "unsupported_token"
	CodeEmptyClaims       = "empty_claims"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeAlreadyTaken      = "already_taken"
	CodeInvalidCredential = "invalid_credentials"
	CodeServerError       = "server_error"
)

// APIError is the JSON error body returned by every endpoint. It is shared
// by the server (to write responses) and the client SDK (to decode them).
type APIError struct {
	// StatusCode is the HTTP status, not serialised.
	StatusCode int `json:"-"`

	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes e as a JSON body with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, e)
}

// WithMessage returns a copy of e with a different message.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

func NewAPIError(status int, code, msg string) *APIError {
	return &APIError{StatusCode: status, Code: code, Message: msg}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidRequest,
		Message:    "the request is malformed or missing required fields",
	}

	ErrMissingToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeInvalidToken,
		Message:    "missing bearer token",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeServerError,
		Message:    "internal server error",
	}
)
