package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidRole is used when a role is outside the known vocabulary
	ErrCodeInvalidRole = "ERR_INVALID_ROLE"
	// ErrCodeInvalidTarget is used when a grant target is malformed or unknown
	ErrCodeInvalidTarget = "ERR_INVALID_TARGET"
	// ErrCodeInvalidGrantType is used when a grant type is unknown
	ErrCodeInvalidGrantType = "ERR_INVALID_GRANT_TYPE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeInvalidRole:      http.StatusBadRequest,
	ErrCodeInvalidTarget:    http.StatusBadRequest,
	ErrCodeInvalidGrantType: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to their API-facing form
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"ALREADY_EXISTS":     ErrCodeAlreadyExists,
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"INVALID_STATE":      ErrCodeInvalidState,
	"UNAUTHORIZED":       ErrCodeUnauthorized,
	"FORBIDDEN":          ErrCodeForbidden,
	"INVALID_ROLE":       ErrCodeInvalidRole,
	"INVALID_TARGET":     ErrCodeInvalidTarget,
	"INVALID_GRANT_TYPE": ErrCodeInvalidGrantType,
	"INTERNAL_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API-facing format.
// If the code is already in the API format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := domainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
