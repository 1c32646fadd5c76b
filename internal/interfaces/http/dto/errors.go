package dto

import (
	"net/http"

	"github.com/supermercado/backend/internal/domain/shared"
)

// Error codes produced only by the HTTP layer
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeValidation   = shared.CodeValidation
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// from the table are entity rule violations and map to 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	shared.CodeNotFound: http.StatusNotFound,

	shared.CodeValidation:        http.StatusBadRequest,
	shared.CodeInactiveEntity:    http.StatusBadRequest,
	shared.CodeInsufficientStock: http.StatusBadRequest,
	shared.CodeRangeExhausted:    http.StatusBadRequest,
	shared.CodeBusinessRule:      http.StatusBadRequest,
	shared.CodePersistence:       http.StatusBadRequest,
	shared.CodeAlreadyExists:     http.StatusBadRequest,
	shared.CodeDuplicateRecord:   http.StatusBadRequest,
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeInvalidJSON:           http.StatusBadRequest,

	shared.CodeUnauthorized:       http.StatusUnauthorized,
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenRevoked:           http.StatusUnauthorized,
	ErrCodeTokenExpired:           http.StatusUnauthorized,

	shared.CodeForbidden: http.StatusForbidden,

	shared.CodeConcurrency:      http.StatusConflict,
	shared.CodeDuplicateRequest: http.StatusConflict,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
