package dto

import (
	"net/http"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Transport-level error codes, aligned with the domain codes so handlers
// can pass them straight through
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = shared.CodeInternal
	ErrCodeValidation = shared.CodeValidation
	ErrCodeConflict   = shared.CodeUniquenessConflict
	ErrCodeNotFound   = shared.CodeNotFound
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeConflict:   http.StatusConflict,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes it does not know.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
