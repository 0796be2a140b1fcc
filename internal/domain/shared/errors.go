package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error for malformed or missing input
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
	}
}

// Error codes shared across the ledger
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUniquenessConflict = "UNIQUENESS_CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound = NewDomainError(CodeNotFound, "Resource not found")

	// ErrUniquenessConflict signals that the storage layer rejected a duplicate
	// invoice number or natural key, typically due to a race between two
	// concurrent submissions. The whole transaction has been rolled back and
	// the operation may be retried.
	ErrUniquenessConflict = NewDomainError(CodeUniquenessConflict,
		"A conflicting record was written concurrently; the operation may be retried")
)

// IsValidation reports whether err is a validation domain error
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeValidation
}

// IsUniquenessConflict reports whether err is a uniqueness conflict
func IsUniquenessConflict(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeUniquenessConflict
}
