package shared

import "fmt"

// Error codes shared by every layer. The HTTP layer maps them to status codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInactiveEntity     = "INACTIVE_ENTITY"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRangeExhausted     = "RANGE_EXHAUSTED"
	CodeBusinessRule       = "BUSINESS_RULE_VIOLATION"
	CodePersistence        = "PERSISTENCE_FAILURE"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeDuplicateRecord    = "DUPLICATE_RECORD"
	CodeConcurrency        = "CONCURRENCY_CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeDuplicateRequest   = "DUPLICATE_REQUEST"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so a
// specific "product not found" still matches ErrNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError reports a missing entity by name and key.
func NewNotFoundError(entity string, key any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", entity, key))
}

// NewInactiveError reports an entity that exists but is flagged inactive.
func NewInactiveError(entity string, key any) *DomainError {
	return NewDomainError(CodeInactiveEntity, fmt.Sprintf("%s %v is inactive", entity, key))
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewBusinessRuleError reports a violated business rule.
func NewBusinessRuleError(format string, args ...any) *DomainError {
	return NewDomainError(CodeBusinessRule, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrRangeExhausted      = NewDomainError(CodeRangeExhausted, "Numbering range exhausted")
	ErrDuplicateRecord     = NewDomainError(CodeDuplicateRecord, "duplicate record")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "Request with this idempotency key was already processed")
)
