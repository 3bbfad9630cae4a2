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

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")

	// Inventory cost layer errors
	ErrIncompatibleUnits         = NewDomainError("INCOMPATIBLE_UNITS", "Units belong to different unit families")
	ErrInvalidLayer              = NewDomainError("INVALID_LAYER", "Layer quantity and unit cost must be non-negative")
	ErrInsufficientLayerQuantity = NewDomainError("INSUFFICIENT_LAYER_QUANTITY", "Layer does not hold enough remaining quantity")
	ErrInsufficientStock         = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDivisionByZero            = NewDomainError("DIVISION_BY_ZERO", "Unit conversion factor resolved to zero")
	ErrUnbalancedEntry           = NewDomainError("UNBALANCED_ENTRY", "Journal entry debits and credits do not balance")
)

// IsRetryable reports whether an error is a transient storage failure that the
// caller may safely retry. Domain errors are deterministic rejections and are
// never retryable; anything else (driver timeouts, lock contention surfaced by
// the storage layer) is assumed transient because the enclosing transaction was
// fully rolled back.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return false
	}
	return true
}
