package authoring

import (
	"errors"
	"fmt"
)

// ErrSuggestionsDisabled is returned by SuggestQuestions when no language
// model is configured.
var ErrSuggestionsDisabled = errors.New("question suggestions are not configured")

// ServiceError wraps errors from the authoring service with the operation
// that failed. Store and validation errors stay reachable through errors.Is.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authoring %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("authoring %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
