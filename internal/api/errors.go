package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/wordfinding-api/internal/api/shared"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/domain/answer"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"github.com/phrazzld/wordfinding-api/internal/service/auth"
	"github.com/phrazzld/wordfinding-api/internal/service/authoring"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// userFacingValidationErrors are validation failures whose own message is
// safe and useful to show to an author.
var userFacingValidationErrors = []error{
	answer.ErrEmptyAnswer,
	answer.ErrInvalidCharacters,
	answer.ErrCommaSpacing,
	answer.ErrDoubleSpace,
	domain.ErrExerciseNameEmpty,
	domain.ErrExerciseNameTooLong,
	domain.ErrPositionNegative,
	domain.ErrQuestionPromptEmpty,
	domain.ErrQuestionAnswersEmpty,
	domain.ErrEmptyExternalID,
	domain.ErrExternalIDTooLong,
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrWrongRole):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrInvalidRequest),
		isValidationError(err):
		return http.StatusBadRequest

	// Suggestion errors
	case errors.Is(err, authoring.ErrSuggestionsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrWrongRole):
		return "Forbidden"

	// Not found errors
	case errors.Is(err, store.ErrExerciseNotFound):
		return "Exercise not found"
	case errors.Is(err, store.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrExerciseNameExists):
		return "Exercise name already exists"
	case errors.Is(err, store.ErrPromptExists):
		return "Question prompt already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case isValidationError(err):
		return SanitizeValidationError(err)
	case errors.Is(err, domain.ErrValidation):
		return validationDetail(err)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid suggestion request"

	// Suggestion errors
	case errors.Is(err, authoring.ErrSuggestionsDisabled):
		return "Question suggestions are not available"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by content filters"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Question suggestion failed"

	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. defaultMsg replaces the
// generic message for internal server errors when it is not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func isValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// validationDetail returns the message of a known domain validation failure.
func validationDetail(err error) string {
	for _, known := range userFacingValidationErrors {
		if errors.Is(err, known) {
			msg := known.Error()
			return strings.ToUpper(msg[:1]) + msg[1:]
		}
	}
	return "Validation error"
}

// SanitizeValidationError turns request validation errors into a message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
