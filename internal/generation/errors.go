package generation

import "errors"

// Common errors returned by suggester implementations.
var (
	// ErrGenerationFailed is returned when suggestion fails for any general reason.
	ErrGenerationFailed = errors.New("failed to suggest questions")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during question suggestion")

	// ErrInvalidConfig is returned when the suggester configuration is invalid.
	ErrInvalidConfig = errors.New("invalid suggester configuration")

	// ErrInvalidRequest is returned when a SuggestionRequest fails validation.
	ErrInvalidRequest = errors.New("invalid suggestion request")
)
