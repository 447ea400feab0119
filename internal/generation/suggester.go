package generation

import (
	"context"
	"fmt"
	"strings"
)

// MaxSuggestions bounds the number of questions one request may ask for.
const MaxSuggestions = 10

// SuggestionRequest describes the questions an author wants drafted.
type SuggestionRequest struct {
	// ExerciseName gives the model the theme of the exercise.
	ExerciseName string
	// ExistingPrompts are the prompts already in the exercise. The model is
	// asked not to repeat them and suggestions that do are dropped.
	ExistingPrompts []string
	// Count is the number of suggestions wanted, 1..MaxSuggestions.
	Count int
}

// Validate checks the request before any model is called.
func (r SuggestionRequest) Validate() error {
	if strings.TrimSpace(r.ExerciseName) == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidRequest)
	}
	if r.Count < 1 || r.Count > MaxSuggestions {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxSuggestions)
	}
	return nil
}

// Suggestion is a drafted question. Answer holds authored answer text in the
// same form an author would type it.
type Suggestion struct {
	Prompt           string `json:"prompt"`
	ResponseTemplate string `json:"response_template"`
	Answer           string `json:"answer"`
}

// QuestionSuggester drafts practice questions for an exercise.
type QuestionSuggester interface {
	// SuggestQuestions returns at most req.Count suggestions whose answers pass
	// the authoring rules. It returns ErrInvalidResponse when none do.
	SuggestQuestions(ctx context.Context, req SuggestionRequest) ([]Suggestion, error)
}
