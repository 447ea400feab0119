package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/wordfinding-api/internal/generation"
)

// MockSuggester implements generation.QuestionSuggester for testing
type MockSuggester struct {
	// SuggestQuestionsFn allows test cases to mock the SuggestQuestions behavior
	SuggestQuestionsFn func(ctx context.Context, req generation.SuggestionRequest) ([]generation.Suggestion, error)

	// Default response values
	Suggestions []generation.Suggestion
	Err         error

	mu       sync.Mutex
	requests []generation.SuggestionRequest
}

var _ generation.QuestionSuggester = (*MockSuggester)(nil)

// SuggestQuestions implements the generation.QuestionSuggester interface
func (m *MockSuggester) SuggestQuestions(
	ctx context.Context,
	req generation.SuggestionRequest,
) ([]generation.Suggestion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.SuggestQuestionsFn != nil {
		return m.SuggestQuestionsFn(ctx, req)
	}
	return m.Suggestions, m.Err
}

// Requests returns the requests received so far.
func (m *MockSuggester) Requests() []generation.SuggestionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.SuggestionRequest(nil), m.requests...)
}
