package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/wordfinding-api/internal/domain/answer"
	"github.com/phrazzld/wordfinding-api/internal/generation"
)

// ResponseSchema is the JSON document the model is asked to reply with.
type ResponseSchema struct {
	Questions []QuestionSchema `json:"questions"`
}

// QuestionSchema is one drafted question in the reply.
type QuestionSchema struct {
	Prompt           string `json:"prompt"`
	ResponseTemplate string `json:"response_template"`
	Answer           string `json:"answer"`
}

// decodeResponse parses the model's reply. Models sometimes wrap JSON in a
// markdown fence even when asked not to.
func decodeResponse(text string) (*ResponseSchema, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// filterSuggestions keeps the drafted questions an author could save as they
// are, up to req.Count. Prompts are compared without regard to case.
func filterSuggestions(
	ctx context.Context,
	logger *slog.Logger,
	response *ResponseSchema,
	req generation.SuggestionRequest,
) ([]generation.Suggestion, error) {
	if response == nil || len(response.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in response", generation.ErrInvalidResponse)
	}

	seen := make(map[string]bool, len(req.ExistingPrompts)+len(response.Questions))
	for _, p := range req.ExistingPrompts {
		seen[promptKey(p)] = true
	}

	suggestions := make([]generation.Suggestion, 0, req.Count)
	for i, q := range response.Questions {
		if len(suggestions) == req.Count {
			break
		}

		prompt := strings.TrimSpace(q.Prompt)
		if prompt == "" {
			logger.DebugContext(ctx, "dropping suggestion without prompt", slog.Int("index", i))
			continue
		}
		if seen[promptKey(prompt)] {
			logger.DebugContext(ctx, "dropping repeated prompt", slog.Int("index", i))
			continue
		}

		text, err := answer.Normalize(strings.TrimSpace(q.Answer))
		if err != nil {
			logger.DebugContext(ctx, "dropping suggestion with invalid answer",
				slog.Int("index", i),
				slog.String("reason", err.Error()))
			continue
		}

		seen[promptKey(prompt)] = true
		suggestions = append(suggestions, generation.Suggestion{
			Prompt:           prompt,
			ResponseTemplate: strings.TrimSpace(q.ResponseTemplate),
			Answer:           text,
		})
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in response", generation.ErrInvalidResponse)
	}
	return suggestions, nil
}

func promptKey(prompt string) string {
	return strings.ToLower(strings.TrimSpace(prompt))
}
