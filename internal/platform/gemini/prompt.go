package gemini

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/phrazzld/wordfinding-api/internal/domain/answer"
	"github.com/phrazzld/wordfinding-api/internal/generation"
)

const promptText = `You write practice questions for adults recovering their word-finding skills.
The exercise is called "{{.ExerciseName}}". Write {{.Count}} new questions for it.

Each question has:
- "prompt": a short question or sentence that leads to one word.
- "response_template": the full answer sentence with the word replaced by {{.Blank}}, or "" when the answer stands alone.
- "answer": the accepted answers in lower case, letters and spaces only, alternatives separated by ", ".
{{- if .ExistingPrompts}}

Do not repeat any of these prompts:
{{- range .ExistingPrompts}}
- {{.}}
{{- end}}
{{- end}}

Reply with JSON only, in the form {"questions": [{"prompt": "", "response_template": "", "answer": ""}]}.
`

// promptData is the data passed to the prompt template.
type promptData struct {
	ExerciseName    string
	Count           int
	ExistingPrompts []string
	Blank           string
}

var promptTemplate = template.Must(template.New("suggest").Parse(promptText))

// buildPrompt renders the prompt for a validated request.
func buildPrompt(req generation.SuggestionRequest) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		ExerciseName:    req.ExerciseName,
		Count:           req.Count,
		ExistingPrompts: req.ExistingPrompts,
		Blank:           answer.BlankToken,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to render prompt: %v", generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}
