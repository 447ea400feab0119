// Package answer implements the rules for authored answer text and the
// evaluation of submitted answers against a question's accepted answers.
//
// Authored answer text is a lower-case list of alternatives separated by
// ", " (for example "good, correct"). Each alternative is matched on its own;
// the joined text is never itself an accepted answer.
package answer

import (
	"errors"
	"strings"
)

// Separator splits alternatives in authored answer text.
const Separator = ", "

// BlankToken marks the position of the answer inside a response template.
const BlankToken = "BLANK"

// Authoring errors returned by Parse.
var (
	// ErrEmptyAnswer is returned when the answer text is empty.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrInvalidCharacters is returned when the answer contains anything other
	// than lower-case letters, commas and spaces.
	ErrInvalidCharacters = errors.New("answer may only contain letters, commas and spaces")

	// ErrCommaSpacing is returned when a comma is not followed by exactly one space.
	ErrCommaSpacing = errors.New("a comma must be followed by a single space")

	// ErrDoubleSpace is returned when two spaces occur next to each other.
	ErrDoubleSpace = errors.New("answer cannot contain consecutive spaces")
)

// Normalize lower-cases raw answer text and checks it against the authoring
// rules. It returns the normalized text suitable for storage.
func Normalize(raw string) (string, error) {
	text := strings.ToLower(raw)
	if text == "" {
		return "", ErrEmptyAnswer
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c == ' ':
			if i+1 < len(text) && text[i+1] == ' ' {
				return "", ErrDoubleSpace
			}
		case c == ',':
			if i+1 >= len(text) || text[i+1] != ' ' {
				return "", ErrCommaSpacing
			}
		default:
			return "", ErrInvalidCharacters
		}
	}

	return text, nil
}

// Parse validates raw answer text and splits it into its accepted answers.
// Order is preserved; the first entry is the default answer.
func Parse(raw string) ([]string, error) {
	text, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, Separator), nil
}

// Join is the inverse of Parse for a valid set of accepted answers.
func Join(accepted []string) string {
	return strings.Join(accepted, Separator)
}

// Evaluate reports whether submitted matches any single accepted answer,
// ignoring case and surrounding whitespace. An empty submission never matches.
func Evaluate(accepted []string, submitted string) bool {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return false
	}

	for _, a := range accepted {
		if strings.EqualFold(strings.TrimSpace(a), submitted) {
			return true
		}
	}
	return false
}

// ModelAnswer renders the full-sentence answer for a question. When the
// template contains BlankToken the chosen answer replaces it. Otherwise the
// answer is appended to the template, or to the prompt when the template is
// empty, separated by a single space. The caller adds any terminator.
func ModelAnswer(prompt, template, chosen string) string {
	if strings.Contains(template, BlankToken) {
		return strings.ReplaceAll(template, BlankToken, chosen)
	}

	base := template
	if base == "" {
		base = prompt
	}
	return base + " " + chosen
}
