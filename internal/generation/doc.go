// Package generation defines the boundary between catalog authoring and an
// external language model that drafts practice questions.
//
// The QuestionSuggester interface is implemented by internal/platform/gemini.
// Suggestions are drafts: callers validate them and an author decides which
// ones to save.
package generation
