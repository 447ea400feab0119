// Package gemini implements generation.QuestionSuggester with Google's Gemini
// API through the google.golang.org/genai client.
//
// A request is rendered into a prompt that asks for JSON output, sent with
// retry and exponential backoff for transient failures, and the reply is
// parsed into suggestions. Suggestions whose answer fails the authoring rules,
// or whose prompt repeats an existing one, are dropped before they reach the
// caller. Blocked content and malformed replies are never retried.
package gemini
