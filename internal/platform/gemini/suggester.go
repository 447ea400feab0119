package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the part of the genai client the suggester uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Suggester implements generation.QuestionSuggester using the Gemini API.
type Suggester struct {
	logger *slog.Logger
	config config.LLMConfig
	models contentGenerator
}

var _ generation.QuestionSuggester = (*Suggester)(nil)

// NewSuggester creates a Suggester with a Gemini API client built from cfg.
func NewSuggester(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Suggester, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newSuggester(logger, cfg, client.Models), nil
}

func newSuggester(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{
		logger: logger.With(slog.String("component", "gemini_suggester")),
		config: cfg,
		models: models,
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 || cfg.RetryDelaySeconds < 0 {
		return fmt.Errorf("%w: retry settings cannot be negative", generation.ErrInvalidConfig)
	}
	return nil
}

// SuggestQuestions drafts up to req.Count questions for an exercise.
func (s *Suggester) SuggestQuestions(
	ctx context.Context,
	req generation.SuggestionRequest,
) ([]generation.Suggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := s.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	response, err := decodeResponse(text)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable model response", slog.Int("length", len(text)))
		return nil, err
	}

	suggestions, err := filterSuggestions(ctx, s.logger, response, req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "questions suggested",
		slog.String("exercise", req.ExerciseName),
		slog.Int("requested", req.Count),
		slog.Int("returned", len(suggestions)))
	return suggestions, nil
}

// callWithRetry sends the prompt and returns the reply text. Transient
// failures are retried up to MaxRetries times with exponential backoff and
// jitter; blocked content and malformed replies are returned at once.
func (s *Suggester) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := s.config.MaxRetries
	baseDelay := time.Duration(s.config.RetryDelaySeconds) * time.Second

	genConfig := &genai.GenerateContentConfig{
		Temperature:      &s.config.Temperature,
		ResponseMIMEType: "application/json",
	}

	for attempt := 0; ; attempt++ {
		s.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		resp, err := s.models.GenerateContent(ctx, s.config.ModelName, genai.Text(prompt), genConfig)
		if err == nil {
			return responseText(resp)
		}

		if !isTransient(err) {
			s.logger.WarnContext(ctx, "permanent Gemini API error, not retrying",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}

		if attempt >= maxRetries {
			s.logger.WarnContext(ctx, "maximum retry attempts reached",
				slog.Int("max_retries", maxRetries),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt)) * (0.5 + rand.Float64()*0.5))
		s.logger.InfoContext(ctx, "retrying Gemini API call",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return b.String(), nil
}

// isTransient reports whether a failed call is worth repeating. Rate limits
// and server errors are; other API errors and cancellation are not. Errors
// that carry no status, such as network failures, are assumed transient.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	default:
		return true
	}
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
