package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/api/shared"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"github.com/phrazzld/wordfinding-api/internal/service/authoring"
)

// CatalogService is the authoring surface the admin routes use.
type CatalogService interface {
	CreateExercise(ctx context.Context, name string, enabled bool, position *int) (*domain.Exercise, error)
	SetExerciseEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]*domain.Exercise, error)
	CreateQuestion(ctx context.Context, exerciseID uuid.UUID, input authoring.QuestionInput) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, input authoring.QuestionInput) (*domain.Question, error)
	ListQuestions(ctx context.Context, exerciseID uuid.UUID) ([]*domain.Question, error)
	SuggestQuestions(ctx context.Context, exerciseID uuid.UUID, count int) ([]generation.Suggestion, error)
}

// AdminHandler serves the catalog administration routes.
type AdminHandler struct {
	catalog CatalogService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(catalog CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// ListExercises handles GET /api/admin/exercises.
func (h *AdminHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.catalog.ListExercises(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list exercises")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, exercisesToResponse(exercises))
}

// CreateExercise handles POST /api/admin/exercises.
func (h *AdminHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req CreateExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	exercise, err := h.catalog.CreateExercise(r.Context(), req.Name, enabled, req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create exercise")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, exerciseToResponse(exercise))
}

// UpdateExercise handles PATCH /api/admin/exercises/{id}.
func (h *AdminHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exercise, err := h.catalog.SetExerciseEnabled(r.Context(), id, *req.Enabled)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update exercise")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, exerciseToResponse(exercise))
}

// ListQuestions handles GET /api/admin/exercises/{id}/questions.
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	questions, err := h.catalog.ListQuestions(r.Context(), exerciseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list questions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, questionsToResponse(questions))
}

// CreateQuestion handles POST /api/admin/exercises/{id}/questions.
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	question, err := h.catalog.CreateQuestion(r.Context(), exerciseID, authoring.QuestionInput{
		Prompt:           req.Prompt,
		ResponseTemplate: req.ResponseTemplate,
		Answer:           req.Answer,
		Position:         req.Position,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create question")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, questionToResponse(question))
}

// UpdateQuestion handles PUT /api/admin/questions/{id}.
func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	question, err := h.catalog.UpdateQuestion(r.Context(), id, authoring.QuestionInput{
		Prompt:           req.Prompt,
		ResponseTemplate: req.ResponseTemplate,
		Answer:           req.Answer,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update question")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, questionToResponse(question))
}

// SuggestQuestions handles POST /api/admin/exercises/{id}/suggestions.
func (h *AdminHandler) SuggestQuestions(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SuggestionsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	suggestions, err := h.catalog.SuggestQuestions(r.Context(), exerciseID, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest questions")
		return
	}
	if suggestions == nil {
		suggestions = []generation.Suggestion{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
