package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/wordfinding-api/internal/api/shared"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"github.com/phrazzld/wordfinding-api/internal/mocks"
	"github.com/phrazzld/wordfinding-api/internal/service/auth"
	"github.com/phrazzld/wordfinding-api/internal/service/authoring"
	"github.com/phrazzld/wordfinding-api/internal/service/turn"
	"github.com/phrazzld/wordfinding-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type turnServiceFunc func(ctx context.Context, req turn.Request) (*turn.Response, error)

func (f turnServiceFunc) Handle(ctx context.Context, req turn.Request) (*turn.Response, error) {
	return f(ctx, req)
}

type authenticatorFunc func(ctx context.Context, username, password string) (*auth.Token, error)

func (f authenticatorFunc) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	return f(ctx, username, password)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func TestHandleTurn(t *testing.T) {
	var got turn.Request
	svc := turnServiceFunc(func(_ context.Context, req turn.Request) (*turn.Response, error) {
		got = req
		return &turn.Response{Utterance: "Welcome to Verbs.", ContinuationToken: "question"}, nil
	})
	r := chi.NewRouter()
	r.Post("/api/turns", NewTurnHandler(svc).HandleTurn)

	rec := doRequest(t, r, http.MethodPost, "/api/turns", TurnRequest{UserID: "amzn1.user", Text: "yes"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TurnResponse](t, rec)
	assert.Equal(t, "Welcome to Verbs.", resp.Utterance)
	assert.Equal(t, "question", resp.ContinuationToken)
	assert.False(t, resp.Terminal)
	assert.Equal(t, turn.Request{UserID: "amzn1.user", Text: "yes"}, got)
}

func TestHandleTurnErrors(t *testing.T) {
	failing := turnServiceFunc(func(context.Context, turn.Request) (*turn.Response, error) {
		return nil, errors.New("database is locked")
	})
	r := chi.NewRouter()
	r.Post("/api/turns", NewTurnHandler(failing).HandleTurn)

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/turns", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/turns", `{"user_id":"u","mood":"happy"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/turns", TurnRequest{Text: "yes"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid user_id: required field", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("service failure is not leaked", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/turns", TurnRequest{UserID: "u"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Failed to process turn", body.Error)
	})
}

func TestLogin(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	authenticator := authenticatorFunc(func(_ context.Context, username, password string) (*auth.Token, error) {
		if username == "admin" && password == "correct horse" {
			return &auth.Token{Token: "signed", ExpiresAt: expires}, nil
		}
		return nil, auth.ErrInvalidCredentials
	})
	r := chi.NewRouter()
	r.Post("/api/admin/login", NewAuthHandler(authenticator).Login)

	t.Run("success", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/admin/login",
			LoginRequest{Username: "admin", Password: "correct horse"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[LoginResponse](t, rec)
		assert.Equal(t, "signed", resp.Token)
		assert.Equal(t, "2030-01-02T03:04:05Z", resp.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/admin/login",
			LoginRequest{Username: "admin", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid username or password", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("missing password", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/admin/login", LoginRequest{Username: "admin"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIndexAndHealth(t *testing.T) {
	r := chi.NewRouter()
	h := NewIndexHandler(nil)
	r.Get("/", h.Index)
	r.Get("/health", h.Health)

	rec := doRequest(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello world. You're at the word_finding index.", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[HealthResponse](t, rec).Status)
}

func TestHealthDatabaseDown(t *testing.T) {
	r := chi.NewRouter()
	h := NewIndexHandler(pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	r.Get("/health", h.Health)

	rec := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func newAdminRouter(t *testing.T, suggester generation.QuestionSuggester) http.Handler {
	t.Helper()
	db := testdb.Open(t)
	svc := authoring.NewService(db.DB, db.Stores(), suggester, testdb.QuietLogger())
	h := NewAdminHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/admin/exercises", h.ListExercises)
	r.Post("/api/admin/exercises", h.CreateExercise)
	r.Patch("/api/admin/exercises/{id}", h.UpdateExercise)
	r.Get("/api/admin/exercises/{id}/questions", h.ListQuestions)
	r.Post("/api/admin/exercises/{id}/questions", h.CreateQuestion)
	r.Post("/api/admin/exercises/{id}/suggestions", h.SuggestQuestions)
	r.Put("/api/admin/questions/{id}", h.UpdateQuestion)
	return r
}

func TestAdminExercises(t *testing.T) {
	r := newAdminRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/admin/exercises", CreateExerciseRequest{Name: "Verbs"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[ExerciseResponse](t, rec)
	assert.Equal(t, "Verbs", created.Name)
	assert.True(t, created.Enabled, "exercises are enabled unless stated otherwise")

	rec = doRequest(t, r, http.MethodPost, "/api/admin/exercises", CreateExerciseRequest{Name: "Verbs"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Exercise name already exists", decodeBody[shared.ErrorResponse](t, rec).Error)

	disabled := false
	rec = doRequest(t, r, http.MethodPatch, "/api/admin/exercises/"+created.ID.String(),
		UpdateExerciseRequest{Enabled: &disabled})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[ExerciseResponse](t, rec).Enabled)

	rec = doRequest(t, r, http.MethodGet, "/api/admin/exercises", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]ExerciseResponse](t, rec)
	require.Len(t, list, 1)
	assert.False(t, list[0].Enabled)
}

func TestAdminExerciseErrors(t *testing.T) {
	r := newAdminRouter(t, nil)
	enabled := true

	rec := doRequest(t, r, http.MethodPost, "/api/admin/exercises",
		CreateExerciseRequest{Name: "A name that is far too long for an exercise"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPatch, "/api/admin/exercises/not-a-uuid", UpdateExerciseRequest{Enabled: &enabled})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID", decodeBody[shared.ErrorResponse](t, rec).Error)

	rec = doRequest(t, r, http.MethodPatch, "/api/admin/exercises/7d5b2f8e-3c1a-4f5e-9b6d-0a1b2c3d4e5f",
		UpdateExerciseRequest{Enabled: &enabled})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Exercise not found", decodeBody[shared.ErrorResponse](t, rec).Error)

	rec = doRequest(t, r, http.MethodPatch, "/api/admin/exercises/7d5b2f8e-3c1a-4f5e-9b6d-0a1b2c3d4e5f", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "enabled is required")
}

func TestAdminQuestions(t *testing.T) {
	r := newAdminRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/admin/exercises", CreateExerciseRequest{Name: "Animals"})
	require.Equal(t, http.StatusCreated, rec.Code)
	exercise := decodeBody[ExerciseResponse](t, rec)
	questionsPath := "/api/admin/exercises/" + exercise.ID.String() + "/questions"

	rec = doRequest(t, r, http.MethodPost, questionsPath, CreateQuestionRequest{
		Prompt:           "What barks?",
		ResponseTemplate: "A BLANK barks.",
		Answer:           "dog, hound",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	question := decodeBody[QuestionResponse](t, rec)
	assert.Equal(t, exercise.ID, question.ExerciseID)
	assert.Equal(t, "dog, hound", question.Answer)
	assert.Equal(t, []string{"dog", "hound"}, question.AcceptedAnswers)

	rec = doRequest(t, r, http.MethodPost, questionsPath, CreateQuestionRequest{
		Prompt: "What barks?",
		Answer: "dog",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, r, http.MethodPost, questionsPath, CreateQuestionRequest{
		Prompt: "What meows?",
		Answer: "cat,kitten",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A comma must be followed by a single space", decodeBody[shared.ErrorResponse](t, rec).Error)

	rec = doRequest(t, r, http.MethodPut, "/api/admin/questions/"+question.ID.String(), UpdateQuestionRequest{
		Prompt:           "What barks loudly?",
		ResponseTemplate: "A BLANK barks loudly.",
		Answer:           "dog",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[QuestionResponse](t, rec)
	assert.Equal(t, "What barks loudly?", updated.Prompt)
	assert.Equal(t, []string{"dog"}, updated.AcceptedAnswers)

	rec = doRequest(t, r, http.MethodGet, questionsPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]QuestionResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, updated.ID, list[0].ID)

	rec = doRequest(t, r, http.MethodPut, "/api/admin/questions/7d5b2f8e-3c1a-4f5e-9b6d-0a1b2c3d4e5f",
		UpdateQuestionRequest{Prompt: "Anything?", Answer: "yes"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Question not found", decodeBody[shared.ErrorResponse](t, rec).Error)
}

func TestAdminSuggestions(t *testing.T) {
	suggester := &mocks.MockSuggester{Suggestions: []generation.Suggestion{
		{Prompt: "What purrs?", ResponseTemplate: "A BLANK purrs.", Answer: "cat"},
	}}
	r := newAdminRouter(t, suggester)

	rec := doRequest(t, r, http.MethodPost, "/api/admin/exercises", CreateExerciseRequest{Name: "Animals"})
	require.Equal(t, http.StatusCreated, rec.Code)
	exercise := decodeBody[ExerciseResponse](t, rec)
	path := "/api/admin/exercises/" + exercise.ID.String() + "/suggestions"

	rec = doRequest(t, r, http.MethodPost, path, SuggestionsRequest{Count: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[SuggestionsResponse](t, rec)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "What purrs?", resp.Suggestions[0].Prompt)

	requests := suggester.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Animals", requests[0].ExerciseName)
	assert.Equal(t, 3, requests[0].Count)

	rec = doRequest(t, r, http.MethodPost, path, SuggestionsRequest{Count: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	suggester.Suggestions = nil
	suggester.Err = generation.ErrContentBlocked
	rec = doRequest(t, r, http.MethodPost, path, SuggestionsRequest{Count: 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminSuggestionsDisabled(t *testing.T) {
	r := newAdminRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/admin/exercises", CreateExerciseRequest{Name: "Animals"})
	require.Equal(t, http.StatusCreated, rec.Code)
	exercise := decodeBody[ExerciseResponse](t, rec)

	rec = doRequest(t, r, http.MethodPost, "/api/admin/exercises/"+exercise.ID.String()+"/suggestions",
		SuggestionsRequest{Count: 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Question suggestions are not available", decodeBody[shared.ErrorResponse](t, rec).Error)
}
