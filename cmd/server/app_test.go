package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/wordfinding-api/internal/api"
	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/phrazzld/wordfinding-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "correct horse battery staple"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: "file::memory:"},
		Auth: config.AuthConfig{
			JWTSecret:            "thisisasecretkeythatis32charslong!!",
			TokenLifetimeMinutes: 60,
			AdminUsername:        "admin",
			AdminPasswordHash:    string(hash),
		},
		Practice: config.PracticeConfig{MaxAttempts: 2, ExerciseOrder: "catalog"},
		LLM:      config.LLMConfig{ModelName: "gemini-2.0-flash"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testdb.Open(t)

	app, err := newApplication(context.Background(), testConfig(t), testdb.QuietLogger(), db)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestIndexAndHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello world. You're at the word_finding index.", sb.String())

	var health api.HealthResponse
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health.Status)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized,
		call(t, srv, http.MethodGet, "/api/admin/exercises", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized,
		call(t, srv, http.MethodGet, "/api/admin/exercises", "not-a-jwt", nil, nil))
	assert.Equal(t, http.StatusUnauthorized,
		call(t, srv, http.MethodPost, "/api/admin/login", "",
			api.LoginRequest{Username: "admin", Password: "wrong"}, nil))
}

// TestAuthorAndPractice authors a one-question exercise through the admin
// API and then practices it through the turn endpoint.
func TestAuthorAndPractice(t *testing.T) {
	srv := newTestServer(t)

	var login api.LoginResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/admin/login", "",
		api.LoginRequest{Username: "admin", Password: adminPassword}, &login))
	require.NotEmpty(t, login.Token)

	var exercise api.ExerciseResponse
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/admin/exercises", login.Token,
		api.CreateExerciseRequest{Name: "Animals"}, &exercise))

	var question api.QuestionResponse
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost,
		"/api/admin/exercises/"+exercise.ID.String()+"/questions", login.Token,
		api.CreateQuestionRequest{Prompt: "What barks?", ResponseTemplate: "A BLANK barks.", Answer: "dog"},
		&question))

	assert.Equal(t, http.StatusServiceUnavailable, call(t, srv, http.MethodPost,
		"/api/admin/exercises/"+exercise.ID.String()+"/suggestions", login.Token,
		api.SuggestionsRequest{Count: 1}, nil), "suggestions need a Gemini API key")

	var first api.TurnResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/turns", "",
		api.TurnRequest{UserID: "speaker-1"}, &first))
	assert.Contains(t, first.Utterance, "Welcome")
	assert.Contains(t, first.Utterance, "What barks?")
	assert.False(t, first.Terminal)

	var second api.TurnResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/turns", "",
		api.TurnRequest{UserID: "speaker-1", Text: "dog", ContinuationToken: first.ContinuationToken}, &second))
	assert.Contains(t, second.Utterance, "A dog barks.")
	assert.False(t, second.Terminal)

	var last api.TurnResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/turns", "",
		api.TurnRequest{UserID: "speaker-1", Text: "no", ContinuationToken: second.ContinuationToken}, &last))
	assert.True(t, last.Terminal)
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)

	var out bytes.Buffer
	require.NoError(t, runMigrations(ctx, db, "version", testdb.QuietLogger(), &out))
	assert.NotEqual(t, "0\n", out.String(), "the test database is fully migrated")

	out.Reset()
	require.NoError(t, runMigrations(ctx, db, "status", testdb.QuietLogger(), &out))
	assert.Contains(t, out.String(), "applied")
	assert.NotContains(t, out.String(), "pending")

	err := runMigrations(ctx, db, "sideways", testdb.QuietLogger(), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}
