package turn_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/events"
	"github.com/phrazzld/wordfinding-api/internal/platform/sqlstore"
	"github.com/phrazzld/wordfinding-api/internal/service/practice"
	"github.com/phrazzld/wordfinding-api/internal/service/turn"
	"github.com/phrazzld/wordfinding-api/internal/store"
	"github.com/phrazzld/wordfinding-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.ActivityEvent
}

func (r *recordingEmitter) EmitEvent(_ context.Context, e *events.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	t          *testing.T
	db         *sqlstore.DB
	stores     store.Stores
	controller *turn.Controller
	emitter    *recordingEmitter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testdb.Open(t)
	stores := db.Stores()
	emitter := &recordingEmitter{}
	return &harness{
		t:       t,
		db:      db,
		stores:  stores,
		emitter: emitter,
		controller: turn.NewController(db.DB, stores, practice.FirstPicker{}, emitter, 2,
			testdb.QuietLogger()),
	}
}

// exercise adds an exercise with questions given as prompt, template, answer text.
func (h *harness) exercise(name string, questions ...[3]string) *domain.Exercise {
	h.t.Helper()
	ctx := context.Background()

	n, err := h.stores.Exercises.Count(ctx)
	require.NoError(h.t, err)
	e, err := domain.NewExercise(name, true, n)
	require.NoError(h.t, err)
	require.NoError(h.t, h.stores.Exercises.Create(ctx, e))

	for i, q := range questions {
		question, err := domain.NewQuestion(e.ID, q[0], q[1], q[2], i)
		require.NoError(h.t, err)
		require.NoError(h.t, h.stores.Questions.Create(ctx, question))
	}
	return e
}

func (h *harness) turn(text, token string) *turn.Response {
	h.t.Helper()
	resp, err := h.controller.Handle(context.Background(), turn.Request{
		UserID:            "user-1",
		Text:              text,
		ContinuationToken: token,
	})
	require.NoError(h.t, err)
	require.NotNil(h.t, resp)
	return resp
}

func TestNewUserIsWelcomedWithFirstQuestion(t *testing.T) {
	h := newHarness(t)
	h.exercise("Colours", [3]string{"What's a pea?", "The colour of a pea is", "green"})

	resp := h.turn("", "")

	assert.Contains(t, resp.Utterance, "Welcome")
	assert.Contains(t, resp.Utterance, "What's a pea?")
	assert.Contains(t, resp.Utterance, "first question")
	assert.Empty(t, resp.ContinuationToken)
	assert.False(t, resp.Terminal)
}

func TestCorrectAnswerMovesToNextQuestion(t *testing.T) {
	h := newHarness(t)
	h.exercise("Household",
		[3]string{"You sit on a", "", "chair, seat"},
		[3]string{"You sleep in a", "", "bed"},
	)

	first := h.turn("", "")
	require.Contains(t, first.Utterance, "You sit on a")

	resp := h.turn("Seat", "")

	assert.Contains(t, resp.Utterance, "Correct! You sit on a Seat.")
	assert.Contains(t, resp.Utterance, "Next question: You sleep in a")
	assert.NotContains(t, resp.Utterance, "Try again")
	assert.Empty(t, resp.ContinuationToken)
}

func TestFinishingAndDecliningAnotherExercise(t *testing.T) {
	h := newHarness(t)
	h.exercise("Colours", [3]string{"What's a pea?", "The colour of a pea is", "green"})

	h.turn("", "")
	finished := h.turn("green", "")

	assert.Contains(t, finished.Utterance, "The colour of a pea is green.")
	assert.Contains(t, finished.Utterance, "finished")
	assert.Equal(t, turn.TokenAnotherExercise, finished.ContinuationToken)
	assert.False(t, finished.Terminal)

	bye := h.turn("no", finished.ContinuationToken)

	assert.Contains(t, bye.Utterance, "Goodbye")
	assert.Empty(t, bye.ContinuationToken)
	assert.True(t, bye.Terminal)

	assert.Equal(t, []string{
		events.TypeExerciseStarted,
		events.TypeAnswerSubmitted,
		events.TypeExerciseCompleted,
	}, h.emitter.types())
}

func TestAcceptingAnotherExercise(t *testing.T) {
	h := newHarness(t)
	h.exercise("Colours", [3]string{"What's a pea?", "", "green"})
	h.exercise("Animals", [3]string{"A dog says", "A dog says BLANK", "woof"})

	h.turn("", "")
	finished := h.turn("green", "")
	require.Equal(t, turn.TokenAnotherExercise, finished.ContinuationToken)

	resp := h.turn("  OK ", finished.ContinuationToken)

	assert.Contains(t, resp.Utterance, "Here's your first question: A dog says")
	assert.NotContains(t, resp.Utterance, "Welcome")
	assert.Empty(t, resp.ContinuationToken)

	resp = h.turn("woof", "")
	assert.Contains(t, resp.Utterance, "Correct! A dog says woof.")
}

func TestWrongAnswersRetryThenMoveOn(t *testing.T) {
	h := newHarness(t)
	h.exercise("Household",
		[3]string{"You sit on a", "", "chair, seat"},
		[3]string{"You sleep in a", "", "bed"},
	)
	h.turn("", "")

	retry := h.turn("table", "")
	assert.Equal(t, "That's not quite right. Try again. You sit on a", retry.Utterance)
	assert.Empty(t, retry.ContinuationToken)

	moveOn := h.turn("stool", "")
	assert.Contains(t, moveOn.Utterance, "That's not right. The answer was: You sit on a chair.")
	assert.Contains(t, moveOn.Utterance, "Let's move on.")
	assert.Contains(t, moveOn.Utterance, "Next question: You sleep in a")
}

func TestReturningUserWithoutOpenSession(t *testing.T) {
	h := newHarness(t)
	h.exercise("Colours", [3]string{"What's a pea?", "", "green"})

	h.turn("", "")
	finished := h.turn("green", "")
	require.Equal(t, turn.TokenAnotherExercise, finished.ContinuationToken)

	// The user comes back later without echoing the token.
	resp := h.turn("", "")

	assert.Contains(t, resp.Utterance, "Welcome back")
	assert.Contains(t, resp.Utterance, "Here's your first question: What's a pea?")
}

func TestInterruptedSessionIsResumed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.exercise("Household",
		[3]string{"You sit on a", "", "chair"},
		[3]string{"You sleep in a", "", "bed"},
	)

	h.turn("", "")
	h.turn("chair", "")

	// Drop the outstanding question as if the turn asking it had been lost.
	user, err := h.stores.Users.GetByExternalID(ctx, "user-1")
	require.NoError(t, err)
	open, err := h.stores.Sessions.ListOpenByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.NoError(t, open[0].ClearQuestion())
	require.NoError(t, h.stores.Sessions.Update(ctx, open[0]))

	resp := h.turn("", "")

	assert.Contains(t, resp.Utterance, "Welcome back.")
	assert.Contains(t, resp.Utterance, "Next question: You sleep in a")
}

func TestNoExercisesAvailable(t *testing.T) {
	h := newHarness(t)

	resp := h.turn("", "")

	assert.Contains(t, resp.Utterance, "no exercises available")
	assert.True(t, resp.Terminal)
	assert.Empty(t, resp.ContinuationToken)
}

// failingAttempts makes every attempt write fail.
type failingAttempts struct {
	store.AttemptStore
}

var errDiskFull = errors.New("disk full")

func (failingAttempts) Create(context.Context, *domain.Attempt) error { return errDiskFull }

func (f failingAttempts) WithTx(tx *sql.Tx) store.AttemptStore {
	return failingAttempts{AttemptStore: f.AttemptStore.WithTx(tx)}
}

func TestFatalErrorRollsBackTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.exercise("Colours", [3]string{"What's a pea?", "", "green"})
	h.turn("", "")

	broken := h.stores
	broken.Attempts = failingAttempts{AttemptStore: h.stores.Attempts}
	controller := turn.NewController(h.db.DB, broken, nil, h.emitter, 2, testdb.QuietLogger())
	before := len(h.emitter.types())

	resp, err := controller.Handle(ctx, turn.Request{UserID: "user-1", Text: "green"})

	require.ErrorIs(t, err, errDiskFull)
	assert.Nil(t, resp)
	assert.Len(t, h.emitter.types(), before, "no events for a failed turn")

	user, err := h.stores.Users.GetByExternalID(ctx, "user-1")
	require.NoError(t, err)
	open, err := h.stores.Sessions.ListOpenByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.NotNil(t, open[0].CurrentQuestionID, "session state is unchanged")
}

func TestInvalidUserIDIsRejected(t *testing.T) {
	h := newHarness(t)
	h.exercise("Colours", [3]string{"What's a pea?", "", "green"})

	_, err := h.controller.Handle(context.Background(), turn.Request{UserID: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPaddedUserIDIsOneUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.exercise("Colours",
		[3]string{"What's a pea?", "", "green"},
		[3]string{"What's the sky?", "", "blue"},
	)

	first, err := h.controller.Handle(ctx, turn.Request{UserID: " bob "})
	require.NoError(t, err)
	assert.Contains(t, first.Utterance, "Welcome to word finding practice.")

	second, err := h.controller.Handle(ctx, turn.Request{UserID: " bob", Text: "green"})
	require.NoError(t, err, "a padded id must find the user it registered")
	assert.Contains(t, second.Utterance, "Correct!")

	third, err := h.controller.Handle(ctx, turn.Request{UserID: "bob", Text: "blue"})
	require.NoError(t, err)
	assert.Contains(t, third.Utterance, "Correct!")

	user, err := h.stores.Users.GetByExternalID(ctx, "bob")
	require.NoError(t, err)
	sessions, err := h.stores.Sessions.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestTurnLogsCarryComponent(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := newHarness(t)
	h.controller = turn.NewController(h.db.DB, h.stores, practice.FirstPicker{}, h.emitter, 1, log)
	h.exercise("Colours", [3]string{"What's a pea?", "", "green"})

	h.turn("", "")
	h.turn("red", "")

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		switch entry["msg"] {
		case "question retries exhausted", "exercise finished":
			found = true
			assert.Equal(t, "turn_controller", entry["component"], "line: %s", line)
		}
	}
	assert.True(t, found, "expected retry and completion debug lines")
}
