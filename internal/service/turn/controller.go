// Package turn implements the conversational turn controller. Each call to
// Controller.Handle runs one turn of the practice dialogue inside a single
// database transaction and produces the next utterance.
package turn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/wordfinding-api/internal/catalog"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/events"
	"github.com/phrazzld/wordfinding-api/internal/platform/logger"
	"github.com/phrazzld/wordfinding-api/internal/redact"
	"github.com/phrazzld/wordfinding-api/internal/service/practice"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// Request is one incoming turn.
type Request struct {
	UserID            string
	Text              string
	ContinuationToken string
}

// Response is the outcome of a turn. ContinuationToken must be echoed back
// with the next turn. Terminal means the conversation is over.
type Response struct {
	Utterance         string `json:"utterance"`
	ContinuationToken string `json:"continuation_token,omitempty"`
	Terminal          bool   `json:"terminal"`
}

// Controller runs turns.
type Controller struct {
	db          *sql.DB
	stores      store.Stores
	picker      practice.ExercisePicker
	emitter     events.EventEmitter
	maxAttempts int
	logger      *slog.Logger
}

// NewController creates a Controller. stores must be bound to db; they are
// rebound to each turn's transaction. A nil emitter discards activity events,
// and maxAttempts below 1 falls back to practice.DefaultMaxAttempts.
func NewController(
	db *sql.DB,
	stores store.Stores,
	picker practice.ExercisePicker,
	emitter events.EventEmitter,
	maxAttempts int,
	logger *slog.Logger,
) *Controller {
	if db == nil {
		panic("db cannot be nil")
	}
	if maxAttempts < 1 {
		maxAttempts = practice.DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		db:          db,
		stores:      stores,
		picker:      picker,
		emitter:     emitter,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "turn_controller")),
	}
}

// Handle runs one turn. On error nothing is persisted and no utterance is
// produced.
func (c *Controller) Handle(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	// The lock, the lookup and registration must all see the same identity.
	req.UserID = strings.TrimSpace(req.UserID)

	var (
		resp    *Response
		pending []*events.ActivityEvent
	)
	err := store.RunInStores(ctx, c.db, c.stores, func(ctx context.Context, tx store.Stores) error {
		if err := tx.Users.Lock(ctx, req.UserID); err != nil {
			return err
		}

		snapshot, err := catalog.Load(ctx, tx.Exercises, tx.Questions)
		if err != nil {
			return err
		}

		svc := practice.NewService(tx, snapshot, c.picker, c.logger)
		t := &turnState{svc: svc, maxAttempts: c.maxAttempts, log: log}
		if err := t.run(ctx, tx.Users, req); err != nil {
			return err
		}

		resp = t.response()
		pending = svc.Events()
		return nil
	})
	if err != nil {
		log.Error("turn failed", slog.String("error", redact.Error(err)))
		return nil, err
	}

	c.emit(ctx, pending)
	return resp, nil
}

func (c *Controller) emit(ctx context.Context, pending []*events.ActivityEvent) {
	if c.emitter == nil {
		return
	}
	for _, event := range pending {
		if err := c.emitter.EmitEvent(ctx, event); err != nil {
			logger.FromContextOrDefault(ctx, c.logger).Warn("failed to emit activity event",
				slog.String("event_type", event.Type),
				slog.String("error", err.Error()))
		}
	}
}

// framing selects how the next question is introduced.
type framing int

const (
	firstQuestion framing = iota
	nextQuestion
)

// turnState is the working state of a single turn.
type turnState struct {
	svc         *practice.Service
	maxAttempts int
	log         *slog.Logger

	user    *domain.User
	isNew   bool
	session *domain.Session

	parts    []string
	framing  framing
	token    string
	terminal bool
}

func (t *turnState) say(parts ...string) {
	t.parts = append(t.parts, parts...)
}

func (t *turnState) response() *Response {
	return &Response{
		Utterance:         strings.Join(t.parts, " "),
		ContinuationToken: t.token,
		Terminal:          t.terminal,
	}
}

func (t *turnState) run(ctx context.Context, users store.UserStore, req Request) error {
	if err := t.identify(ctx, users, req.UserID); err != nil {
		return err
	}

	if t.isNew {
		t.say(msgWelcome)
		return t.startAndAsk(ctx)
	}

	if req.ContinuationToken == TokenAnotherExercise {
		if isAffirmative(req.Text) {
			return t.startAndAsk(ctx)
		}
		t.say(msgGoodbye)
		t.terminal = true
		return nil
	}

	session, err := t.svc.OpenSession(ctx, t.user)
	if errors.Is(err, practice.ErrNoExerciseInProgress) {
		t.say(msgWelcomeBack)
		return t.startAndAsk(ctx)
	}
	if err != nil {
		return err
	}
	t.session = session

	if session.HasQuestion() {
		return t.answer(ctx, req.Text)
	}

	// The session was opened but the turn that should have asked its next
	// question never completed.
	t.say(msgWelcomeBack)
	answered, err := t.svc.HasAttempts(ctx, session)
	if err != nil {
		return err
	}
	if answered {
		t.framing = nextQuestion
	}
	return t.ask(ctx)
}

// identify loads the user, registering them on their first turn.
func (t *turnState) identify(ctx context.Context, users store.UserStore, externalID string) error {
	user, err := users.GetByExternalID(ctx, externalID)
	if err == nil {
		t.user = user
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	user, err = domain.NewUser(externalID)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	t.user = user
	t.isNew = true
	return nil
}

func (t *turnState) startAndAsk(ctx context.Context) error {
	session, err := t.svc.StartNewExercise(ctx, t.user)
	if errors.Is(err, practice.ErrNoExercisesAvailable) {
		t.say(msgNoExercises)
		t.terminal = true
		return nil
	}
	if err != nil {
		return err
	}

	t.session = session
	t.framing = firstQuestion
	return t.ask(ctx)
}

func (t *turnState) ask(ctx context.Context) error {
	q, err := t.svc.NextQuestion(ctx, t.session)
	if errors.Is(err, practice.ErrNoQuestionsRemaining) {
		t.log.Debug("exercise finished",
			slog.String("session_id", t.session.ID.String()))
		if _, err := t.svc.CompleteExercise(ctx, t.user); err != nil {
			return err
		}
		t.say(msgFinished)
		t.token = TokenAnotherExercise
		return nil
	}
	if err != nil {
		return err
	}

	switch t.framing {
	case firstQuestion:
		t.say(msgFirstQuestion, q.Prompt)
	default:
		t.say(msgNextQuestion, q.Prompt)
	}
	return nil
}

func (t *turnState) answer(ctx context.Context, text string) error {
	q, err := t.svc.CurrentQuestion(t.session)
	if err != nil {
		return err
	}

	correct, err := t.svc.CheckAnswer(ctx, t.session, text)
	if err != nil {
		return err
	}
	if correct {
		t.say(msgCorrect, q.ModelAnswer(text, true)+".")
		return t.moveOn(ctx)
	}

	prompt, err := t.svc.RetryQuestion(ctx, t.session, t.maxAttempts)
	if err == nil {
		t.say(msgTryAgain, prompt)
		return nil
	}
	if !errors.Is(err, practice.ErrMaxQuestionRetriesReached) {
		return err
	}

	t.log.Debug("question retries exhausted",
		slog.String("session_id", t.session.ID.String()),
		slog.String("question_id", q.ID.String()))
	t.say(msgAnswerWas, q.ModelAnswer(text, false)+".", msgMoveOn)
	return t.moveOn(ctx)
}

func (t *turnState) moveOn(ctx context.Context) error {
	if err := t.svc.ResetCurrentQuestion(ctx, t.session); err != nil {
		return err
	}
	t.framing = nextQuestion
	return t.ask(ctx)
}

func isAffirmative(text string) bool {
	_, ok := affirmatives[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
