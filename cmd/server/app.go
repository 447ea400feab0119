package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/wordfinding-api/internal/config"
	"github.com/phrazzld/wordfinding-api/internal/events"
	"github.com/phrazzld/wordfinding-api/internal/generation"
	"github.com/phrazzld/wordfinding-api/internal/platform/gemini"
	"github.com/phrazzld/wordfinding-api/internal/platform/sqlstore"
	"github.com/phrazzld/wordfinding-api/internal/redact"
	"github.com/phrazzld/wordfinding-api/internal/service/auth"
	"github.com/phrazzld/wordfinding-api/internal/service/authoring"
	"github.com/phrazzld/wordfinding-api/internal/service/practice"
	"github.com/phrazzld/wordfinding-api/internal/service/turn"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlstore.DB
	stores store.Stores

	eventEmitter  *events.InMemoryEventEmitter
	turns         *turn.Controller
	authoring     *authoring.Service
	jwtService    auth.JWTService
	authenticator *auth.Authenticator
}

// newApplication creates a new application instance with all dependencies
// initialized. db must already be migrated.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlstore.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		stores: db.Stores(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.authenticator = auth.NewAuthenticator(app.jwtService, auth.NewBcryptVerifier(), cfg.Auth, logger)
	logger.Info("admin authentication initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger))

	picker := practice.NewPicker(cfg.Practice.ExerciseOrder, cfg.Practice.RandomSeed)
	app.turns = turn.NewController(
		db.DB,
		app.stores,
		picker,
		app.eventEmitter,
		cfg.Practice.MaxAttempts,
		logger,
	)

	var suggester generation.QuestionSuggester
	if cfg.LLM.SuggestionsEnabled() {
		s, err := gemini.NewSuggester(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize question suggester: %w", err)
		}
		suggester = s
		logger.Info("question suggester initialized", slog.String("model", cfg.LLM.ModelName))
	} else {
		logger.Info("question suggestions disabled, no Gemini API key configured")
	}
	app.authoring = authoring.NewService(db.DB, app.stores, suggester, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
		}
	}

	app.logger.Info("application shutdown completed")
}
