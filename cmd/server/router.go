package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/wordfinding-api/internal/api"
	apiMiddleware "github.com/phrazzld/wordfinding-api/internal/api/middleware"
)

// requestTimeout bounds a single request, including any model call made
// for question suggestions.
const requestTimeout = 60 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	indexHandler := api.NewIndexHandler(app.db)
	turnHandler := api.NewTurnHandler(app.turns)
	authHandler := api.NewAuthHandler(app.authenticator)
	adminHandler := api.NewAdminHandler(app.authoring)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/", indexHandler.Index)
	r.Get("/health", indexHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/turns", turnHandler.HandleTurn)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)

				r.Get("/exercises", adminHandler.ListExercises)
				r.Post("/exercises", adminHandler.CreateExercise)
				r.Patch("/exercises/{id}", adminHandler.UpdateExercise)
				r.Get("/exercises/{id}/questions", adminHandler.ListQuestions)
				r.Post("/exercises/{id}/questions", adminHandler.CreateQuestion)
				r.Post("/exercises/{id}/suggestions", adminHandler.SuggestQuestions)
				r.Put("/questions/{id}", adminHandler.UpdateQuestion)
			})
		})
	})

	return r
}
