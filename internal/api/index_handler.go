package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/wordfinding-api/internal/api/shared"
)

const indexText = "Hello world. You're at the word_finding index."

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// IndexHandler serves the index and health routes.
type IndexHandler struct {
	db Pinger
}

// NewIndexHandler creates an IndexHandler. db may be nil, in which case the
// health check does not touch the database.
func NewIndexHandler(db Pinger) *IndexHandler {
	return &IndexHandler{db: db}
}

// Index handles GET /.
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, indexText)
}

// Health handles GET /health.
func (h *IndexHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
