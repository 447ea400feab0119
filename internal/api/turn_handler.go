package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/wordfinding-api/internal/api/shared"
	"github.com/phrazzld/wordfinding-api/internal/service/turn"
)

// TurnService runs one conversation turn.
type TurnService interface {
	Handle(ctx context.Context, req turn.Request) (*turn.Response, error)
}

// TurnHandler serves the voice assistant's turn endpoint.
type TurnHandler struct {
	turns TurnService
}

// NewTurnHandler creates a TurnHandler.
func NewTurnHandler(turns TurnService) *TurnHandler {
	return &TurnHandler{turns: turns}
}

// HandleTurn handles POST /api/turns.
func (h *TurnHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.turns.Handle(r.Context(), turn.Request{
		UserID:            req.UserID,
		Text:              req.Text,
		ContinuationToken: req.ContinuationToken,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process turn")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TurnResponse{
		Utterance:         resp.Utterance,
		ContinuationToken: resp.ContinuationToken,
		Terminal:          resp.Terminal,
	})
}
