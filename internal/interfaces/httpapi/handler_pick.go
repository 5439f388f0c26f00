package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

// SubmitPick verifies the emailed token and runs the submission. Business
// rule rejections come back as 200 with accepted=false.
func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	var req submitPickRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.submitPick(ctx, w, req)
}

// SubmitPickLink serves the per-team links of the lines email. The
// submission is carried in the query string.
func (h *Handler) SubmitPickLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPickLink")
	defer span.End()

	playerID, err := queryInt64(r, "player_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := queryInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	h.submitPick(ctx, w, submitPickRequest{
		PlayerID: playerID,
		Week:     week,
		TeamID:   strings.TrimSpace(query.Get("team_id")),
		Token:    strings.TrimSpace(query.Get("token")),
	})
}

func (h *Handler) submitPick(ctx context.Context, w http.ResponseWriter, req submitPickRequest) {
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.tokens.Verify(ctx, req.PlayerID, req.Week, req.Token); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.picks.Submit(ctx, usecase.SubmitPickInput{
		PlayerID: req.PlayerID,
		Week:     req.Week,
		TeamID:   req.TeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "player_id", req.PlayerID, "week", req.Week, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, outcome)
}

func (h *Handler) GetCurrentPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentPick")
	defer span.End()

	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := pathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	current, err := h.picks.GetCurrent(ctx, playerID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get current pick failed", "player_id", playerID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, current)
}
