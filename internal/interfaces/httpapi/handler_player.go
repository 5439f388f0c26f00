package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()

	var req addPlayerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.registration.AddPlayer(ctx, usecase.AddPlayerInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Titles:    req.Titles,
		IsRookie:  req.IsRookie,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

// RespondRegistration serves the yes and no links of the registration
// invite, authorized by the player's season registration token.
func (h *Handler) RespondRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RespondRegistration")
	defer span.End()

	playerID, err := queryInt64(r, "player_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	req := registrationAnswerRequest{
		PlayerID: playerID,
		Token:    strings.TrimSpace(query.Get("token")),
		Answer:   strings.ToLower(strings.TrimSpace(query.Get("answer"))),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.tokens.Verify(ctx, req.PlayerID, authtoken.RegistrationWeek, req.Token); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.registration.Respond(ctx, req.PlayerID, req.Answer)
	if err != nil {
		h.logger.WarnContext(ctx, "registration answer failed", "player_id", req.PlayerID, "answer", req.Answer, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

// ListPlayers serves the registered, paid and past-registered lists.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	var (
		items []player.Player
		err   error
	)
	switch list := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("list"))); list {
	case "", "registered":
		items, err = h.registration.ListRegistered(ctx)
	case "paid":
		items, err = h.registration.ListPaid(ctx)
	case "past-registered":
		items, err = h.registration.ListPastRegistered(ctx)
	default:
		err = fmt.Errorf("%w: unknown player list %q", usecase.ErrInvalidInput, list)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SetPlayerRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerRegistration")
	defer span.End()

	playerID, value, err := h.decodeFlagUpdate(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.registration.SetRegistration(ctx, playerID, value)
	if err != nil {
		h.logger.WarnContext(ctx, "set registration failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) SetPlayerPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerPayment")
	defer span.End()

	playerID, value, err := h.decodeFlagUpdate(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	updated, err := h.registration.SetPaid(ctx, playerID, value)
	if err != nil {
		h.logger.WarnContext(ctx, "set payment failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) decodeFlagUpdate(r *http.Request) (int64, bool, error) {
	playerID, err := pathInt64(r, "playerID")
	if err != nil {
		return 0, false, err
	}
	var req setFlagRequest
	if err := decodeJSON(r, &req, false); err != nil {
		return 0, false, err
	}
	if err := h.validateRequest(r.Context(), req); err != nil {
		return 0, false, err
	}
	return playerID, *req.Value, nil
}
