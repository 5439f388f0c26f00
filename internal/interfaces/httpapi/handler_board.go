package httpapi

import (
	"net/http"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
)

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	week, ok, err := h.calendar.CurrentWeek(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolve current week failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := currentWeekDTO{Season: h.calendar.Season(), Active: ok}
	if ok {
		out.Week = week
		out.Label = game.WeekLabel(week)
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListWeekGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeekGames")
	defer span.End()

	week, err := pathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	games, err := h.board.ListWeek(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list week games failed", "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, item := range games {
		items = append(items, gameToDTO(item, h.calendar.DisplayTime))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLine")
	defer span.End()

	week, err := pathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID := team.NormalizeID(r.PathValue("teamID"))

	out := lineDTO{TeamID: teamID, Week: week, Display: game.FormatOptionalLine(nil)}
	line, ok, err := h.board.ResolveLine(ctx, teamID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve line failed", "team_id", teamID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}
	if ok {
		out.Line = &line
		out.Display = game.FormatLine(line)
	}
	kickoff, scheduled, err := h.board.KickoffTime(ctx, teamID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve kickoff failed", "team_id", teamID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}
	if scheduled {
		out.KickoffAt = &kickoff
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	items, err := h.standings.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}
