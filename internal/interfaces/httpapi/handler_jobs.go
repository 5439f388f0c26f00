package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/usecase"
)

type jobRunDTO struct {
	DispatchID string `json:"dispatch_id"`
	Result     any    `json:"result"`
}

func (h *Handler) RunWeeklyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWeeklyJob")
	defer span.End()

	var req weekJobRequest
	if err := h.decodeJobRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobs.RunWeekly(ctx, usecase.WeeklyJobInput{
		Week:      req.Week,
		Trigger:   usecase.TriggerManual,
		SkipEmail: req.SkipEmail,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run weekly job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunScoreWeekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreWeekJob")
	defer span.End()

	week, err := h.requiredWeek(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.runJob(ctx, w, jobscheduler.JobScoreWeek, week, func(ctx context.Context) (any, error) {
		return h.scoring.ScoreWeek(ctx, week)
	})
}

func (h *Handler) RunRecomputeStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeStandingsJob")
	defer span.End()

	week, err := h.requiredWeek(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.runJob(ctx, w, jobscheduler.JobStandings, week, func(ctx context.Context) (any, error) {
		return h.standings.Recompute(ctx, week)
	})
}

func (h *Handler) RunLinesEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLinesEmailJob")
	defer span.End()

	var req weekJobRequest
	if err := h.decodeJobRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Week == nil {
		report, err := h.jobs.SendCurrentLines(ctx, usecase.TriggerManual)
		if err != nil {
			h.logger.WarnContext(ctx, "lines email job failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, report)
		return
	}

	week := *req.Week
	h.runJob(ctx, w, jobscheduler.JobLinesEmail, week, func(ctx context.Context) (any, error) {
		return h.notifications.SendLines(ctx, week)
	})
}

func (h *Handler) RunKickoffPicksEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunKickoffPicksEmailJob")
	defer span.End()

	var req kickoffPicksRequest
	if err := h.decodeJobRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.runJob(ctx, w, jobscheduler.JobKickoffPicks, req.Week, func(ctx context.Context) (any, error) {
		return h.notifications.SendKickoffPicks(ctx, req.Week, req.Kickoff)
	})
}

func (h *Handler) RunRegistrationEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRegistrationEmailJob")
	defer span.End()

	h.runJob(ctx, w, jobscheduler.JobRegistration, 0, func(ctx context.Context) (any, error) {
		return h.notifications.SendRegistrationInvite(ctx)
	})
}

func (h *Handler) RunCommissionerEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCommissionerEmailJob")
	defer span.End()

	var req commissionerEmailRequest
	if err := h.decodeJobRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.runJob(ctx, w, jobscheduler.JobCommissioner, 0, func(ctx context.Context) (any, error) {
		return h.notifications.SendBroadcast(ctx, req.MessageID)
	})
}

func (h *Handler) RunAnalyticsEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAnalyticsEmailJob")
	defer span.End()

	h.runJob(ctx, w, jobscheduler.JobAnalytics, 0, func(ctx context.Context) (any, error) {
		return h.analytics.Send(ctx)
	})
}

// runJob records the run in the dispatch ledger and writes its result.
func (h *Handler) runJob(ctx context.Context, w http.ResponseWriter, jobName string, week int, fn func(ctx context.Context) (any, error)) {
	if h.jobs == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var result any
	dispatchID, err := h.jobs.Run(ctx, jobName, usecase.TriggerManual, week, func(ctx context.Context) error {
		var runErr error
		result, runErr = fn(ctx)
		return runErr
	})
	if err != nil {
		h.logger.WarnContext(ctx, "internal job failed", "job", jobName, "dispatch_id", dispatchID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, jobRunDTO{DispatchID: dispatchID, Result: result})
}

func (h *Handler) decodeJobRequest(ctx context.Context, r *http.Request, dst any) error {
	if err := decodeJSON(r, dst, true); err != nil {
		return err
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) requiredWeek(ctx context.Context, r *http.Request) (int, error) {
	var req weekJobRequest
	if err := h.decodeJobRequest(ctx, r, &req); err != nil {
		return 0, err
	}
	if req.Week == nil {
		return 0, fmt.Errorf("%w: week is required", usecase.ErrInvalidInput)
	}
	return *req.Week, nil
}

func (h *Handler) ListJobDispatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobDispatches")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer, got %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = value
	}

	events, err := h.jobs.RecentDispatches(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, dispatchesToDTO(events))
}
