package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert pick: %w", &pq.Error{Code: "23505"}), want: true},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("isUniqueViolation() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("select: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("timeout")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestGameTableModel_ToDomain(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, time.October, 12, 17, 0, 0, 0, time.UTC)
	got := gameTableModel{
		ID:         4,
		Season:     2025,
		Week:       6,
		KickoffAt:  kickoff,
		HomeTeamID: "DEN",
		AwayTeamID: "NYJ",
		HomeLine:   sql.NullFloat64{Float64: -7, Valid: true},
		HomeScore:  sql.NullInt64{Int64: 13, Valid: true},
	}.toDomain()

	if got.HomeLine == nil || *got.HomeLine != -7 {
		t.Fatalf("unexpected home line: %v", got.HomeLine)
	}
	if got.HomeScore == nil || *got.HomeScore != 13 || got.AwayScore != nil {
		t.Fatalf("unexpected scores: home=%v away=%v", got.HomeScore, got.AwayScore)
	}
	if got.HomeATS != nil || got.AwayATS != nil {
		t.Fatalf("unscored game must not carry ats values")
	}
}

func TestDispatchModelFromEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

	t.Run("failed stamps error and failure columns", func(t *testing.T) {
		t.Parallel()
		model, err := dispatchModelFromEvent(jobscheduler.DispatchEvent{
			DispatchID:   " d-1 ",
			JobName:      jobscheduler.JobWeekly,
			Season:       2025,
			Week:         6,
			Status:       jobscheduler.StatusFailed,
			ErrorMessage: "score week=6: data integrity",
			TraceID:      "trace",
			Payload:      map[string]any{"week": 6},
		}, now)
		if err != nil {
			t.Fatalf("dispatchModelFromEvent error: %v", err)
		}
		if model.DispatchID != "d-1" || model.Trigger != "manual" {
			t.Fatalf("unexpected identity columns: %+v", model)
		}
		if model.FailedAt == nil || !model.FailedAt.Equal(now) || model.SentAt != nil {
			t.Fatalf("unexpected timestamps: %+v", model)
		}
		if model.LastError == nil || *model.LastError != "score week=6: data integrity" {
			t.Fatalf("unexpected last error: %v", model.LastError)
		}
		if model.FailedTraceID == nil || model.FailedSpanID != nil {
			t.Fatalf("unexpected trace columns: %+v", model)
		}
		if !strings.Contains(model.Payload, `"week":6`) {
			t.Fatalf("unexpected payload: %s", model.Payload)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()
		model, err := dispatchModelFromEvent(jobscheduler.DispatchEvent{DispatchID: "d-2", Status: jobscheduler.StatusSent}, now)
		if err != nil {
			t.Fatalf("dispatchModelFromEvent error: %v", err)
		}
		if model.Payload != "{}" || model.JobName != "unknown" || model.SentAt == nil {
			t.Fatalf("unexpected model: %+v", model)
		}
	})

	t.Run("rejects missing id and unknown status", func(t *testing.T) {
		t.Parallel()
		if _, err := dispatchModelFromEvent(jobscheduler.DispatchEvent{Status: jobscheduler.StatusSent}, now); err == nil {
			t.Fatalf("expected error for missing dispatch id")
		}
		if _, err := dispatchModelFromEvent(jobscheduler.DispatchEvent{DispatchID: "d-3", Status: "queued"}, now); err == nil {
			t.Fatalf("expected error for unknown status")
		}
	})
}
