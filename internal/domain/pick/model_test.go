package pick

import (
	"testing"
	"time"
)

func TestPick_StateAt(t *testing.T) {
	kickoff := time.Date(2025, 10, 12, 17, 0, 0, 0, time.UTC)
	ats := 3.5

	tests := []struct {
		name string
		pick Pick
		now  time.Time
		want State
	}{
		{name: "empty pick", pick: Pick{}, now: kickoff, want: StateNoPick},
		{name: "before kickoff", pick: Pick{ID: 1, TeamID: "DEN", LockInAt: &kickoff}, now: kickoff.Add(-time.Minute), want: StatePending},
		{name: "at kickoff", pick: Pick{ID: 1, TeamID: "DEN", LockInAt: &kickoff}, now: kickoff, want: StateLocked},
		{name: "superseded", pick: Pick{ID: 1, TeamID: "DEN"}, now: kickoff, want: StateSuperseded},
		{name: "scored", pick: Pick{ID: 1, TeamID: "DEN", LockInAt: &kickoff, ATS: &ats}, now: kickoff.Add(time.Hour), want: StateScored},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pick.StateAt(tc.now); got != tc.want {
				t.Fatalf("StateAt()=%s want %s", got, tc.want)
			}
		})
	}
}

func TestPick_Team(t *testing.T) {
	if got := (Pick{}).Team(); got != NoPickTeam {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := (Pick{TeamID: "BUF"}).Team(); got != "BUF" {
		t.Fatalf("unexpected team %q", got)
	}
}
