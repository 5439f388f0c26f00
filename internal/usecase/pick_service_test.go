package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
)

func TestPickService_Submit_AcceptsAndSwapsCurrentPick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	got := env.submit(t, env.jane.ID, 7, "den")
	if !got.Accepted || got.TeamID != "DEN" || got.Line == nil || *got.Line != -7.5 {
		t.Fatalf("unexpected outcome: %+v", got)
	}
	if got.Message != "Your pick was updated successfully! Your week 7 pick is now DEN -7.5" {
		t.Fatalf("unexpected message: %q", got.Message)
	}

	got = env.submit(t, env.jane.ID, 7, "NYG")
	if !got.Accepted || *got.Line != 7.5 {
		t.Fatalf("unexpected swap outcome: %+v", got)
	}

	current, err := env.picks.GetCurrent(context.Background(), env.jane.ID, 7)
	if err != nil {
		t.Fatalf("GetCurrent error: %v", err)
	}
	if current.TeamID != "NYG" || current.State != pick.StatePending {
		t.Fatalf("unexpected current pick: %+v", current)
	}

	rows := 0
	currentRows := 0
	for _, item := range env.store.Picks() {
		if item.PlayerID != env.jane.ID || item.Week != 7 {
			continue
		}
		rows++
		if item.IsCurrent() {
			currentRows++
		}
	}
	if rows != 2 || currentRows != 1 {
		t.Fatalf("expected 2 rows with 1 current, got rows=%d current=%d", rows, currentRows)
	}

	sent := env.mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 confirmation emails, got %d", len(sent))
	}
	if sent[0].To[0] != "jane@example.com" || len(sent[0].Cc) != 1 || sent[0].Cc[0] != "commish@example.com" {
		t.Fatalf("unexpected confirmation recipients: to=%v cc=%v", sent[0].To, sent[0].Cc)
	}
	if !strings.Contains(sent[0].HTMLBody, "DEN -7.5") {
		t.Fatalf("expected the pick and line in the confirmation:\n%s", sent[0].HTMLBody)
	}
	if types := env.events.Types(); len(types) != 2 || types[0] != EventPickSubmitted {
		t.Fatalf("unexpected events: %v", types)
	}
}

func TestPickService_Submit_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(t *testing.T, env *testEnv)
		team    string
		reason  RejectReason
		message string
	}{
		{
			name:    "unchanged",
			prepare: func(t *testing.T, env *testEnv) { env.submit(t, env.jane.ID, 7, "KAN") },
			team:    "KAN",
			reason:  RejectUnchanged,
			message: "Your week 7 pick was already KAN -12",
		},
		{
			name:    "no line posted",
			team:    "PIT",
			reason:  RejectNoLine,
			message: "Pick PIT is off the board for week 7. Please select a different team.",
		},
		{
			name:    "team not playing",
			team:    "BUF",
			reason:  RejectNoLine,
			message: "Pick BUF is off the board for week 7. Please select a different team.",
		},
		{
			name:    "kickoff passed",
			prepare: func(t *testing.T, env *testEnv) { env.clock.Set(env.thursday) },
			team:    "CIN",
			reason:  RejectKickoffPassed,
			message: "Pick CIN is off the board for week 7. Kick off time has passed (Thu 10/16 08:15 PM).",
		},
		{
			name: "already locked",
			prepare: func(t *testing.T, env *testEnv) {
				lockIn := env.thursday
				env.store.PutPick(pick.Pick{PlayerID: env.jane.ID, Season: 2025, Week: 7, TeamID: "CIN", SubmittedAt: lockIn.Add(-time.Hour), LockInAt: &lockIn})
				env.clock.Set(env.thursday.Add(24 * time.Hour))
			},
			team:    "DEN",
			reason:  RejectLocked,
			message: "Your week 7 pick CIN OFF is already locked in, the game has started.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.prepare != nil {
				tc.prepare(t, env)
			}
			before := len(env.store.Picks())

			got := env.submit(t, env.jane.ID, 7, tc.team)
			if got.Accepted {
				t.Fatalf("expected rejection, got %+v", got)
			}
			if got.Reason != tc.reason {
				t.Fatalf("unexpected reason: got=%s want=%s", got.Reason, tc.reason)
			}
			if got.Message != tc.message {
				t.Fatalf("unexpected message:\n got=%q\nwant=%q", got.Message, tc.message)
			}
			if after := len(env.store.Picks()); after != before {
				t.Fatalf("rejection must not write picks: before=%d after=%d", before, after)
			}
		})
	}
}

func TestPickService_Submit_PendingPickSurvivesLateChange(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	first := env.submit(t, env.jane.ID, 7, "DEN")
	if !first.Accepted {
		t.Fatalf("expected DEN to be accepted, got %+v", first)
	}
	env.clock.Set(env.thursday.Add(time.Minute))

	got := env.submit(t, env.jane.ID, 7, "CIN")
	if got.Accepted || got.Reason != RejectKickoffPassed {
		t.Fatalf("expected kickoff rejection, got %+v", got)
	}

	current, err := env.picks.GetCurrent(ctx, env.jane.ID, 7)
	if err != nil {
		t.Fatalf("GetCurrent error: %v", err)
	}
	if current.TeamID != "DEN" || current.State != pick.StatePending {
		t.Fatalf("expected DEN to stay the pending pick, got %+v", current)
	}
	want := et(time.October, 19, 16, 5)
	if current.Pick == nil || current.Pick.LockInAt == nil || !current.Pick.LockInAt.Equal(want) {
		t.Fatalf("expected DEN lock-in %s to be kept, got %+v", want, current.Pick)
	}
}

func TestPickService_Submit_ValidationErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tests := []struct {
		name   string
		input  SubmitPickInput
		target error
	}{
		{name: "unknown team", input: SubmitPickInput{PlayerID: env.jane.ID, Week: 7, TeamID: "XXX"}, target: ErrInvalidInput},
		{name: "unregistered player", input: SubmitPickInput{PlayerID: env.alumn.ID, Week: 7, TeamID: "DEN"}, target: ErrInvalidInput},
		{name: "unknown player", input: SubmitPickInput{PlayerID: 999, Week: 7, TeamID: "DEN"}, target: ErrNotFound},
		{name: "week out of range", input: SubmitPickInput{PlayerID: env.jane.ID, Week: 23, TeamID: "DEN"}, target: ErrInvalidInput},
		{name: "week without games", input: SubmitPickInput{PlayerID: env.jane.ID, Week: 8, TeamID: "DEN"}, target: ErrInvalidInput},
	}
	for _, tc := range tests {
		if _, err := env.picks.Submit(context.Background(), tc.input); !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.target, err)
		}
	}
}

func TestPickService_Submit_MailFailureKeepsPick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp down")

	got := env.submit(t, env.john.ID, 7, "LVR")
	if !got.Accepted {
		t.Fatalf("expected accepted pick, got %+v", got)
	}
	current, err := env.picks.GetCurrent(context.Background(), env.john.ID, 7)
	if err != nil || current.TeamID != "LVR" {
		t.Fatalf("expected LVR to stay current, got %+v err=%v", current, err)
	}
}

func TestPickService_GetCurrent_NoPick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	got, err := env.picks.GetCurrent(context.Background(), env.jane.ID, 7)
	if err != nil {
		t.Fatalf("GetCurrent error: %v", err)
	}
	if got.TeamID != pick.NoPickTeam || got.State != pick.StateNoPick {
		t.Fatalf("unexpected placeholder: %+v", got)
	}
}

func TestBoardService_LinesMirror(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	for _, pair := range [][2]string{{"DEN", "NYG"}, {"LVR", "KAN"}} {
		home, ok, err := env.board.ResolveLine(ctx, pair[0], 7)
		if err != nil || !ok {
			t.Fatalf("resolve %s: ok=%t err=%v", pair[0], ok, err)
		}
		away, ok, err := env.board.ResolveLine(ctx, pair[1], 7)
		if err != nil || !ok {
			t.Fatalf("resolve %s: ok=%t err=%v", pair[1], ok, err)
		}
		if home+away != 0 {
			t.Fatalf("lines must mirror: %s=%v %s=%v", pair[0], home, pair[1], away)
		}
	}
	if _, ok, err := env.board.ResolveLine(ctx, "CIN", 7); err != nil || ok {
		t.Fatalf("expected no line for CIN: ok=%t err=%v", ok, err)
	}
}

func TestBoardService_KickoffTimeDuplicateGame(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	kickoff, ok, err := env.board.KickoffTime(ctx, "cin", 7)
	if err != nil || !ok || !kickoff.Equal(env.thursday) {
		t.Fatalf("unexpected kickoff: %v ok=%t err=%v", kickoff, ok, err)
	}

	env.store.PutGame(game.Game{Season: 2025, Week: 7, KickoffAt: env.sundayLate, HomeTeamID: "CIN", AwayTeamID: "BUF", HomeLine: float(1)})
	if _, _, err := env.board.KickoffTime(ctx, "CIN", 7); !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}
