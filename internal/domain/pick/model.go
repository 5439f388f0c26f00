package pick

import (
	"errors"
	"time"
)

// NoPickTeam is reported when a player has no current pick for a week.
const NoPickTeam = "NOP"

var ErrConcurrentUpdate = errors.New("current pick changed concurrently")

type State string

const (
	StateNoPick     State = "no_pick"
	StatePending    State = "pending"
	StateLocked     State = "locked"
	StateSuperseded State = "superseded"
	StateScored     State = "scored"
)

// Pick is one submission. Among all rows of a (player, season, week) at most
// one carries a lock-in time; that row is the current pick.
type Pick struct {
	ID          int64
	PlayerID    int64
	Season      int
	Week        int
	TeamID      string
	SubmittedAt time.Time
	LockInAt    *time.Time
	ATS         *float64
}

// ATSResult assigns a scored value to a locked pick.
type ATSResult struct {
	PickID   int64
	PlayerID int64
	ATS      float64
}

func (p Pick) IsCurrent() bool {
	return p.LockInAt != nil
}

func (p Pick) IsLockedAt(now time.Time) bool {
	return p.LockInAt != nil && !now.Before(*p.LockInAt)
}

func (p Pick) StateAt(now time.Time) State {
	switch {
	case p.ID == 0 && p.TeamID == "":
		return StateNoPick
	case p.LockInAt == nil:
		return StateSuperseded
	case p.ATS != nil:
		return StateScored
	case p.IsLockedAt(now):
		return StateLocked
	default:
		return StatePending
	}
}

// Team returns the picked team or the no-pick sentinel.
func (p Pick) Team() string {
	if p.TeamID == "" {
		return NoPickTeam
	}
	return p.TeamID
}
