package game

import (
	"strings"
	"time"
)

// Game is one scheduled matchup in a season week. Only the home line is
// stored; the away line is always derived from it.
type Game struct {
	ID         int64
	Season     int
	Week       int
	KickoffAt  time.Time
	HomeTeamID string
	AwayTeamID string
	HomeLine   *float64
	HomeScore  *int
	AwayScore  *int
	HomeATS    *float64
	AwayATS    *float64
}

// ATSResult is the scored outcome of one game for both sides.
type ATSResult struct {
	GameID  int64
	HomeATS float64
	AwayATS float64
}

func (g Game) Involves(teamID string) bool {
	teamID = strings.TrimSpace(teamID)
	return teamID != "" && (g.HomeTeamID == teamID || g.AwayTeamID == teamID)
}

func (g Game) IsHome(teamID string) bool {
	return g.HomeTeamID == strings.TrimSpace(teamID)
}

func (g Game) Opponent(teamID string) string {
	if g.IsHome(teamID) {
		return g.AwayTeamID
	}
	return g.HomeTeamID
}

// LineFor orients the posted line to the given team. The second return is
// false when the team is not in this game or no line is posted.
func (g Game) LineFor(teamID string) (float64, bool) {
	if g.HomeLine == nil || !g.Involves(teamID) {
		return 0, false
	}
	if g.IsHome(teamID) {
		return *g.HomeLine, true
	}
	return -*g.HomeLine, true
}

func (g Game) IsFinal() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

func (g Game) IsScored() bool {
	return g.HomeATS != nil && g.AwayATS != nil
}

func (g Game) ATSFor(teamID string) (float64, bool) {
	if !g.IsScored() || !g.Involves(teamID) {
		return 0, false
	}
	if g.IsHome(teamID) {
		return *g.HomeATS, true
	}
	return *g.AwayATS, true
}

func (g Game) HasStarted(now time.Time) bool {
	return !now.Before(g.KickoffAt)
}
