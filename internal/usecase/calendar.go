package usecase

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
)

const DefaultLeagueTimezone = "America/New_York"

// Calendar answers season and week questions relative to the league clock.
type Calendar struct {
	gameRepo game.Repository
	location *time.Location
	now      func() time.Time
}

func NewCalendar(gameRepo game.Repository, location *time.Location) *Calendar {
	if location == nil {
		location = mustLoadLocation(DefaultLeagueTimezone)
	}
	return &Calendar{
		gameRepo: gameRepo,
		location: location,
		now:      time.Now,
	}
}

func LoadLeagueLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultLeagueTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load league timezone %q: %w", name, err)
	}
	return loc, nil
}

func mustLoadLocation(name string) *time.Location {
	loc, err := LoadLeagueLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func (c *Calendar) Location() *time.Location {
	return c.location
}

func (c *Calendar) Now() time.Time {
	return c.now().In(c.location)
}

// Season returns the season year for the league clock.
func (c *Calendar) Season() int {
	return SeasonFor(c.Now())
}

// SeasonFor maps January through March onto the previous season.
func SeasonFor(t time.Time) int {
	if t.Month() <= time.March {
		return t.Year() - 1
	}
	return t.Year()
}

// WeekWindow returns the Wednesday-to-Wednesday window holding t.
func WeekWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	offset := (int(local.Weekday()) - int(time.Wednesday) + 7) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 7)
}

// CurrentWeek resolves the active week. ok is false when the window holds
// zero or several weeks.
func (c *Calendar) CurrentWeek(ctx context.Context) (int, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Calendar.CurrentWeek")
	defer span.End()

	now := c.Now()
	start, end := WeekWindow(now, c.location)
	weeks, err := c.gameRepo.ListWeeksBetween(ctx, SeasonFor(now), start, end)
	if err != nil {
		return 0, false, fmt.Errorf("list weeks between %s and %s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	if len(weeks) != 1 {
		return 0, false, nil
	}
	return weeks[0], true, nil
}

// DisplayTime renders an instant the way league emails show kickoffs.
func (c *Calendar) DisplayTime(t time.Time) string {
	return t.In(c.location).Format("Mon 01/02 03:04 PM")
}
