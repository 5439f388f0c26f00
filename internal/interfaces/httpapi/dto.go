package httpapi

import (
	"strconv"
	"time"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
)

type submitPickRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	Week     int    `json:"week" validate:"required,min=1,max=22"`
	TeamID   string `json:"team_id" validate:"required,min=2,max=3"`
	Token    string `json:"token" validate:"required,len=8"`
}

type registrationAnswerRequest struct {
	PlayerID int64  `validate:"required,gt=0"`
	Token    string `validate:"required,len=8"`
	Answer   string `validate:"required,oneof=yes no"`
}

type weekJobRequest struct {
	Week      *int `json:"week" validate:"omitempty,min=0,max=22"`
	SkipEmail bool `json:"skip_email"`
}

type kickoffPicksRequest struct {
	Week    int        `json:"week" validate:"required,min=1,max=22"`
	Kickoff *time.Time `json:"kickoff"`
}

type commissionerEmailRequest struct {
	MessageID int64 `json:"message_id" validate:"required,gt=0"`
}

type addPlayerRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Titles    int    `json:"titles" validate:"min=0"`
	IsRookie  bool   `json:"is_rookie"`
}

type setFlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

type standingDTO struct {
	Rank          int     `json:"rank"`
	PlayerID      int64   `json:"player_id"`
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Record        string  `json:"record"`
	WinPercentage float64 `json:"win_percentage"`
	WinPctDisplay string  `json:"win_percentage_display"`
	ATSPoints     float64 `json:"ats_points"`
	ThroughWeek   int     `json:"through_week"`
}

type currentWeekDTO struct {
	Season int    `json:"season"`
	Active bool   `json:"active"`
	Week   int    `json:"week,omitempty"`
	Label  string `json:"label,omitempty"`
}

type gameDTO struct {
	ID              int64     `json:"id"`
	Week            int       `json:"week"`
	KickoffAt       time.Time `json:"kickoff_at"`
	KickoffDisplay  string    `json:"kickoff_display"`
	HomeTeamID      string    `json:"home_team_id"`
	AwayTeamID      string    `json:"away_team_id"`
	HomeLine        *float64  `json:"home_line"`
	HomeLineDisplay string    `json:"home_line_display"`
	AwayLineDisplay string    `json:"away_line_display"`
	HomeScore       *int      `json:"home_score"`
	AwayScore       *int      `json:"away_score"`
	HomeATS         *float64  `json:"home_ats"`
	AwayATS         *float64  `json:"away_ats"`
}

type lineDTO struct {
	TeamID    string     `json:"team_id"`
	Week      int        `json:"week"`
	Line      *float64   `json:"line"`
	Display   string     `json:"display"`
	KickoffAt *time.Time `json:"kickoff_at"`
}

type playerDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Titles      int    `json:"titles"`
	IsRookie    bool   `json:"is_rookie"`
	Registered  bool   `json:"registered"`
	Paid        bool   `json:"paid"`
}

func standingsToDTO(items []standing.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for i, item := range items {
		out = append(out, standingDTO{
			Rank:          i + 1,
			PlayerID:      item.PlayerID,
			Name:          player.FormatFullName(item.FirstName, item.LastName, item.Titles, item.IsRookie),
			Wins:          item.Wins,
			Losses:        item.Losses,
			Record:        strconv.Itoa(item.Wins) + "-" + strconv.Itoa(item.Losses),
			WinPercentage: item.WinPercentage,
			WinPctDisplay: strconv.FormatFloat(item.WinPercentage, 'f', 3, 64),
			ATSPoints:     item.ATSPoints,
			ThroughWeek:   item.ThroughWeek,
		})
	}
	return out
}

func gameToDTO(item game.Game, display func(time.Time) string) gameDTO {
	out := gameDTO{
		ID:              item.ID,
		Week:            item.Week,
		KickoffAt:       item.KickoffAt,
		KickoffDisplay:  display(item.KickoffAt),
		HomeTeamID:      item.HomeTeamID,
		AwayTeamID:      item.AwayTeamID,
		HomeLine:        item.HomeLine,
		HomeScore:       item.HomeScore,
		AwayScore:       item.AwayScore,
		HomeATS:         item.HomeATS,
		AwayATS:         item.AwayATS,
		HomeLineDisplay: game.FormatOptionalLine(nil),
		AwayLineDisplay: game.FormatOptionalLine(nil),
	}
	if line, ok := item.LineFor(item.HomeTeamID); ok {
		out.HomeLineDisplay = game.FormatLine(line)
	}
	if line, ok := item.LineFor(item.AwayTeamID); ok {
		out.AwayLineDisplay = game.FormatLine(line)
	}
	return out
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:          item.ID,
		Email:       item.Email,
		FirstName:   item.FirstName,
		LastName:    item.LastName,
		DisplayName: item.FullName(),
		Titles:      item.Titles,
		IsRookie:    item.IsRookie,
		Registered:  item.Registered,
		Paid:        item.Paid,
	}
}

type dispatchDTO struct {
	DispatchID string    `json:"dispatch_id"`
	JobName    string    `json:"job_name"`
	Trigger    string    `json:"trigger"`
	Season     int       `json:"season"`
	Week       int       `json:"week"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
	TraceID    string    `json:"trace_id,omitempty"`
}

func dispatchesToDTO(items []jobscheduler.DispatchEvent) []dispatchDTO {
	out := make([]dispatchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dispatchDTO{
			DispatchID: item.DispatchID,
			JobName:    item.JobName,
			Trigger:    item.Trigger,
			Season:     item.Season,
			Week:       item.Week,
			Status:     string(item.Status),
			Error:      item.ErrorMessage,
			UpdatedAt:  item.OccurredAt,
			TraceID:    item.TraceID,
		})
	}
	return out
}
