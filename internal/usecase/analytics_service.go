package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/mailtemplate"
)

const (
	analyticsWorkers = 4
	// CareerFirstSeason is the first season counted in career records.
	CareerFirstSeason = 2018
	// CareerMinimumPicks keeps players with fewer decided picks, two
	// seasons' worth, out of the career table.
	CareerMinimumPicks = 42
)

type PickAnalytics struct {
	Week      int    `json:"week"`
	WeekLabel string `json:"week_label"`
	TeamID    string `json:"team_id"`
	Line      string `json:"line"`
	Class     string `json:"class"`
	ATS       string `json:"ats"`
	Result    string `json:"result"`
}

type TeamATSRecord struct {
	TeamID        string `json:"team_id"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	WinPercentage string `json:"win_percentage"`
	ratio         float64
}

// CareerRecord tallies a player's locked picks since CareerFirstSeason.
type CareerRecord struct {
	PlayerID      int64  `json:"player_id"`
	Name          string `json:"name"`
	Rank          int    `json:"rank,omitempty"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Favorites     int    `json:"favorites"`
	Underdogs     int    `json:"underdogs"`
	WinPercentage string `json:"win_percentage"`
	Highlight     bool   `json:"-"`
	ratio         float64
}

func (r CareerRecord) Decided() int {
	return r.Wins + r.Losses
}

// CareerSummary holds every player's career record and the ranked table of
// players with at least CareerMinimumPicks decided picks.
type CareerSummary struct {
	Records map[int64]CareerRecord
	Table   []CareerRecord
}

type PlayerReport struct {
	PlayerID     int64           `json:"player_id"`
	FirstName    string          `json:"first_name"`
	Email        string          `json:"-"`
	Season       int             `json:"season"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	Rank         int             `json:"rank"`
	TotalPlayers int             `json:"total_players"`
	Favorites    int             `json:"favorites"`
	Underdogs    int             `json:"underdogs"`
	PickEms      int             `json:"pick_ems"`
	Picks        []PickAnalytics `json:"picks"`
	Teams        []TeamATSRecord `json:"teams"`
	CareerSince  int             `json:"career_since"`
	Career       CareerRecord    `json:"career"`
	CareerTable  []CareerRecord  `json:"career_table"`
}

// AnalyticsService builds season reports for each paid player.
type AnalyticsService struct {
	gameRepo      game.Repository
	pickRepo      pick.Repository
	playerRepo    player.Repository
	board         *BoardService
	standings     *StandingsService
	notifications *NotificationService
	calendar      *Calendar
	renderer      *mailtemplate.Renderer
	logger        *logging.Logger
	now           func() time.Time
}

func NewAnalyticsService(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	playerRepo player.Repository,
	board *BoardService,
	standings *StandingsService,
	notifications *NotificationService,
	calendar *Calendar,
	renderer *mailtemplate.Renderer,
	logger *logging.Logger,
) *AnalyticsService {
	if renderer == nil {
		renderer = mailtemplate.MustNew()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalyticsService{
		gameRepo:      gameRepo,
		pickRepo:      pickRepo,
		playerRepo:    playerRepo,
		board:         board,
		standings:     standings,
		notifications: notifications,
		calendar:      calendar,
		renderer:      renderer,
		logger:        logger,
		now:           time.Now,
	}
}

// TeamRecords tallies every team's ATS record over the scored games.
func (s *AnalyticsService) TeamRecords(ctx context.Context) ([]TeamATSRecord, error) {
	games, err := s.gameRepo.ListScoredBySeason(ctx, s.calendar.Season())
	if err != nil {
		return nil, fmt.Errorf("list scored games: %w", err)
	}
	byTeam := make(map[string]*TeamATSRecord)
	record := func(teamID string, ats float64) {
		item, ok := byTeam[teamID]
		if !ok {
			item = &TeamATSRecord{TeamID: teamID}
			byTeam[teamID] = item
		}
		// A push does not cover.
		if game.Covered(ats) {
			item.Wins++
		} else {
			item.Losses++
		}
	}
	for _, item := range games {
		if !item.IsScored() {
			continue
		}
		record(item.HomeTeamID, *item.HomeATS)
		record(item.AwayTeamID, *item.AwayATS)
	}

	out := make([]TeamATSRecord, 0, len(byTeam))
	for _, item := range byTeam {
		if total := item.Wins + item.Losses; total > 0 {
			item.ratio = float64(item.Wins) / float64(total)
		}
		item.WinPercentage = fmt.Sprintf("%.3f", item.ratio)
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ratio != out[j].ratio {
			return out[i].ratio > out[j].ratio
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

type lineKey struct {
	season int
	week   int
	teamID string
}

// CareerRecords tallies every locked pick since CareerFirstSeason. Scored
// picks count as a win when they covered and a loss otherwise; the line at
// pick time decides Favorite or Underdog.
func (s *AnalyticsService) CareerRecords(ctx context.Context) (CareerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.CareerRecords")
	defer span.End()

	picks, err := s.pickRepo.ListLockedSince(ctx, CareerFirstSeason, s.now())
	if err != nil {
		return CareerSummary{}, fmt.Errorf("list career picks: %w", err)
	}

	lines := make(map[lineKey]*float64)
	byPlayer := make(map[int64]*CareerRecord)
	for _, p := range picks {
		record, ok := byPlayer[p.PlayerID]
		if !ok {
			record = &CareerRecord{PlayerID: p.PlayerID}
			byPlayer[p.PlayerID] = record
		}
		if p.ATS != nil {
			if game.Covered(*p.ATS) {
				record.Wins++
			} else {
				record.Losses++
			}
		}

		key := lineKey{season: p.Season, week: p.Week, teamID: p.TeamID}
		line, cached := lines[key]
		if !cached {
			line, err = s.seasonLine(ctx, key)
			if err != nil {
				return CareerSummary{}, err
			}
			lines[key] = line
		}
		if line == nil {
			continue
		}
		switch game.Classify(*line) {
		case game.ClassFavorite:
			record.Favorites++
		case game.ClassUnderdog:
			record.Underdogs++
		}
	}

	season := s.calendar.Season()
	summary := CareerSummary{Records: make(map[int64]CareerRecord, len(byPlayer))}
	for playerID, record := range byPlayer {
		if decided := record.Decided(); decided > 0 {
			record.ratio = float64(record.Wins) / float64(decided)
		}
		record.WinPercentage = fmt.Sprintf("%.1f%%", record.ratio*100)
		if profile, exists, err := s.playerRepo.GetByID(ctx, season, playerID); err != nil {
			return CareerSummary{}, fmt.Errorf("get player=%d: %w", playerID, err)
		} else if exists {
			record.Name = player.FormatFullName(profile.FirstName, profile.LastName, profile.Titles, profile.IsRookie)
		}
		summary.Records[playerID] = *record
		if record.Decided() >= CareerMinimumPicks {
			summary.Table = append(summary.Table, *record)
		}
	}
	sort.SliceStable(summary.Table, func(i, j int) bool {
		a, b := summary.Table[i], summary.Table[j]
		if a.ratio != b.ratio {
			return a.ratio > b.ratio
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.PlayerID < b.PlayerID
	})
	for i := range summary.Table {
		summary.Table[i].Rank = i + 1
	}
	return summary, nil
}

func (s *AnalyticsService) seasonLine(ctx context.Context, key lineKey) (*float64, error) {
	games, err := s.gameRepo.ListByTeamWeek(ctx, key.season, key.week, key.teamID)
	if err != nil {
		return nil, fmt.Errorf("list games season=%d week=%d team=%s: %w", key.season, key.week, key.teamID, err)
	}
	for _, item := range games {
		if line, ok := item.LineFor(key.teamID); ok {
			return &line, nil
		}
	}
	return nil, nil
}

// BuildReport assembles one player's pick breakdown.
func (s *AnalyticsService) BuildReport(ctx context.Context, item player.Player, table []standing.Standing, teams []TeamATSRecord, career CareerSummary) (PlayerReport, error) {
	season := s.calendar.Season()
	report := PlayerReport{
		PlayerID:     item.ID,
		FirstName:    item.FirstName,
		Email:        item.Email,
		Season:       season,
		TotalPlayers: len(table),
		Teams:        teams,
		CareerSince:  CareerFirstSeason,
		Career:       career.Records[item.ID],
		CareerTable:  make([]CareerRecord, len(career.Table)),
	}
	copy(report.CareerTable, career.Table)
	for i := range report.CareerTable {
		report.CareerTable[i].Highlight = report.CareerTable[i].PlayerID == item.ID
	}
	if report.Career.WinPercentage == "" {
		report.Career.WinPercentage = "0.0%"
	}
	for i, row := range table {
		if row.PlayerID == item.ID {
			report.Rank = i + 1
			report.Wins = row.Wins
			report.Losses = row.Losses
			break
		}
	}

	picks, err := s.pickRepo.ListCurrentByPlayer(ctx, season, item.ID, game.FinalWeek)
	if err != nil {
		return PlayerReport{}, fmt.Errorf("list picks for player=%d: %w", item.ID, err)
	}
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Week < picks[j].Week })

	now := s.now()
	for _, p := range picks {
		if !p.IsLockedAt(now) {
			continue
		}
		row := PickAnalytics{
			Week:      p.Week,
			WeekLabel: game.WeekLabel(p.Week),
			TeamID:    p.TeamID,
			Line:      "-",
			Class:     "-",
			ATS:       "-",
			Result:    "-",
		}
		line, ok, err := s.board.ResolveLine(ctx, p.TeamID, p.Week)
		if err != nil {
			return PlayerReport{}, err
		}
		if ok {
			class := game.Classify(line)
			row.Line = game.FormatLine(line)
			row.Class = string(class)
			switch class {
			case game.ClassFavorite:
				report.Favorites++
			case game.ClassUnderdog:
				report.Underdogs++
			default:
				report.PickEms++
			}
		}
		if p.ATS != nil {
			row.ATS = formatSigned(*p.ATS)
			switch {
			case *p.ATS > 0:
				row.Result = "Win"
			case *p.ATS < 0:
				row.Result = "Loss"
			default:
				row.Result = "Loss (Push)"
			}
		}
		report.Picks = append(report.Picks, row)
	}
	return report, nil
}

// Send builds every paid player's report in parallel and emails them.
func (s *AnalyticsService) Send(ctx context.Context) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.Send")
	defer span.End()

	teams, err := s.TeamRecords(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	table, err := s.standings.List(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	career, err := s.CareerRecords(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	recipients, err := s.playerRepo.ListPaid(ctx, s.calendar.Season())
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list paid players: %w", err)
	}

	workers := pool.NewWithResults[PlayerReport]().WithMaxGoroutines(analyticsWorkers).WithContext(ctx).WithCancelOnError()
	for _, recipient := range recipients {
		recipient := recipient
		workers.Go(func(ctx context.Context) (PlayerReport, error) {
			return s.BuildReport(ctx, recipient, table, teams, career)
		})
	}
	reports, err := workers.Wait()
	if err != nil {
		return DeliveryReport{}, err
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].PlayerID < reports[j].PlayerID })

	messages := make([]notification.Email, 0, len(reports))
	for _, report := range reports {
		body, err := s.renderer.Render(mailtemplate.Analytics, report)
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.notifications.message(notification.KindAnalytics, report.Email, fmt.Sprintf("LOTW: %d Season Analytics", report.Season), body))
	}
	s.logger.InfoContext(ctx, "analytics reports built", "players", len(reports))
	return s.notifications.Dispatch(ctx, notification.KindAnalytics, 0, messages)
}
