package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/bulletin"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/mailtemplate"
)

const (
	noPickDisplay   = "NO PICK"
	offBoardDisplay = "OFF"
)

type NotificationConfig struct {
	CommissionerEmail string
	CommissionerName  string
	PublicBaseURL     string
	Workers           int
}

type DeliveryReport struct {
	Kind      string `json:"kind"`
	Week      int    `json:"week,omitempty"`
	Attempted int    `json:"attempted"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
}

// NotificationService renders league emails and fans them out to players.
type NotificationService struct {
	playerRepo   player.Repository
	pickRepo     pick.Repository
	bulletinRepo bulletin.Repository
	board        *BoardService
	picks        *PickService
	standings    *StandingsService
	tokens       *TokenService
	calendar     *Calendar
	renderer     *mailtemplate.Renderer
	mailer       Mailer
	archiver     Archiver
	cfg          NotificationConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewNotificationService(
	playerRepo player.Repository,
	pickRepo pick.Repository,
	bulletinRepo bulletin.Repository,
	board *BoardService,
	standings *StandingsService,
	tokens *TokenService,
	calendar *Calendar,
	renderer *mailtemplate.Renderer,
	mailer Mailer,
	archiver Archiver,
	cfg NotificationConfig,
	logger *logging.Logger,
) *NotificationService {
	if mailer == nil {
		mailer = NewNoopMailer()
	}
	if archiver == nil {
		archiver = NewNoopArchiver()
	}
	if renderer == nil {
		renderer = mailtemplate.MustNew()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &NotificationService{
		playerRepo:   playerRepo,
		pickRepo:     pickRepo,
		bulletinRepo: bulletinRepo,
		board:        board,
		standings:    standings,
		tokens:       tokens,
		calendar:     calendar,
		renderer:     renderer,
		mailer:       mailer,
		archiver:     archiver,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// AttachPickService wires the pick reader used by kickoff emails. PickService
// itself depends on the notifier, so it is attached after construction.
func (s *NotificationService) AttachPickService(picks *PickService) {
	s.picks = picks
}

// NotifyPickAccepted emails the player with the commissioner copied.
func (s *NotificationService) NotifyPickAccepted(ctx context.Context, item player.Player, outcome PickOutcome) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.NotifyPickAccepted")
	defer span.End()

	teams, err := s.board.Teams(ctx)
	if err != nil {
		return err
	}
	body, err := s.renderer.Render(mailtemplate.PickConfirmation, map[string]any{
		"FirstName": item.FirstName,
		"Message":   outcome.Message,
		"WeekLabel": game.WeekLabel(outcome.Week),
		"TeamName":  teamDisplay(teams, outcome.TeamID),
		"Line":      game.FormatOptionalLine(outcome.Line),
	})
	if err != nil {
		return err
	}
	msg := s.message(notification.KindPickConfirmation, item.Email,
		fmt.Sprintf("LOTW: %s pick %s %s", game.WeekLabel(outcome.Week), outcome.TeamID, game.FormatOptionalLine(outcome.Line)), body)
	msg.Cc = []string{s.cfg.CommissionerEmail}
	_, err = s.Dispatch(ctx, notification.KindPickConfirmation, outcome.Week, []notification.Email{msg})
	return err
}

type lineRow struct {
	Kickoff     string
	AwayTeamID  string
	AwayTeam    string
	AwayLine    string
	AwayPickURL string
	HomeTeamID  string
	HomeTeam    string
	HomeLine    string
	HomePickURL string
}

// SendLines emails each paid player the week's board. Every team with a live
// line links to a tokenized pick of that team; lines show OFF once kickoff
// has passed.
func (s *NotificationService) SendLines(ctx context.Context, week int) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendLines")
	defer span.End()

	games, err := s.board.ListWeek(ctx, week)
	if err != nil {
		return DeliveryReport{}, err
	}
	if len(games) == 0 {
		return DeliveryReport{}, fmt.Errorf("%w: no games scheduled for week %d", ErrInvalidInput, week)
	}
	teams, err := s.board.Teams(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	now := s.now()
	rows := make([]lineRow, 0, len(games))
	for _, item := range games {
		homeLine, awayLine := offBoardDisplay, offBoardDisplay
		if !item.HasStarted(now) {
			if line, ok := item.LineFor(item.HomeTeamID); ok {
				homeLine = game.FormatLine(line)
			}
			if line, ok := item.LineFor(item.AwayTeamID); ok {
				awayLine = game.FormatLine(line)
			}
		}
		rows = append(rows, lineRow{
			Kickoff:    s.calendar.DisplayTime(item.KickoffAt),
			AwayTeamID: item.AwayTeamID,
			AwayTeam:   teamDisplay(teams, item.AwayTeamID),
			AwayLine:   awayLine,
			HomeTeamID: item.HomeTeamID,
			HomeTeam:   teamDisplay(teams, item.HomeTeamID),
			HomeLine:   homeLine,
		})
	}

	recipients, err := s.playerRepo.ListPaid(ctx, s.calendar.Season())
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list paid players: %w", err)
	}
	messages := make([]notification.Email, 0, len(recipients))
	for _, item := range recipients {
		token, err := s.tokens.Issue(ctx, item.ID, week)
		if err != nil {
			return DeliveryReport{}, err
		}
		personal := make([]lineRow, len(rows))
		copy(personal, rows)
		for i := range personal {
			if personal[i].AwayLine != offBoardDisplay {
				personal[i].AwayPickURL = s.pickURL(item.ID, week, personal[i].AwayTeamID, token.Value)
			}
			if personal[i].HomeLine != offBoardDisplay {
				personal[i].HomePickURL = s.pickURL(item.ID, week, personal[i].HomeTeamID, token.Value)
			}
		}
		currentPick := noPickDisplay
		if current, ok, err := s.pickRepo.GetCurrent(ctx, s.calendar.Season(), item.ID, week); err != nil {
			return DeliveryReport{}, fmt.Errorf("get current pick player=%d: %w", item.ID, err)
		} else if ok {
			currentPick = current.TeamID
		}
		body, err := s.renderer.Render(mailtemplate.Lines, map[string]any{
			"FirstName":   item.FirstName,
			"WeekLabel":   game.WeekLabel(week),
			"CurrentPick": currentPick,
			"Rows":        personal,
		})
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.message(notification.KindLines, item.Email, fmt.Sprintf("LOTW: %s Lines", game.WeekLabel(week)), body))
	}
	return s.Dispatch(ctx, notification.KindLines, week, messages)
}

type kickoffRow struct {
	PlayerID  int64
	Rank      string
	Name      string
	Wins      int
	Losses    int
	ATSPoints string
	Pick      string
	Hidden    bool
	Highlight bool
}

// SendKickoffPicks reveals the picks locking at kickoff. With a nil kickoff
// every locked pick of the week is sent and players without one show hidden.
func (s *NotificationService) SendKickoffPicks(ctx context.Context, week int, kickoff *time.Time) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendKickoffPicks")
	defer span.End()

	if s.picks == nil {
		return DeliveryReport{}, fmt.Errorf("%w: pick service is not attached", ErrDependencyUnavailable)
	}
	locked, err := s.picks.ListAtKickoff(ctx, week, kickoff)
	if err != nil {
		return DeliveryReport{}, err
	}
	summary := kickoff == nil
	if len(locked) == 0 && !summary {
		return DeliveryReport{Kind: notification.KindKickoffPicks, Week: week}, nil
	}
	byPlayer := make(map[int64]pick.Pick, len(locked))
	for _, item := range locked {
		byPlayer[item.PlayerID] = item
	}

	table, err := s.standings.List(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	rows := make([]kickoffRow, 0, len(table))
	for i, row := range table {
		item, ok := byPlayer[row.PlayerID]
		if !ok && !summary {
			continue
		}
		rank := strconv.Itoa(i + 1)
		if week == game.FirstWeek {
			rank = "-"
		}
		display := kickoffRow{
			PlayerID:  row.PlayerID,
			Rank:      rank,
			Name:      player.FormatFullName(row.FirstName, row.LastName, row.Titles, row.IsRookie),
			Wins:      row.Wins,
			Losses:    row.Losses,
			ATSPoints: formatSigned(row.ATSPoints),
			Hidden:    !ok,
		}
		if ok {
			line, err := s.picks.optionalLine(ctx, item.TeamID, week)
			if err != nil {
				return DeliveryReport{}, err
			}
			display.Pick = item.TeamID + " " + game.FormatOptionalLine(line)
		}
		rows = append(rows, display)
	}

	message := fmt.Sprintf("The following picks are locked in for %s.", game.WeekLabel(week))
	if !summary {
		message = fmt.Sprintf("The following picks locked in at %s.", s.calendar.DisplayTime(*kickoff))
	}
	recipients, err := s.playerRepo.ListPaid(ctx, s.calendar.Season())
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list paid players: %w", err)
	}
	messages := make([]notification.Email, 0, len(recipients))
	for _, recipient := range recipients {
		personal := make([]kickoffRow, len(rows))
		copy(personal, rows)
		for i := range personal {
			personal[i].Highlight = personal[i].PlayerID == recipient.ID
		}
		body, err := s.renderer.Render(mailtemplate.KickoffPicks, map[string]any{
			"Message":   message,
			"WeekLabel": strings.ToUpper(game.WeekLabel(week)),
			"Rows":      personal,
		})
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.message(notification.KindKickoffPicks, recipient.Email, fmt.Sprintf("LOTW: %s Picks", game.WeekLabel(week)), body))
	}
	return s.Dispatch(ctx, notification.KindKickoffPicks, week, messages)
}

type standingsRow struct {
	PlayerID      int64
	Rank          int
	Name          string
	Wins          int
	Losses        int
	WinPercentage string
	ATSPoints     string
	Pick          string
	PickATS       string
	Result        string
	Won           bool
	Highlight     bool
}

// SendStandings emails the table with each player's pick result for the week.
func (s *NotificationService) SendStandings(ctx context.Context, week int) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendStandings")
	defer span.End()

	if !game.ValidWeek(week) {
		return DeliveryReport{}, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, game.FirstWeek, game.FinalWeek)
	}
	season := s.calendar.Season()
	table, err := s.standings.List(ctx)
	if err != nil {
		return DeliveryReport{}, err
	}
	weekPicks, err := s.pickRepo.ListCurrentByWeek(ctx, season, week)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list current picks for week=%d: %w", week, err)
	}
	byPlayer := make(map[int64]pick.Pick, len(weekPicks))
	for _, item := range weekPicks {
		byPlayer[item.PlayerID] = item
	}

	rows := make([]standingsRow, 0, len(table))
	for i, row := range table {
		display := standingsRow{
			PlayerID:      row.PlayerID,
			Rank:          i + 1,
			Name:          player.FormatFullName(row.FirstName, row.LastName, row.Titles, row.IsRookie),
			Wins:          row.Wins,
			Losses:        row.Losses,
			WinPercentage: fmt.Sprintf("%.3f", row.WinPercentage),
			ATSPoints:     formatSigned(row.ATSPoints),
			Pick:          noPickDisplay,
		}
		pickATS := 0.0
		if item, ok := byPlayer[row.PlayerID]; ok {
			if item.ATS == nil {
				return DeliveryReport{}, fmt.Errorf("%w: pick=%d player=%d week=%d has no ats value", ErrDataIntegrity, item.ID, item.PlayerID, week)
			}
			line, _, err := s.board.ResolveLine(ctx, item.TeamID, week)
			if err != nil {
				return DeliveryReport{}, err
			}
			display.Pick = item.TeamID + " " + game.FormatLine(line)
			pickATS = *item.ATS
		}
		display.PickATS = formatSigned(pickATS)
		display.Won = game.Covered(pickATS)
		display.Result = "Loss"
		if display.Won {
			display.Result = "Win"
		}
		rows = append(rows, display)
	}

	note, _, err := s.bulletinRepo.GetStandingsNote(ctx, season, week)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("get standings note week=%d: %w", week, err)
	}
	recipients, err := s.playerRepo.ListPaid(ctx, season)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list paid players: %w", err)
	}
	messages := make([]notification.Email, 0, len(recipients))
	for _, recipient := range recipients {
		personal := make([]standingsRow, len(rows))
		copy(personal, rows)
		for i := range personal {
			personal[i].Highlight = personal[i].PlayerID == recipient.ID
		}
		body, err := s.renderer.Render(mailtemplate.Standings, map[string]any{
			"Note":      note,
			"WeekLabel": strings.ToUpper(game.WeekLabel(week)),
			"Rows":      personal,
		})
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.message(notification.KindStandings, recipient.Email, fmt.Sprintf("LOTW: %s Standings", game.WeekLabel(week)), body))
	}
	return s.Dispatch(ctx, notification.KindStandings, week, messages)
}

// SendRegistrationInvite invites last season's players and rookies. Each
// invite carries yes and no links authorized by a season token.
func (s *NotificationService) SendRegistrationInvite(ctx context.Context) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendRegistrationInvite")
	defer span.End()

	season := s.calendar.Season()
	recipients, err := s.playerRepo.ListPastRegistered(ctx, season)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list past registered players: %w", err)
	}
	messages := make([]notification.Email, 0, len(recipients))
	for _, recipient := range recipients {
		token, err := s.tokens.IssueRegistration(ctx, recipient.ID)
		if err != nil {
			return DeliveryReport{}, err
		}
		body, err := s.renderer.Render(mailtemplate.Registration, map[string]any{
			"FirstName":         recipient.FirstName,
			"Season":            season,
			"CommissionerName":  s.cfg.CommissionerName,
			"CommissionerEmail": s.cfg.CommissionerEmail,
			"YesURL":            s.registrationURL(recipient.ID, token.Value, RegistrationYes),
			"NoURL":             s.registrationURL(recipient.ID, token.Value, RegistrationNo),
		})
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.message(notification.KindRegistration, recipient.Email, fmt.Sprintf("LOTW: %d Registration", season), body))
	}
	return s.Dispatch(ctx, notification.KindRegistration, 0, messages)
}

// SendBroadcast delivers a stored commissioner message to paid players.
func (s *NotificationService) SendBroadcast(ctx context.Context, broadcastID int64) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendBroadcast")
	defer span.End()

	item, exists, err := s.bulletinRepo.GetBroadcast(ctx, broadcastID)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("get broadcast: %w", err)
	}
	if !exists {
		return DeliveryReport{}, fmt.Errorf("%w: broadcast=%d", ErrNotFound, broadcastID)
	}
	recipients, err := s.playerRepo.ListPaid(ctx, s.calendar.Season())
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("list paid players: %w", err)
	}
	paragraphs := splitParagraphs(item.Body)
	messages := make([]notification.Email, 0, len(recipients))
	for _, recipient := range recipients {
		body, err := s.renderer.Render(mailtemplate.Commissioner, map[string]any{
			"FirstName":        recipient.FirstName,
			"Paragraphs":       paragraphs,
			"CommissionerName": s.cfg.CommissionerName,
		})
		if err != nil {
			return DeliveryReport{}, err
		}
		messages = append(messages, s.message(notification.KindCommissioner, recipient.Email, item.Subject, body))
	}
	return s.Dispatch(ctx, notification.KindCommissioner, 0, messages)
}

// Dispatch sends messages through a bounded worker pool. Individual failures
// are counted; an error is returned only when nothing could be delivered.
func (s *NotificationService) Dispatch(ctx context.Context, kind string, week int, messages []notification.Email) (DeliveryReport, error) {
	report := DeliveryReport{Kind: kind, Week: week, Attempted: len(messages)}
	if len(messages) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return report, fmt.Errorf("create mail worker pool: %w", err)
	}
	defer pool.Release()

	var sent atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	season := s.calendar.Season()
	for _, msg := range messages {
		msg := msg
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if s.deliver(ctx, season, week, msg) {
				sent.Add(1)
				return
			}
			failed.Add(1)
		}); err != nil {
			workers.Done()
			failed.Add(1)
			s.logger.WarnContext(ctx, "submit mail to worker pool failed", "kind", kind, "error", err)
		}
	}
	workers.Wait()

	report.Sent = int(sent.Load())
	report.Failed = int(failed.Load())
	s.logger.InfoContext(ctx, "emails dispatched", "kind", kind, "week", week, "sent", report.Sent, "failed", report.Failed)
	if report.Sent == 0 && report.Failed > 0 {
		return report, fmt.Errorf("%w: no %s email could be delivered", ErrDependencyUnavailable, kind)
	}
	return report, nil
}

func (s *NotificationService) deliver(ctx context.Context, season, week int, msg notification.Email) bool {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "send email failed", "kind", msg.Kind, "to", strings.Join(msg.To, ","), "error", err)
		return false
	}
	if err := s.archiver.Archive(ctx, season, week, msg); err != nil {
		s.logger.WarnContext(ctx, "archive email failed", "kind", msg.Kind, "error", err)
	}
	return true
}

func (s *NotificationService) message(kind, to, subject, body string) notification.Email {
	return notification.Email{
		Kind:     kind,
		From:     s.cfg.CommissionerEmail,
		To:       []string{to},
		ReplyTo:  s.cfg.CommissionerEmail,
		Subject:  subject,
		HTMLBody: body,
	}
}

// pickURL links to GET /v1/picks, which submits teamID for the week.
func (s *NotificationService) pickURL(playerID int64, week int, teamID, token string) string {
	query := url.Values{}
	query.Set("player_id", strconv.FormatInt(playerID, 10))
	query.Set("week", strconv.Itoa(week))
	query.Set("team_id", teamID)
	query.Set("token", token)
	return s.link("/v1/picks", query)
}

// registrationURL links to GET /v1/registration with a yes or no answer.
func (s *NotificationService) registrationURL(playerID int64, token, answer string) string {
	query := url.Values{}
	query.Set("player_id", strconv.FormatInt(playerID, 10))
	query.Set("token", token)
	query.Set("answer", answer)
	return s.link("/v1/registration", query)
}

func (s *NotificationService) link(path string, query url.Values) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + path + "?" + query.Encode()
}

func teamDisplay(teams map[string]team.Team, teamID string) string {
	if item, ok := teams[teamID]; ok {
		return item.Name() + " (" + teamID + ")"
	}
	return teamID
}

func formatSigned(value float64) string {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if value > 0 {
		return "+" + text
	}
	return text
}

func splitParagraphs(body string) []string {
	parts := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
