package memory

import (
	"sync"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/authtoken"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/bulletin"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/jobscheduler"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/player"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/standing"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
)

type seasonKey struct {
	season   int
	playerID int64
}

type weekKey struct {
	season   int
	playerID int64
	week     int
}

type seasonFlags struct {
	registered bool
	paid       bool
}

// Store holds every table behind one lock so multi-table writes are atomic.
type Store struct {
	mu sync.RWMutex

	teams      map[string]team.Team
	players    map[int64]player.Player
	seasons    map[seasonKey]seasonFlags
	games      map[int64]game.Game
	picks      []pick.Pick
	standings  map[seasonKey]standing.Standing
	tokens     map[weekKey]authtoken.Token
	notes      map[[2]int]string
	broadcasts map[int64]bulletin.Broadcast
	dispatches map[string]jobscheduler.DispatchEvent

	nextPlayerID int64
	nextGameID   int64
	nextPickID   int64
}

func NewStore() *Store {
	return &Store{
		teams:      make(map[string]team.Team),
		players:    make(map[int64]player.Player),
		seasons:    make(map[seasonKey]seasonFlags),
		games:      make(map[int64]game.Game),
		standings:  make(map[seasonKey]standing.Standing),
		tokens:     make(map[weekKey]authtoken.Token),
		notes:      make(map[[2]int]string),
		broadcasts: make(map[int64]bulletin.Broadcast),
		dispatches: make(map[string]jobscheduler.DispatchEvent),
	}
}

func (s *Store) PutTeams(items ...team.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		item.ID = team.NormalizeID(item.ID)
		s.teams[item.ID] = item
	}
}

// PutGame inserts or replaces a game. A zero ID is assigned the next one.
func (s *Store) PutGame(item game.Game) game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		s.nextGameID++
		item.ID = s.nextGameID
	} else if item.ID > s.nextGameID {
		s.nextGameID = item.ID
	}
	s.games[item.ID] = item
	return item
}

// PutPlayer inserts a player with its flags for one season.
func (s *Store) PutPlayer(season int, item player.Player) player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		s.nextPlayerID++
		item.ID = s.nextPlayerID
	} else if item.ID > s.nextPlayerID {
		s.nextPlayerID = item.ID
	}
	s.seasons[seasonKey{season: season, playerID: item.ID}] = seasonFlags{registered: item.Registered, paid: item.Paid}
	item.Registered, item.Paid = false, false
	s.players[item.ID] = item
	return s.withFlags(season, item)
}

// PutPick appends a pick row as-is, for seeding history.
func (s *Store) PutPick(item pick.Pick) pick.Pick {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPickID++
	item.ID = s.nextPickID
	s.picks = append(s.picks, item)
	return item
}

func (s *Store) PutStandingsNote(season, week int, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[[2]int{season, week}] = note
}

func (s *Store) PutBroadcast(item bulletin.Broadcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts[item.ID] = item
}

// Dispatches returns the recorded job events, for inspection.
func (s *Store) Dispatches() []jobscheduler.DispatchEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]jobscheduler.DispatchEvent, 0, len(s.dispatches))
	for _, item := range s.dispatches {
		out = append(out, item)
	}
	return out
}

// Picks returns every pick row including superseded ones.
func (s *Store) Picks() []pick.Pick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePicks(s.picks)
}

func (s *Store) withFlags(season int, item player.Player) player.Player {
	flags := s.seasons[seasonKey{season: season, playerID: item.ID}]
	item.Registered = flags.registered
	item.Paid = flags.paid
	return item
}

func clonePick(item pick.Pick) pick.Pick {
	if item.LockInAt != nil {
		lockIn := *item.LockInAt
		item.LockInAt = &lockIn
	}
	if item.ATS != nil {
		ats := *item.ATS
		item.ATS = &ats
	}
	return item
}

func clonePicks(items []pick.Pick) []pick.Pick {
	out := make([]pick.Pick, 0, len(items))
	for _, item := range items {
		out = append(out, clonePick(item))
	}
	return out
}
