package standing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
)

var (
	ErrUnscoredPick   = errors.New("locked pick has no ats value")
	ErrDuplicateWeek  = errors.New("more than one current pick in a week")
	ErrNegativeCutoff = errors.New("through week cannot be negative")
)

// Standing is the season snapshot of one player, overwritten on each
// recomputation.
type Standing struct {
	PlayerID      int64
	Season        int
	ThroughWeek   int
	Wins          int
	Losses        int
	WinPercentage float64
	ATSPoints     float64

	FirstName string
	LastName  string
	Titles    int
	IsRookie  bool
}

// Tally rolls up current picks for weeks 1..throughWeek. Each week is checked
// on its own: a missing pick is a loss, a push is a loss.
func Tally(playerID int64, season, throughWeek int, picks []pick.Pick) (Standing, error) {
	if throughWeek < 0 {
		return Standing{}, ErrNegativeCutoff
	}

	byWeek := make(map[int]pick.Pick, len(picks))
	for _, item := range picks {
		if !item.IsCurrent() || item.Week < 1 || item.Week > throughWeek {
			continue
		}
		if _, exists := byWeek[item.Week]; exists {
			return Standing{}, fmt.Errorf("%w: player=%d week=%d", ErrDuplicateWeek, playerID, item.Week)
		}
		byWeek[item.Week] = item
	}

	out := Standing{
		PlayerID:    playerID,
		Season:      season,
		ThroughWeek: throughWeek,
	}
	for week := 1; week <= throughWeek; week++ {
		item, ok := byWeek[week]
		if !ok {
			out.Losses++
			continue
		}
		if item.ATS == nil {
			return Standing{}, fmt.Errorf("%w: pick=%d player=%d week=%d", ErrUnscoredPick, item.ID, playerID, week)
		}
		out.ATSPoints += *item.ATS
		if *item.ATS > 0 {
			out.Wins++
		} else {
			out.Losses++
		}
	}
	if throughWeek > 0 {
		out.WinPercentage = float64(out.Wins) / float64(throughWeek)
	}

	return out, nil
}

// Sort orders by win percentage, ATS points, last name, first name.
func Sort(items []Standing) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.WinPercentage != b.WinPercentage {
			return a.WinPercentage > b.WinPercentage
		}
		if a.ATSPoints != b.ATSPoints {
			return a.ATSPoints > b.ATSPoints
		}
		if !strings.EqualFold(a.LastName, b.LastName) {
			return strings.ToLower(a.LastName) < strings.ToLower(b.LastName)
		}
		return strings.ToLower(a.FirstName) < strings.ToLower(b.FirstName)
	})
}
