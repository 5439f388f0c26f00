package scoring

import (
	"github.com/riskibarqy/lock-of-the-week/internal/domain/game"
	"github.com/riskibarqy/lock-of-the-week/internal/domain/pick"
)

// WeekResults is everything written when a week is scored.
type WeekResults struct {
	Season int
	Week   int
	Games  []game.ATSResult
	Picks  []pick.ATSResult
}
