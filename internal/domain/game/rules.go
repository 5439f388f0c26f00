package game

import (
	"fmt"
	"math"
	"strconv"
)

const (
	FirstWeek          = 1
	LastRegularWeek    = 18
	FinalWeek          = 22
	PreseasonWeek      = 0
	pickEmLine         = "PK"
	offTheBoardDisplay = "OFF"
)

type Classification string

const (
	ClassFavorite Classification = "Favorite"
	ClassUnderdog Classification = "Underdog"
	ClassPickEm   Classification = "Pick'em"
)

var playoffWeekLabels = map[int]string{
	19: "Wildcard Weekend",
	20: "Divisional Playoffs",
	21: "Conference Championships",
	22: "Super Bowl",
}

// ComputeATS scores a final game against the home line. The two values
// always sum to zero.
func ComputeATS(homeLine float64, homeScore, awayScore int) (homeATS, awayATS float64) {
	margin := float64(homeScore - awayScore)
	homeATS = homeLine + margin
	awayATS = -homeLine - margin
	return homeATS, awayATS
}

// Covered reports a win against the spread. A push is not a cover.
func Covered(ats float64) bool {
	return ats > 0
}

func Classify(line float64) Classification {
	switch {
	case line < 0:
		return ClassFavorite
	case line > 0:
		return ClassUnderdog
	default:
		return ClassPickEm
	}
}

// FormatLine renders a team-oriented line: -3.5, PK, +7.
func FormatLine(line float64) string {
	if line == 0 {
		return pickEmLine
	}
	abs := strconv.FormatFloat(math.Abs(line), 'f', -1, 64)
	if line < 0 {
		return "-" + abs
	}
	return "+" + abs
}

// FormatOptionalLine renders an unavailable line as OFF.
func FormatOptionalLine(line *float64) string {
	if line == nil {
		return offTheBoardDisplay
	}
	return FormatLine(*line)
}

func WeekLabel(week int) string {
	if label, ok := playoffWeekLabels[week]; ok {
		return label
	}
	return fmt.Sprintf("Week %d", week)
}

func ValidWeek(week int) bool {
	return week >= FirstWeek && week <= FinalWeek
}
