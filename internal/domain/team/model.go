package team

import (
	"fmt"
	"strings"
)

// Team is an NFL franchise keyed by its three letter code.
type Team struct {
	ID       string
	City     string
	Nickname string
}

func (t Team) Validate() error {
	if len(strings.TrimSpace(t.ID)) != 3 {
		return fmt.Errorf("team id must be a three letter code")
	}
	if t.Nickname == "" {
		return fmt.Errorf("team nickname is required")
	}

	return nil
}

// Name renders "City Nickname".
func (t Team) Name() string {
	return strings.TrimSpace(t.City + " " + t.Nickname)
}

func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
