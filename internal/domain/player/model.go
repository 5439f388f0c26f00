package player

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	rookieMark   = " ®"
	championMark = " ©"
)

// Player is a pool participant. Registered and Paid describe the season the
// record was loaded for.
type Player struct {
	ID         int64
	Email      string
	FirstName  string
	LastName   string
	Titles     int
	IsRookie   bool
	Registered bool
	Paid       bool
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("player email is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("invalid player email %q", p.Email)
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("player first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("player last name is required")
	}
	if p.Titles < 0 {
		return fmt.Errorf("player titles cannot be negative")
	}

	return nil
}

// FullName renders "Last, First" with a rookie mark or one championship mark
// per past title.
func (p Player) FullName() string {
	return FormatFullName(p.FirstName, p.LastName, p.Titles, p.IsRookie)
}

func FormatFullName(firstName, lastName string, titles int, rookie bool) string {
	name := strings.TrimSpace(lastName) + ", " + strings.TrimSpace(firstName)
	if rookie {
		return name + rookieMark
	}
	for i := 0; i < titles; i++ {
		name += championMark
	}
	return name
}
