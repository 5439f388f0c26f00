package authtoken

import (
	"crypto/subtle"
	"time"
)

const Length = 8

// RegistrationWeek keys the season's registration token, which authorizes
// the yes and no links of the registration invite.
const RegistrationWeek = 0

// Token authorizes pick changes for one player and week through emailed links.
type Token struct {
	PlayerID  int64
	Season    int
	Week      int
	Value     string
	ExpiresAt time.Time
}

func (t Token) ExpiredAt(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

func (t Token) Matches(value string) bool {
	if t.Value == "" || len(value) != len(t.Value) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.Value), []byte(value)) == 1
}
