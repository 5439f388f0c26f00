package notification

import "strings"

const (
	KindPickConfirmation = "pick-confirmation"
	KindLines            = "lines"
	KindKickoffPicks     = "kickoff-picks"
	KindStandings        = "standings"
	KindRegistration     = "registration"
	KindCommissioner     = "commissioner"
	KindAnalytics        = "analytics"
)

// Email is a rendered message ready for the mail transport.
type Email struct {
	Kind     string
	From     string
	To       []string
	Cc       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Recipients returns every address the message is delivered to.
func (e Email) Recipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc))
	seen := make(map[string]struct{}, len(e.To)+len(e.Cc))
	for _, addr := range append(append([]string(nil), e.To...), e.Cc...) {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}
