package player

import "testing"

func TestFormatFullName(t *testing.T) {
	tests := []struct {
		name   string
		player Player
		want   string
	}{
		{name: "plain", player: Player{FirstName: "Jane", LastName: "Doe"}, want: "Doe, Jane"},
		{name: "rookie", player: Player{FirstName: "Jane", LastName: "Doe", IsRookie: true}, want: "Doe, Jane ®"},
		{name: "two titles", player: Player{FirstName: "Jane", LastName: "Doe", Titles: 2}, want: "Doe, Jane © ©"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.player.FullName(); got != tc.want {
				t.Fatalf("FullName()=%q want %q", got, tc.want)
			}
		})
	}
}

func TestPlayer_Validate(t *testing.T) {
	valid := Player{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid player, got %v", err)
	}

	invalid := valid
	invalid.Email = "not-an-email"
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected invalid email error")
	}

	invalid = valid
	invalid.LastName = " "
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected missing last name error")
	}
}
