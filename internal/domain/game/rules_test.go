package game

import "testing"

func TestComputeATS(t *testing.T) {
	tests := []struct {
		name      string
		line      float64
		home      int
		away      int
		wantHome  float64
		wantAway  float64
		homeCover bool
		awayCover bool
	}{
		{name: "home favorite covers", line: -3, home: 20, away: 10, wantHome: 7, wantAway: -7, homeCover: true},
		{name: "home favorite fails to cover", line: -7.5, home: 24, away: 20, wantHome: -3.5, wantAway: 3.5, awayCover: true},
		{name: "push is not a cover", line: -3, home: 13, away: 10, wantHome: 0, wantAway: 0},
		{name: "home underdog loses inside the number", line: 6, home: 17, away: 21, wantHome: 2, wantAway: -2, homeCover: true},
		{name: "pick em", line: 0, home: 10, away: 27, wantHome: -17, wantAway: 17, awayCover: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			home, away := ComputeATS(tc.line, tc.home, tc.away)
			if home != tc.wantHome || away != tc.wantAway {
				t.Fatalf("unexpected ats: home=%v away=%v want home=%v away=%v", home, away, tc.wantHome, tc.wantAway)
			}
			if home+away != 0 {
				t.Fatalf("ats values must cancel out, got %v", home+away)
			}
			if Covered(home) != tc.homeCover || Covered(away) != tc.awayCover {
				t.Fatalf("unexpected cover flags: home=%t away=%t", Covered(home), Covered(away))
			}
		})
	}
}

func TestGame_LineFor(t *testing.T) {
	line := -3.5
	g := Game{HomeTeamID: "DEN", AwayTeamID: "KAN", HomeLine: &line}

	home, ok := g.LineFor("DEN")
	if !ok || home != -3.5 {
		t.Fatalf("unexpected home line: %v ok=%t", home, ok)
	}
	away, ok := g.LineFor("KAN")
	if !ok || away != 3.5 {
		t.Fatalf("unexpected away line: %v ok=%t", away, ok)
	}
	if home+away != 0 {
		t.Fatalf("home and away lines must mirror, got %v and %v", home, away)
	}
	if _, ok := g.LineFor("BUF"); ok {
		t.Fatalf("expected no line for team outside the game")
	}

	g.HomeLine = nil
	if _, ok := g.LineFor("DEN"); ok {
		t.Fatalf("expected no line when line is not posted")
	}
}

func TestFormatLine(t *testing.T) {
	tests := map[float64]string{
		-3:   "-3",
		-3.5: "-3.5",
		0:    "PK",
		7:    "+7",
		2.5:  "+2.5",
	}
	for in, want := range tests {
		if got := FormatLine(in); got != want {
			t.Fatalf("FormatLine(%v)=%q want %q", in, got, want)
		}
	}
	if got := FormatOptionalLine(nil); got != "OFF" {
		t.Fatalf("expected OFF for missing line, got %q", got)
	}
}

func TestWeekLabel(t *testing.T) {
	if got := WeekLabel(5); got != "Week 5" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := WeekLabel(19); got != "Wildcard Weekend" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := WeekLabel(22); got != "Super Bowl" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestClassify(t *testing.T) {
	if Classify(-1) != ClassFavorite || Classify(1) != ClassUnderdog || Classify(0) != ClassPickEm {
		t.Fatalf("unexpected classification")
	}
}
