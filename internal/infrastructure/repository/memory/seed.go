package memory

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/team"
)

//go:embed teams.yaml
var teamsYAML []byte

type teamSeed struct {
	Teams []struct {
		ID       string `yaml:"id"`
		City     string `yaml:"city"`
		Nickname string `yaml:"nickname"`
	} `yaml:"teams"`
}

// SeedTeams returns the NFL team catalog.
func SeedTeams() ([]team.Team, error) {
	var doc teamSeed
	if err := yaml.Unmarshal(teamsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode team seed: %w", err)
	}
	out := make([]team.Team, 0, len(doc.Teams))
	for _, row := range doc.Teams {
		item := team.Team{ID: team.NormalizeID(row.ID), City: row.City, Nickname: row.Nickname}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("team seed %q: %w", row.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// NewSeededStore returns a store holding the team catalog.
func NewSeededStore() (*Store, error) {
	teams, err := SeedTeams()
	if err != nil {
		return nil, err
	}
	store := NewStore()
	store.PutTeams(teams...)
	return store, nil
}
