// Package roster defines players and the default set fetched for season
// datasets.
package roster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"nbacorpus/logger"
)

// Entity is a player with a stable stats.nba.com person id.
type Entity struct {
	ID          int    `json:"id"`
	DisplayName string `json:"name"`
}

func (e Entity) String() string {
	return fmt.Sprintf("%s (%d)", e.DisplayName, e.ID)
}

var defaultRoster = []Entity{
	// MVP candidates
	{ID: 2544, DisplayName: "LeBron James"},
	{ID: 201939, DisplayName: "Stephen Curry"},
	{ID: 201142, DisplayName: "Kevin Durant"},
	{ID: 203507, DisplayName: "Giannis Antetokounmpo"},
	{ID: 203999, DisplayName: "Nikola Jokic"},
	{ID: 1629029, DisplayName: "Luka Doncic"},
	{ID: 1628369, DisplayName: "Jayson Tatum"},
	{ID: 1628378, DisplayName: "Donovan Mitchell"},
	{ID: 203081, DisplayName: "Damian Lillard"},
	{ID: 202681, DisplayName: "Kyrie Irving"},
	// Centers
	{ID: 203954, DisplayName: "Joel Embiid"},
	{ID: 1626164, DisplayName: "Devin Booker"},
	{ID: 1628384, DisplayName: "Bam Adebayo"},
	{ID: 1627783, DisplayName: "Pascal Siakam"},
	{ID: 1629627, DisplayName: "Ja Morant"},
	// Guards
	{ID: 1627936, DisplayName: "Dejounte Murray"},
	{ID: 201950, DisplayName: "Jrue Holiday"},
	{ID: 1628973, DisplayName: "Trae Young"},
	{ID: 1627750, DisplayName: "Jamal Murray"},
	{ID: 203078, DisplayName: "Anthony Davis"},
	// Young stars
	{ID: 1629639, DisplayName: "Zion Williamson"},
	{ID: 1629027, DisplayName: "Shai Gilgeous-Alexander"},
	{ID: 1631093, DisplayName: "Paolo Banchero"},
	{ID: 1630162, DisplayName: "Anthony Edwards"},
	{ID: 1630224, DisplayName: "LaMelo Ball"},
}

// Default returns a copy of the built-in roster.
func Default() []Entity {
	return slices.Clone(defaultRoster)
}

// File is the on-disk roster format.
type File struct {
	Players []Entity `json:"players"`
}

// Load reads a JSON5 roster file and merges <name>.local.<ext> over it when
// present. An empty path yields the default roster.
func Load(path string) ([]Entity, error) {
	if path == "" {
		return Default(), nil
	}

	base, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(path)
	local := strings.TrimSuffix(path, ext) + ".local" + ext
	override, err := readFile(local)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := mergo.Merge(&base, override, mergo.WithOverride); err != nil {
			return nil, err
		}
		logger.Named("roster").Info(context.Background(), "merging roster with local overrides", logger.String("local", local))
	}

	if err := Validate(base.Players); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base.Players, nil
}

func readFile(path string) (File, error) {
	var out File
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return out, nil
}

// Validate rejects empty rosters, missing ids or names, and duplicate ids.
func Validate(players []Entity) error {
	if len(players) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[int]struct{}, len(players))
	for i, p := range players {
		if p.ID <= 0 || strings.TrimSpace(p.DisplayName) == "" {
			return fmt.Errorf("%w: entry %d", ErrInvalidEntity, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidEntity, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
