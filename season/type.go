package season

import (
	"fmt"
	"strings"
)

// Type is the part of a season a game log covers.
type Type int

const (
	RegularSeason Type = iota
	Playoffs
	All
)

var typeNames = map[Type]string{
	RegularSeason: "Regular Season",
	Playoffs:      "Playoffs",
	All:           "All",
}

// Types lists every season type in declaration order.
var Types = []Type{RegularSeason, Playoffs, All}

// String returns the value stats.nba.com expects for SeasonType.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// FileKey is the name used in dataset file names: spaces become underscores.
func (t Type) FileKey() string {
	return strings.ReplaceAll(t.String(), " ", "_")
}

// ParseType accepts the API form, the file form, or either in any case.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	norm = strings.ReplaceAll(norm, "+", " ")
	for _, t := range Types {
		if strings.ToLower(t.String()) == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSeasonType, s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
