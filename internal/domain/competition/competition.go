package competition

import (
	"fmt"
	"strings"
)

// Competition identifies one of the supported tournaments.
type Competition string

const (
	PremierLeague   Competition = "premier_league"
	ChampionsLeague Competition = "champions_league"
)

func All() []Competition {
	return []Competition{PremierLeague, ChampionsLeague}
}

func Parse(value string) (Competition, error) {
	switch Competition(strings.ToLower(strings.TrimSpace(value))) {
	case PremierLeague:
		return PremierLeague, nil
	case ChampionsLeague:
		return ChampionsLeague, nil
	default:
		return "", fmt.Errorf("unknown competition %q", value)
	}
}

func (c Competition) String() string {
	return string(c)
}

// DisplayName is the human-readable tournament name.
func (c Competition) DisplayName() string {
	switch c {
	case PremierLeague:
		return "Premier League"
	case ChampionsLeague:
		return "Champions League"
	default:
		return string(c)
	}
}

// Priority orders competitions for team dedup: when the same club appears
// in more than one competition the lower value wins ownership of the row.
func (c Competition) Priority() int {
	switch c {
	case PremierLeague:
		return 0
	case ChampionsLeague:
		return 1
	default:
		return 100
	}
}
