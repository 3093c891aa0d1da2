package prediction

import "time"

const (
	MinScore = 0
	MaxScore = 20
)

// Prediction is one user's forecast for one match within one league.
// The (UserID, MatchID, LeagueID) triple is unique; a resubmission before
// the deadline replaces the scores of the existing row.
type Prediction struct {
	ID        string
	UserID    string
	MatchID   string
	LeagueID  string
	HomeScore int
	AwayScore int
	Points    *int
	CreatedAt time.Time
	UpdatedAt time.Time
	ScoredAt  *time.Time
}

func ValidScore(value int) bool {
	return value >= MinScore && value <= MaxScore
}
