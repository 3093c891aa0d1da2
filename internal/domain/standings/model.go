package standings

import "time"

// GameweekScore is the cached per-gameweek aggregate for one user in one
// league. TotalPoints must equal the sum of points over that user's scored
// predictions whose match falls in the gameweek.
type GameweekScore struct {
	UserID           string
	GameweekID       string
	LeagueID         string
	TotalPoints      int
	ExactScores      int
	CorrectResults   int
	PredictedMatches int
	ScoredMatches    int
	UpdatedAt        time.Time
}

// LeagueStanding is the cached all-time aggregate and rank for one user in
// one league. TotalPoints must equal the sum over the user's GameweekScore
// rows in the league.
type LeagueStanding struct {
	UserID          string
	LeagueID        string
	TotalPoints     int
	GameweeksPlayed int
	ExactScores     int
	CorrectResults  int
	CurrentRank     int
	PreviousRank    int
	UpdatedAt       time.Time
}
