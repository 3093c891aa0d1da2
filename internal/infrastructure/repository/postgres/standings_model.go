package postgres

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/standings"
)

type gameweekScoreTableModel struct {
	UserID           string    `db:"user_id"`
	GameweekID       string    `db:"gameweek_id"`
	LeagueID         string    `db:"league_id"`
	TotalPoints      int       `db:"total_points"`
	ExactScores      int       `db:"exact_scores"`
	CorrectResults   int       `db:"correct_results"`
	PredictedMatches int       `db:"predicted_matches"`
	ScoredMatches    int       `db:"scored_matches"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m gameweekScoreTableModel) toDomain() standings.GameweekScore {
	return standings.GameweekScore{
		UserID:           m.UserID,
		GameweekID:       m.GameweekID,
		LeagueID:         m.LeagueID,
		TotalPoints:      m.TotalPoints,
		ExactScores:      m.ExactScores,
		CorrectResults:   m.CorrectResults,
		PredictedMatches: m.PredictedMatches,
		ScoredMatches:    m.ScoredMatches,
		UpdatedAt:        m.UpdatedAt,
	}
}

type leagueStandingTableModel struct {
	UserID          string    `db:"user_id"`
	LeagueID        string    `db:"league_id"`
	TotalPoints     int       `db:"total_points"`
	GameweeksPlayed int       `db:"gameweeks_played"`
	ExactScores     int       `db:"exact_scores"`
	CorrectResults  int       `db:"correct_results"`
	CurrentRank     int       `db:"current_rank"`
	PreviousRank    int       `db:"previous_rank"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m leagueStandingTableModel) toDomain() standings.LeagueStanding {
	return standings.LeagueStanding{
		UserID:          m.UserID,
		LeagueID:        m.LeagueID,
		TotalPoints:     m.TotalPoints,
		GameweeksPlayed: m.GameweeksPlayed,
		ExactScores:     m.ExactScores,
		CorrectResults:  m.CorrectResults,
		CurrentRank:     m.CurrentRank,
		PreviousRank:    m.PreviousRank,
		UpdatedAt:       m.UpdatedAt,
	}
}
