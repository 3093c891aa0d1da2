package postgres

import (
	"database/sql"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        string        `db:"id"`
	UserID    string        `db:"user_id"`
	MatchID   string        `db:"match_id"`
	LeagueID  string        `db:"league_id"`
	HomeScore int           `db:"home_score"`
	AwayScore int           `db:"away_score"`
	Points    sql.NullInt64 `db:"points"`
	ScoredAt  *time.Time    `db:"scored_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:        m.ID,
		UserID:    m.UserID,
		MatchID:   m.MatchID,
		LeagueID:  m.LeagueID,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Points:    nullIntToPtr(m.Points),
		ScoredAt:  m.ScoredAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type predictionInsertModel struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	MatchID   string `db:"match_id"`
	LeagueID  string `db:"league_id"`
	HomeScore int    `db:"home_score"`
	AwayScore int    `db:"away_score"`
}
