package postgres

import (
	"database/sql"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/match"
)

type matchTableModel struct {
	ID         string        `db:"id"`
	ExternalID int64         `db:"external_id"`
	MatchdayID string        `db:"matchday_id"`
	GameweekID string        `db:"gameweek_id"`
	HomeTeamID string        `db:"home_team_id"`
	AwayTeamID string        `db:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Status     string        `db:"status"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Venue      string        `db:"venue"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		MatchdayID: m.MatchdayID,
		GameweekID: m.GameweekID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
		Status:     m.Status,
		HomeScore:  nullIntToPtr(m.HomeScore),
		AwayScore:  nullIntToPtr(m.AwayScore),
		Venue:      m.Venue,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type matchInsertModel struct {
	ID         string        `db:"id"`
	ExternalID int64         `db:"external_id"`
	MatchdayID string        `db:"matchday_id"`
	GameweekID string        `db:"gameweek_id"`
	HomeTeamID string        `db:"home_team_id"`
	AwayTeamID string        `db:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Status     string        `db:"status"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Venue      string        `db:"venue"`
}
