package postgres

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/league"
)

type leagueTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Competition string    `db:"competition"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:          m.ID,
		Name:        m.Name,
		Competition: competition.Competition(m.Competition),
		CreatedAt:   m.CreatedAt,
	}
}

type leagueMemberTableModel struct {
	LeagueID string    `db:"league_id"`
	UserID   string    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}

func (m leagueMemberTableModel) toDomain() league.Member {
	return league.Member{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		JoinedAt: m.JoinedAt,
	}
}
