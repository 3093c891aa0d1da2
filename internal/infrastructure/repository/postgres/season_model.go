package postgres

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/season"
)

type seasonTableModel struct {
	ID          string    `db:"id"`
	Competition string    `db:"competition"`
	Name        string    `db:"name"`
	IsCurrent   bool      `db:"is_current"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{
		ID:          m.ID,
		Competition: competition.Competition(m.Competition),
		Name:        m.Name,
		IsCurrent:   m.IsCurrent,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type seasonInsertModel struct {
	ID          string `db:"id"`
	Competition string `db:"competition"`
	Name        string `db:"name"`
	IsCurrent   bool   `db:"is_current"`
}
