package postgres

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/gameweek"
)

type gameweekTableModel struct {
	ID        string    `db:"id"`
	SeasonID  string    `db:"season_id"`
	Number    int       `db:"number"`
	Deadline  time.Time `db:"deadline"`
	WindowEnd time.Time `db:"window_end"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m gameweekTableModel) toDomain() gameweek.Gameweek {
	return gameweek.Gameweek{
		ID:        m.ID,
		SeasonID:  m.SeasonID,
		Number:    m.Number,
		Deadline:  m.Deadline,
		WindowEnd: m.WindowEnd,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type gameweekInsertModel struct {
	ID        string    `db:"id"`
	SeasonID  string    `db:"season_id"`
	Number    int       `db:"number"`
	Deadline  time.Time `db:"deadline"`
	WindowEnd time.Time `db:"window_end"`
}

type matchdayTableModel struct {
	ID         string    `db:"id"`
	GameweekID string    `db:"gameweek_id"`
	Date       time.Time `db:"date"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m matchdayTableModel) toDomain() gameweek.Matchday {
	return gameweek.Matchday{
		ID:         m.ID,
		GameweekID: m.GameweekID,
		Date:       m.Date,
		CreatedAt:  m.CreatedAt,
	}
}

type matchdayInsertModel struct {
	ID         string    `db:"id"`
	GameweekID string    `db:"gameweek_id"`
	Date       time.Time `db:"date"`
}
