package postgres

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/team"
)

type teamTableModel struct {
	ID             string    `db:"id"`
	ExternalID     int64     `db:"external_id"`
	Name           string    `db:"name"`
	ShortName      string    `db:"short_name"`
	Code           string    `db:"code"`
	LogoURL        string    `db:"logo_url"`
	Competition    string    `db:"competition"`
	NormalizedName string    `db:"normalized_name"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Name:        m.Name,
		ShortName:   m.ShortName,
		Code:        m.Code,
		LogoURL:     m.LogoURL,
		Competition: competition.Competition(m.Competition),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type teamInsertModel struct {
	ID             string `db:"id"`
	ExternalID     int64  `db:"external_id"`
	Name           string `db:"name"`
	ShortName      string `db:"short_name"`
	Code           string `db:"code"`
	LogoURL        string `db:"logo_url"`
	Competition    string `db:"competition"`
	NormalizedName string `db:"normalized_name"`
}
