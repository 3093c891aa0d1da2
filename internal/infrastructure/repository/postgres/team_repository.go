package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/team"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByCompetition(ctx context.Context, comp competition.Competition) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("competition", comp.String())).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by competition: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", teamID))
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *TeamRepository) FindByNormalizedName(ctx context.Context, normalizedName string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("normalized_name", normalizedName))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.Team, error) {
	if item.ID == "" {
		generated, err := newRowID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		item.ID = generated
	}

	insertModel := teamInsertModel{
		ID:             item.ID,
		ExternalID:     item.ExternalID,
		Name:           item.Name,
		ShortName:      item.ShortName,
		Code:           item.Code,
		LogoURL:        item.LogoURL,
		Competition:    item.Competition.String(),
		NormalizedName: team.NormalizeName(item.Name),
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    code = EXCLUDED.code,
    logo_url = EXCLUDED.logo_url,
    competition = EXCLUDED.competition,
    normalized_name = EXCLUDED.normalized_name,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return team.Team{}, fmt.Errorf("build upsert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("upsert team external_id=%d: %w", item.ExternalID, err)
	}
	return row.toDomain(), nil
}
