package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/season"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("id", seasonID))
}

func (r *SeasonRepository) GetCurrent(ctx context.Context, comp competition.Competition) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("competition", comp.String()), qb.Eq("is_current", true))
}

func (r *SeasonRepository) getOne(ctx context.Context, conditions ...qb.Condition) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("select season: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SeasonRepository) ListByCompetition(ctx context.Context, comp competition.Competition) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("competition", comp.String())).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons by competition: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpsertCurrent stores the season and demotes every other season of the
// competition inside one transaction.
func (r *SeasonRepository) UpsertCurrent(ctx context.Context, item season.Season) (season.Season, error) {
	if item.ID == "" {
		generated, err := newRowID()
		if err != nil {
			return season.Season{}, fmt.Errorf("generate season id: %w", err)
		}
		item.ID = generated
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return season.Season{}, fmt.Errorf("begin tx upsert current season: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := seasonInsertModel{
		ID:          item.ID,
		Competition: item.Competition.String(),
		Name:        item.Name,
		IsCurrent:   true,
	}
	query, args, err := qb.InsertModel("seasons", insertModel, `ON CONFLICT (competition, name)
DO UPDATE SET
    is_current = TRUE,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return season.Season{}, fmt.Errorf("build upsert season query: %w", err)
	}

	var row seasonTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return season.Season{}, fmt.Errorf("upsert season competition=%s name=%q: %w", item.Competition, item.Name, err)
	}

	demoteQuery, demoteArgs, err := qb.Update("seasons").
		SetExpr("updated_at", "NOW()").
		Set("is_current", false).
		Where(
			qb.Eq("competition", item.Competition.String()),
			qb.Eq("is_current", true),
			qb.Expr("id <> ?", row.ID),
		).
		ToSQL()
	if err != nil {
		return season.Season{}, fmt.Errorf("build demote seasons query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, demoteQuery, demoteArgs...); err != nil {
		return season.Season{}, fmt.Errorf("demote previous seasons competition=%s: %w", item.Competition, err)
	}

	if err := tx.Commit(); err != nil {
		return season.Season{}, fmt.Errorf("commit upsert current season tx: %w", err)
	}
	return row.toDomain(), nil
}
