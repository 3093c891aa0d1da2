package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select("*").From("gameweeks").
		Where(qb.Eq("id", gameweekID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build select gameweek query: %w", err)
	}

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("select gameweek: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameweekRepository) ListBySeason(ctx context.Context, seasonID string) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select("*").From("gameweeks").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gameweeks by season: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameweekRepository) Upsert(ctx context.Context, item gameweek.Gameweek) (gameweek.Gameweek, error) {
	if item.ID == "" {
		generated, err := newRowID()
		if err != nil {
			return gameweek.Gameweek{}, fmt.Errorf("generate gameweek id: %w", err)
		}
		item.ID = generated
	}

	insertModel := gameweekInsertModel{
		ID:        item.ID,
		SeasonID:  item.SeasonID,
		Number:    item.Number,
		Deadline:  item.Deadline.UTC(),
		WindowEnd: item.WindowEnd.UTC(),
	}
	query, args, err := qb.InsertModel("gameweeks", insertModel, `ON CONFLICT (season_id, number)
DO UPDATE SET
    deadline = EXCLUDED.deadline,
    window_end = EXCLUDED.window_end,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("build upsert gameweek query: %w", err)
	}

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("upsert gameweek season=%s number=%d: %w", item.SeasonID, item.Number, err)
	}
	return row.toDomain(), nil
}

func (r *GameweekRepository) ListMatchdays(ctx context.Context, gameweekID string) ([]gameweek.Matchday, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(qb.Eq("gameweek_id", gameweekID)).
		OrderBy("date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matchdays query: %w", err)
	}

	var rows []matchdayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchdays by gameweek: %w", err)
	}

	out := make([]gameweek.Matchday, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameweekRepository) UpsertMatchday(ctx context.Context, item gameweek.Matchday) (gameweek.Matchday, error) {
	if item.ID == "" {
		generated, err := newRowID()
		if err != nil {
			return gameweek.Matchday{}, fmt.Errorf("generate matchday id: %w", err)
		}
		item.ID = generated
	}

	insertModel := matchdayInsertModel{
		ID:         item.ID,
		GameweekID: item.GameweekID,
		Date:       item.Date.UTC(),
	}
	query, args, err := qb.InsertModel("matchdays", insertModel, `ON CONFLICT (gameweek_id, date)
DO UPDATE SET date = EXCLUDED.date
RETURNING *`)
	if err != nil {
		return gameweek.Matchday{}, fmt.Errorf("build upsert matchday query: %w", err)
	}

	var row matchdayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return gameweek.Matchday{}, fmt.Errorf("upsert matchday gameweek=%s: %w", item.GameweekID, err)
	}
	return row.toDomain(), nil
}
