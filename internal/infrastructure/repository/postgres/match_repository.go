package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/match"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return r.getOne(ctx, qb.Eq("id", matchID))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *MatchRepository) getOne(ctx context.Context, cond qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("gameweek_id", gameweekID)).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := qb.Select("m.*").From("matches m").
		Where(qb.Expr("m.gameweek_id IN (SELECT id FROM gameweeks WHERE season_id = ?)", seasonID)).
		OrderBy("m.kickoff_at", "m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season matches query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *MatchRepository) list(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	if item.ID == "" {
		generated, err := newRowID()
		if err != nil {
			return match.Match{}, fmt.Errorf("generate match id: %w", err)
		}
		item.ID = generated
	}

	insertModel := matchInsertModel{
		ID:         item.ID,
		ExternalID: item.ExternalID,
		MatchdayID: item.MatchdayID,
		GameweekID: item.GameweekID,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		KickoffAt:  item.KickoffAt.UTC(),
		Status:     match.NormalizeStatus(item.Status),
		HomeScore:  ptrToNullInt(item.HomeScore),
		AwayScore:  ptrToNullInt(item.AwayScore),
		Venue:      item.Venue,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    matchday_id = EXCLUDED.matchday_id,
    gameweek_id = EXCLUDED.gameweek_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    venue = EXCLUDED.venue,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
	}
	return row.toDomain(), nil
}

// ListFinishedWithUnscoredPredictions scans for finished matches whose
// predictions still miss points. The list stays small because scoring
// normally runs right after a result lands.
func (r *MatchRepository) ListFinishedWithUnscoredPredictions(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT m.id
FROM matches m
JOIN predictions p ON p.match_id = m.id
WHERE m.status = $1
  AND m.home_score IS NOT NULL
  AND m.away_score IS NOT NULL
  AND p.points IS NULL`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, match.StatusFinished); err != nil {
		return nil, fmt.Errorf("select finished matches with unscored predictions: %w", err)
	}
	return ids, nil
}
