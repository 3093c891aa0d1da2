package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/prediction"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions by match: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) ListByUserLeagueGameweek(ctx context.Context, userID, leagueID, gameweekID string) ([]prediction.Prediction, error) {
	const query = `
SELECT p.*
FROM predictions p
JOIN matches m ON m.id = p.match_id
WHERE p.user_id = $1
  AND p.league_id = $2
  AND m.gameweek_id = $3
ORDER BY m.kickoff_at, p.id`

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID, leagueID, gameweekID); err != nil {
		return nil, fmt.Errorf("select predictions by user league gameweek: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpsertBatch writes the whole batch in one transaction. A conflicting
// (user_id, match_id, league_id) row gets its predicted scores replaced.
func (r *PredictionRepository) UpsertBatch(ctx context.Context, items []prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if item.ID == "" {
			generated, err := newRowID()
			if err != nil {
				return fmt.Errorf("generate prediction id: %w", err)
			}
			item.ID = generated
		}

		insertModel := predictionInsertModel{
			ID:        item.ID,
			UserID:    item.UserID,
			MatchID:   item.MatchID,
			LeagueID:  item.LeagueID,
			HomeScore: item.HomeScore,
			AwayScore: item.AwayScore,
		}
		query, args, err := qb.InsertModel("predictions", insertModel, `ON CONFLICT (user_id, match_id, league_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction user=%s match=%s: %w", item.UserID, item.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}
	return nil
}

// ScoreMatch assigns points to the given predictions in one transaction.
func (r *PredictionRepository) ScoreMatch(ctx context.Context, matchID string, pointsByID map[string]int, scoredAt time.Time) error {
	if len(pointsByID) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx score match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for predictionID, points := range pointsByID {
		query, args, err := qb.Update("predictions").
			Set("points", points).
			Set("scored_at", scoredAt.UTC()).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("id", predictionID),
				qb.Eq("match_id", matchID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build score prediction query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("score prediction id=%s: %w", predictionID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("score prediction id=%s rows affected: %w", predictionID, err)
		}
		if affected == 0 {
			return fmt.Errorf("prediction id=%s not found for match id=%s", predictionID, matchID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score match tx: %w", err)
	}
	return nil
}
