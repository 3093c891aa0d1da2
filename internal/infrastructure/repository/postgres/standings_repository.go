package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fwdline/prediction-league/internal/domain/standings"
	qb "github.com/fwdline/prediction-league/internal/platform/querybuilder"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) GetGameweekScore(ctx context.Context, userID, gameweekID, leagueID string) (standings.GameweekScore, bool, error) {
	query, args, err := qb.Select("*").From("user_gameweek_scores").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("gameweek_id", gameweekID),
			qb.Eq("league_id", leagueID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.GameweekScore{}, false, fmt.Errorf("build select gameweek score query: %w", err)
	}

	var row gameweekScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.GameweekScore{}, false, nil
		}
		return standings.GameweekScore{}, false, fmt.Errorf("select gameweek score: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingsRepository) ListGameweekScoresByUserLeague(ctx context.Context, userID, leagueID string) ([]standings.GameweekScore, error) {
	query, args, err := qb.Select("*").From("user_gameweek_scores").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
		).
		OrderBy("gameweek_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gameweek scores query: %w", err)
	}

	var rows []gameweekScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gameweek scores by user league: %w", err)
	}

	out := make([]standings.GameweekScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingsRepository) UpsertGameweekScore(ctx context.Context, item standings.GameweekScore) error {
	insertModel := gameweekScoreTableModel{
		UserID:           item.UserID,
		GameweekID:       item.GameweekID,
		LeagueID:         item.LeagueID,
		TotalPoints:      item.TotalPoints,
		ExactScores:      item.ExactScores,
		CorrectResults:   item.CorrectResults,
		PredictedMatches: item.PredictedMatches,
		ScoredMatches:    item.ScoredMatches,
		UpdatedAt:        item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("user_gameweek_scores", insertModel, `ON CONFLICT (user_id, gameweek_id, league_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    exact_scores = EXCLUDED.exact_scores,
    correct_results = EXCLUDED.correct_results,
    predicted_matches = EXCLUDED.predicted_matches,
    scored_matches = EXCLUDED.scored_matches,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert gameweek score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert gameweek score user=%s gameweek=%s: %w", item.UserID, item.GameweekID, err)
	}
	return nil
}

func (r *StandingsRepository) GetLeagueStanding(ctx context.Context, userID, leagueID string) (standings.LeagueStanding, bool, error) {
	query, args, err := qb.Select("*").From("user_league_standings").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_id", leagueID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.LeagueStanding{}, false, fmt.Errorf("build select league standing query: %w", err)
	}

	var row leagueStandingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.LeagueStanding{}, false, nil
		}
		return standings.LeagueStanding{}, false, fmt.Errorf("select league standing: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingsRepository) ListLeagueStandings(ctx context.Context, leagueID string) ([]standings.LeagueStanding, error) {
	query, args, err := qb.Select("*").From("user_league_standings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("current_rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league standings query: %w", err)
	}

	var rows []leagueStandingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league standings: %w", err)
	}

	out := make([]standings.LeagueStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingsRepository) UpsertLeagueStanding(ctx context.Context, item standings.LeagueStanding) error {
	insertModel := leagueStandingTableModel{
		UserID:          item.UserID,
		LeagueID:        item.LeagueID,
		TotalPoints:     item.TotalPoints,
		GameweeksPlayed: item.GameweeksPlayed,
		ExactScores:     item.ExactScores,
		CorrectResults:  item.CorrectResults,
		CurrentRank:     item.CurrentRank,
		PreviousRank:    item.PreviousRank,
		UpdatedAt:       item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("user_league_standings", insertModel, `ON CONFLICT (user_id, league_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    gameweeks_played = EXCLUDED.gameweeks_played,
    exact_scores = EXCLUDED.exact_scores,
    correct_results = EXCLUDED.correct_results,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert league standing query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league standing user=%s league=%s: %w", item.UserID, item.LeagueID, err)
	}
	return nil
}

// UpdateRanks rewrites ranks for the given rows in one transaction.
func (r *StandingsRepository) UpdateRanks(ctx context.Context, leagueID string, items []standings.LeagueStanding) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update ranks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.Update("user_league_standings").
			Set("current_rank", item.CurrentRank).
			Set("previous_rank", item.PreviousRank).
			Set("updated_at", item.UpdatedAt).
			Where(
				qb.Eq("user_id", item.UserID),
				qb.Eq("league_id", leagueID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update rank query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update rank user=%s league=%s: %w", item.UserID, leagueID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update ranks tx: %w", err)
	}
	return nil
}
