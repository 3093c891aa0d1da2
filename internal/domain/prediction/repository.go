package prediction

import (
	"context"
	"time"
)

type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByUserLeagueGameweek(ctx context.Context, userID, leagueID, gameweekID string) ([]Prediction, error)
	// UpsertBatch writes every entry or none: it runs inside one
	// transaction and conflicts on (user_id, match_id, league_id) replace
	// the predicted scores of the existing row.
	UpsertBatch(ctx context.Context, items []Prediction) error
	// ScoreMatch assigns points to every prediction of the match in a
	// single transaction so no reader observes a half-scored match.
	ScoreMatch(ctx context.Context, matchID string, pointsByID map[string]int, scoredAt time.Time) error
}
