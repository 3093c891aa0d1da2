package match

import "context"

type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Match, bool, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]Match, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
	// Upsert is keyed by provider external id.
	Upsert(ctx context.Context, item Match) (Match, error)
	// ListFinishedWithUnscoredPredictions returns ids of finished matches
	// that still have at least one prediction without points. It is the
	// scheduler's gap-closer between results landing and scoring running.
	ListFinishedWithUnscoredPredictions(ctx context.Context) ([]string, error)
}
