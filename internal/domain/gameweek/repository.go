package gameweek

import "context"

type Repository interface {
	GetByID(ctx context.Context, gameweekID string) (Gameweek, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Gameweek, error)
	// Upsert is keyed by (seasonID, number); re-sync updates the existing
	// row in place, including a moved deadline or window end.
	Upsert(ctx context.Context, item Gameweek) (Gameweek, error)
	ListMatchdays(ctx context.Context, gameweekID string) ([]Matchday, error)
	// UpsertMatchday is keyed by (gameweekID, date).
	UpsertMatchday(ctx context.Context, item Matchday) (Matchday, error)
}
