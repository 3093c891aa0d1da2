package season

import (
	"context"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

type Repository interface {
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	GetCurrent(ctx context.Context, comp competition.Competition) (Season, bool, error)
	ListByCompetition(ctx context.Context, comp competition.Competition) ([]Season, error)
	// UpsertCurrent stores the season keyed by (competition, name) and
	// demotes every other season of the competition in the same transaction,
	// so exactly one row per competition is current afterwards.
	UpsertCurrent(ctx context.Context, item Season) (Season, error)
}
