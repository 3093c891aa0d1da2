package team

import (
	"context"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

// Repository exposes team persistence. Upsert is keyed by provider
// external id and must never create duplicates on re-sync.
type Repository interface {
	ListByCompetition(ctx context.Context, comp competition.Competition) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Team, bool, error)
	FindByNormalizedName(ctx context.Context, normalizedName string) (Team, bool, error)
	Upsert(ctx context.Context, item Team) (Team, error)
}
