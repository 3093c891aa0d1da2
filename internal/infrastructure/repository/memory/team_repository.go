package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		items[item.ID] = item
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) ListByCompetition(_ context.Context, comp competition.Competition) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		if item.Competition == comp {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) FindByNormalizedName(_ context.Context, normalizedName string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if team.NormalizeName(item.Name) == normalizedName {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if item.ID == "" {
		for _, existing := range r.items {
			if existing.ExternalID == item.ExternalID {
				item.ID = existing.ID
				item.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	if item.ID == "" {
		item.ID = nextID("team")
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	r.items[item.ID] = item
	return item, nil
}
