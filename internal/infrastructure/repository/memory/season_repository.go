package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[string]season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	items := make(map[string]season.Season, len(seasons))
	for _, item := range seasons {
		items[item.ID] = item
	}

	return &SeasonRepository{items: items}
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) GetCurrent(_ context.Context, comp competition.Competition) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Competition == comp && item.IsCurrent {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) ListByCompetition(_ context.Context, comp competition.Competition) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0)
	for _, item := range r.items {
		if item.Competition == comp {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SeasonRepository) UpsertCurrent(_ context.Context, item season.Season) (season.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.items {
		if existing.Competition == item.Competition && existing.Name == item.Name {
			item.ID = id
			item.CreatedAt = existing.CreatedAt
			break
		}
	}
	if item.ID == "" {
		item.ID = nextID("season")
		item.CreatedAt = now
	}
	item.IsCurrent = true
	item.UpdatedAt = now

	for id, existing := range r.items {
		if id != item.ID && existing.Competition == item.Competition && existing.IsCurrent {
			existing.IsCurrent = false
			existing.UpdatedAt = now
			r.items[id] = existing
		}
	}

	r.items[item.ID] = item
	return item, nil
}
