package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu        sync.RWMutex
	items     map[string]gameweek.Gameweek
	matchdays map[string]gameweek.Matchday
}

func NewGameweekRepository(gameweeks []gameweek.Gameweek, matchdays []gameweek.Matchday) *GameweekRepository {
	items := make(map[string]gameweek.Gameweek, len(gameweeks))
	for _, item := range gameweeks {
		items[item.ID] = item
	}
	days := make(map[string]gameweek.Matchday, len(matchdays))
	for _, item := range matchdays {
		days[item.ID] = item
	}

	return &GameweekRepository{items: items, matchdays: days}
}

func (r *GameweekRepository) GetByID(_ context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[gameweekID]
	return item, ok, nil
}

func (r *GameweekRepository) ListBySeason(_ context.Context, seasonID string) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *GameweekRepository) Upsert(_ context.Context, item gameweek.Gameweek) (gameweek.Gameweek, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if item.ID == "" {
		for _, existing := range r.items {
			if existing.SeasonID == item.SeasonID && existing.Number == item.Number {
				item.ID = existing.ID
				item.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	if item.ID == "" {
		item.ID = nextID("gameweek")
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	r.items[item.ID] = item
	return item, nil
}

func (r *GameweekRepository) ListMatchdays(_ context.Context, gameweekID string) ([]gameweek.Matchday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Matchday, 0)
	for _, item := range r.matchdays {
		if item.GameweekID == gameweekID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *GameweekRepository) UpsertMatchday(_ context.Context, item gameweek.Matchday) (gameweek.Matchday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		for _, existing := range r.matchdays {
			if existing.GameweekID == item.GameweekID && existing.Date.Equal(item.Date) {
				item.ID = existing.ID
				item.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	if item.ID == "" {
		item.ID = nextID("matchday")
		item.CreatedAt = time.Now().UTC()
	}

	r.matchdays[item.ID] = item
	return item, nil
}
