package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match

	// gameweeks resolves a match's season for ListBySeason; predictions
	// resolves scoring gaps for ListFinishedWithUnscoredPredictions. Both
	// are optional.
	gameweeks   *GameweekRepository
	predictions *PredictionRepository
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		items[item.ID] = item
	}

	return &MatchRepository{items: items}
}

// Attach wires the sibling repositories used by the derived queries.
func (r *MatchRepository) Attach(gameweeks *GameweekRepository, predictions *PredictionRepository) {
	r.gameweeks = gameweeks
	r.predictions = predictions
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) ListByGameweek(_ context.Context, gameweekID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if item.GameweekID == gameweekID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	gameweekIDs := make(map[string]struct{})
	if r.gameweeks != nil {
		rounds, err := r.gameweeks.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		for _, round := range rounds {
			gameweekIDs[round.ID] = struct{}{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if _, ok := gameweekIDs[item.GameweekID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, error) {
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
		item.ID = nextID("match")
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	r.items[item.ID] = item
	return item, nil
}

func (r *MatchRepository) ListFinishedWithUnscoredPredictions(ctx context.Context) ([]string, error) {
	if r.predictions == nil {
		return nil, nil
	}

	r.mu.RLock()
	finished := make([]match.Match, 0)
	for _, item := range r.items {
		if item.HasFinalScore() {
			finished = append(finished, item)
		}
	}
	r.mu.RUnlock()

	out := make([]string, 0)
	for _, item := range finished {
		predictions, err := r.predictions.ListByMatch(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range predictions {
			if p.Points == nil {
				out = append(out, item.ID)
				break
			}
		}
	}
	return out, nil
}
