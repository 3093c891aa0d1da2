package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction

	// matches resolves a match's gameweek for ListByUserLeagueGameweek.
	matches *MatchRepository
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) AttachMatches(matches *MatchRepository) {
	r.matches = matches
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, clonePrediction(item))
		}
	}
	return out, nil
}

func (r *PredictionRepository) ListByUserLeagueGameweek(ctx context.Context, userID, leagueID, gameweekID string) ([]prediction.Prediction, error) {
	matchIDs := make(map[string]struct{})
	if r.matches != nil {
		matches, err := r.matches.ListByGameweek(ctx, gameweekID)
		if err != nil {
			return nil, err
		}
		for _, item := range matches {
			matchIDs[item.ID] = struct{}{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.UserID != userID || item.LeagueID != leagueID {
			continue
		}
		if _, ok := matchIDs[item.MatchID]; !ok {
			continue
		}
		out = append(out, clonePrediction(item))
	}
	return out, nil
}

func (r *PredictionRepository) UpsertBatch(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, item := range items {
		if existing, ok := r.findByTriple(item.UserID, item.MatchID, item.LeagueID); ok {
			existing.HomeScore = item.HomeScore
			existing.AwayScore = item.AwayScore
			existing.UpdatedAt = now
			r.items[existing.ID] = existing
			continue
		}

		if item.ID == "" {
			item.ID = nextID("prediction")
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		r.items[item.ID] = clonePrediction(item)
	}
	return nil
}

func (r *PredictionRepository) ScoreMatch(_ context.Context, matchID string, pointsByID map[string]int, scoredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range pointsByID {
		item, ok := r.items[id]
		if !ok {
			return fmt.Errorf("prediction id=%s not found", id)
		}
		if item.MatchID != matchID {
			return fmt.Errorf("prediction id=%s does not belong to match id=%s", id, matchID)
		}
	}

	for id, points := range pointsByID {
		item := r.items[id]
		p := points
		at := scoredAt
		item.Points = &p
		item.ScoredAt = &at
		item.UpdatedAt = scoredAt
		r.items[id] = item
	}
	return nil
}

func (r *PredictionRepository) findByTriple(userID, matchID, leagueID string) (prediction.Prediction, bool) {
	for _, item := range r.items {
		if item.UserID == userID && item.MatchID == matchID && item.LeagueID == leagueID {
			return item, true
		}
	}
	return prediction.Prediction{}, false
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	out := item
	if item.Points != nil {
		points := *item.Points
		out.Points = &points
	}
	if item.ScoredAt != nil {
		at := *item.ScoredAt
		out.ScoredAt = &at
	}
	return out
}
