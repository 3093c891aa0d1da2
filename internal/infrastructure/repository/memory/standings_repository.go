package memory

import (
	"context"
	"sync"

	"github.com/fwdline/prediction-league/internal/domain/standings"
)

type StandingsRepository struct {
	mu             sync.RWMutex
	gameweekScores map[string]standings.GameweekScore
	leagueRows     map[string]standings.LeagueStanding
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{
		gameweekScores: make(map[string]standings.GameweekScore),
		leagueRows:     make(map[string]standings.LeagueStanding),
	}
}

func gameweekScoreKey(userID, gameweekID, leagueID string) string {
	return userID + "|" + gameweekID + "|" + leagueID
}

func leagueStandingKey(userID, leagueID string) string {
	return userID + "|" + leagueID
}

func (r *StandingsRepository) GetGameweekScore(_ context.Context, userID, gameweekID, leagueID string) (standings.GameweekScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.gameweekScores[gameweekScoreKey(userID, gameweekID, leagueID)]
	return item, ok, nil
}

func (r *StandingsRepository) ListGameweekScoresByUserLeague(_ context.Context, userID, leagueID string) ([]standings.GameweekScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.GameweekScore, 0)
	for _, item := range r.gameweekScores {
		if item.UserID == userID && item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *StandingsRepository) UpsertGameweekScore(_ context.Context, item standings.GameweekScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gameweekScores[gameweekScoreKey(item.UserID, item.GameweekID, item.LeagueID)] = item
	return nil
}

func (r *StandingsRepository) GetLeagueStanding(_ context.Context, userID, leagueID string) (standings.LeagueStanding, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagueRows[leagueStandingKey(userID, leagueID)]
	return item, ok, nil
}

func (r *StandingsRepository) ListLeagueStandings(_ context.Context, leagueID string) ([]standings.LeagueStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.LeagueStanding, 0)
	for _, item := range r.leagueRows {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *StandingsRepository) UpsertLeagueStanding(_ context.Context, item standings.LeagueStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagueRows[leagueStandingKey(item.UserID, item.LeagueID)] = item
	return nil
}

func (r *StandingsRepository) UpdateRanks(_ context.Context, leagueID string, items []standings.LeagueStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.LeagueID != leagueID {
			continue
		}
		key := leagueStandingKey(item.UserID, item.LeagueID)
		existing, ok := r.leagueRows[key]
		if !ok {
			continue
		}
		existing.CurrentRank = item.CurrentRank
		existing.PreviousRank = item.PreviousRank
		existing.UpdatedAt = item.UpdatedAt
		r.leagueRows[key] = existing
	}
	return nil
}
