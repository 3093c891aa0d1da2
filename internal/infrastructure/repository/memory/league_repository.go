package memory

import (
	"context"
	"sync"

	"github.com/fwdline/prediction-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	orders  []string
	members map[string][]league.Member
}

func NewLeagueRepository(leagues []league.League, members []league.Member) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))
	for _, item := range leagues {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	byLeague := make(map[string][]league.Member)
	for _, member := range members {
		byLeague[member.LeagueID] = append(byLeague[member.LeagueID], member)
	}

	return &LeagueRepository{items: items, orders: orders, members: byLeague}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members[leagueID] {
		if member.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.members[leagueID]
	out := make([]league.Member, 0, len(items))
	out = append(out, items...)
	return out, nil
}
