package standings

import "context"

type Repository interface {
	GetGameweekScore(ctx context.Context, userID, gameweekID, leagueID string) (GameweekScore, bool, error)
	ListGameweekScoresByUserLeague(ctx context.Context, userID, leagueID string) ([]GameweekScore, error)
	UpsertGameweekScore(ctx context.Context, item GameweekScore) error

	GetLeagueStanding(ctx context.Context, userID, leagueID string) (LeagueStanding, bool, error)
	ListLeagueStandings(ctx context.Context, leagueID string) ([]LeagueStanding, error)
	UpsertLeagueStanding(ctx context.Context, item LeagueStanding) error
	// UpdateRanks rewrites current/previous rank for the given rows in one
	// transaction, after the caller has ordered them.
	UpdateRanks(ctx context.Context, leagueID string, items []LeagueStanding) error
}
