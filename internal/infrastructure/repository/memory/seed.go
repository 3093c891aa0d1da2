package memory

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/league"
)

const (
	LeagueIDOfficeFriends = "league-office-friends"
	LeagueIDFiveAside     = "league-five-aside"
)

// SeedLeagues provides the private leagues for local development. League
// creation itself has no write API yet, so seeds are the only source.
func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:          LeagueIDOfficeFriends,
			Name:        "Office Friends",
			Competition: competition.PremierLeague,
			CreatedAt:   time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          LeagueIDFiveAside,
			Name:        "Five a Side",
			Competition: competition.ChampionsLeague,
			CreatedAt:   time.Date(2025, 8, 10, 18, 30, 0, 0, time.UTC),
		},
	}
}

func SeedMembers() []league.Member {
	return []league.Member{
		{LeagueID: LeagueIDOfficeFriends, UserID: "user-ana", JoinedAt: time.Date(2025, 8, 1, 9, 5, 0, 0, time.UTC)},
		{LeagueID: LeagueIDOfficeFriends, UserID: "user-bram", JoinedAt: time.Date(2025, 8, 1, 10, 12, 0, 0, time.UTC)},
		{LeagueID: LeagueIDOfficeFriends, UserID: "user-cleo", JoinedAt: time.Date(2025, 8, 2, 7, 45, 0, 0, time.UTC)},
		{LeagueID: LeagueIDFiveAside, UserID: "user-ana", JoinedAt: time.Date(2025, 8, 10, 18, 31, 0, 0, time.UTC)},
		{LeagueID: LeagueIDFiveAside, UserID: "user-dian", JoinedAt: time.Date(2025, 8, 11, 12, 0, 0, 0, time.UTC)},
	}
}
