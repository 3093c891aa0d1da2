package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/league"
	"github.com/fwdline/prediction-league/internal/infrastructure/repository/memory"
	"github.com/fwdline/prediction-league/internal/usecase"
)

func TestRecomputeForMatchAggregates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))

	first := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	second := env.seedMatch(t, gw.ID, 1002, gw.Deadline.Add(2*time.Hour))

	// Ana: one exact, one correct result. Bram: one wrong, one exact.
	env.seedPrediction(t, "user-ana", first.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.seedPrediction(t, "user-ana", second.ID, memory.LeagueIDOfficeFriends, 1, 0)
	env.seedPrediction(t, "user-bram", first.ID, memory.LeagueIDOfficeFriends, 0, 3)
	env.seedPrediction(t, "user-bram", second.ID, memory.LeagueIDOfficeFriends, 3, 1)

	env.finishMatch(t, first, 2, 1)
	env.finishMatch(t, second, 3, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, first.ID); err != nil {
		t.Fatalf("score first match: %v", err)
	}
	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, second.ID); err != nil {
		t.Fatalf("score second match: %v", err)
	}

	ana, exists, err := env.standings.GetGameweekScore(ctx, "user-ana", gw.ID, memory.LeagueIDOfficeFriends)
	if err != nil || !exists {
		t.Fatalf("ana gameweek score missing: exists=%v err=%v", exists, err)
	}
	if ana.TotalPoints != 4 || ana.ExactScores != 1 || ana.CorrectResults != 1 || ana.ScoredMatches != 2 {
		t.Fatalf("ana gameweek score = %+v, want 4 points (1 exact, 1 result)", ana)
	}

	bram, exists, err := env.standings.GetGameweekScore(ctx, "user-bram", gw.ID, memory.LeagueIDOfficeFriends)
	if err != nil || !exists {
		t.Fatalf("bram gameweek score missing: exists=%v err=%v", exists, err)
	}
	if bram.TotalPoints != 3 || bram.ExactScores != 1 || bram.CorrectResults != 0 {
		t.Fatalf("bram gameweek score = %+v, want 3 points from one exact", bram)
	}

	table, err := env.standingsSvc.LeagueTable(ctx, memory.LeagueIDOfficeFriends, "user-ana")
	if err != nil {
		t.Fatalf("LeagueTable: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("table has %d rows, want 2", len(table))
	}
	if table[0].UserID != "user-ana" || table[0].Rank != 1 {
		t.Fatalf("rank 1 = %+v, want ana first", table[0])
	}
	if table[1].UserID != "user-bram" || table[1].Rank != 2 {
		t.Fatalf("rank 2 = %+v, want bram second", table[1])
	}
}

func TestRecomputeForMatchConverges(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 1)
	item = env.finishMatch(t, item, 2, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("score match: %v", err)
	}
	before, _, err := env.standings.GetLeagueStanding(ctx, "user-ana", memory.LeagueIDOfficeFriends)
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := env.standingsSvc.RecomputeForMatch(ctx, memory.LeagueIDOfficeFriends, item.ID); err != nil {
			t.Fatalf("recompute %d: %v", i, err)
		}
	}

	after, _, err := env.standings.GetLeagueStanding(ctx, "user-ana", memory.LeagueIDOfficeFriends)
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	if after.TotalPoints != before.TotalPoints ||
		after.GameweeksPlayed != before.GameweeksPlayed ||
		after.CurrentRank != before.CurrentRank {
		t.Fatalf("recompute drifted: before=%+v after=%+v", before, after)
	}
}

func TestRankTieBreaks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))

	first := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	second := env.seedMatch(t, gw.ID, 1002, gw.Deadline.Add(2*time.Hour))
	third := env.seedMatch(t, gw.ID, 1003, gw.Deadline.Add(3*time.Hour))

	// Ana and Bram both land on 3 points: Ana from one exact score,
	// Bram from three correct results. Exact scores break the tie.
	env.seedPrediction(t, "user-ana", first.ID, memory.LeagueIDOfficeFriends, 2, 0)
	env.seedPrediction(t, "user-ana", second.ID, memory.LeagueIDOfficeFriends, 0, 1)
	env.seedPrediction(t, "user-ana", third.ID, memory.LeagueIDOfficeFriends, 1, 1)
	env.seedPrediction(t, "user-bram", first.ID, memory.LeagueIDOfficeFriends, 1, 0)
	env.seedPrediction(t, "user-bram", second.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.seedPrediction(t, "user-bram", third.ID, memory.LeagueIDOfficeFriends, 3, 2)

	env.finishMatch(t, first, 2, 0)
	env.finishMatch(t, second, 3, 0)
	env.finishMatch(t, third, 2, 1)

	for _, id := range []string{first.ID, second.ID, third.ID} {
		if err := env.scoringSvc.ScorePredictionsForMatch(ctx, id); err != nil {
			t.Fatalf("score match %s: %v", id, err)
		}
	}

	table, err := env.standingsSvc.LeagueTable(ctx, memory.LeagueIDOfficeFriends, "user-ana")
	if err != nil {
		t.Fatalf("LeagueTable: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("table has %d rows, want 2", len(table))
	}
	if table[0].TotalPoints != table[1].TotalPoints {
		t.Fatalf("totals differ (%d vs %d), scenario no longer a tie",
			table[0].TotalPoints, table[1].TotalPoints)
	}
	if table[0].UserID != "user-ana" {
		t.Fatalf("rank 1 = %s, want user-ana on the exact-scores tie-break", table[0].UserID)
	}
	if table[1].UserID != "user-bram" || table[1].Rank != 2 {
		t.Fatalf("rank 2 = %+v, want user-bram", table[1])
	}
}

func TestRankJoinedAtTieBreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))

	// Identical predictions, identical everything. Ana joined first.
	env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.seedPrediction(t, "user-bram", item.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.finishMatch(t, item, 2, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("score match: %v", err)
	}

	table, err := env.standingsSvc.LeagueTable(ctx, memory.LeagueIDOfficeFriends, "user-ana")
	if err != nil {
		t.Fatalf("LeagueTable: %v", err)
	}
	if table[0].UserID != "user-ana" || table[1].UserID != "user-bram" {
		t.Fatalf("order = [%s, %s], want earliest joined member first",
			table[0].UserID, table[1].UserID)
	}
}

func TestRankUserIDTieBreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Members who joined in the same instant, so every comparator ahead
	// of the user id falls through.
	const leagueID = "league-sunday"
	joined := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	env.leagues = memory.NewLeagueRepository(
		[]league.League{{
			ID:          leagueID,
			Name:        "Sunday League",
			Competition: competition.PremierLeague,
			CreatedAt:   joined,
		}},
		[]league.Member{
			{LeagueID: leagueID, UserID: "user-zoe", JoinedAt: joined},
			{LeagueID: leagueID, UserID: "user-abe", JoinedAt: joined},
			{LeagueID: leagueID, UserID: "user-mia", JoinedAt: joined},
		},
	)
	env.standingsSvc = usecase.NewStandingsService(env.matches, env.predictions, env.standings, env.leagues, nil)
	env.scoringSvc = usecase.NewScoringService(env.matches, env.predictions, env.standingsSvc, nil)

	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))

	env.seedPrediction(t, "user-zoe", item.ID, leagueID, 2, 1)
	env.seedPrediction(t, "user-abe", item.ID, leagueID, 2, 1)
	env.seedPrediction(t, "user-mia", item.ID, leagueID, 2, 1)
	env.finishMatch(t, item, 2, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("score match: %v", err)
	}

	table, err := env.standingsSvc.LeagueTable(ctx, leagueID, "user-abe")
	if err != nil {
		t.Fatalf("LeagueTable: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("table has %d rows, want 3", len(table))
	}
	want := []string{"user-abe", "user-mia", "user-zoe"}
	for i, userID := range want {
		if table[i].UserID != userID || table[i].Rank != i+1 {
			t.Fatalf("row %d = %s rank %d, want %s rank %d",
				i, table[i].UserID, table[i].Rank, userID, i+1)
		}
	}
}

func TestRankMovementCarriesPreviousRank(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw1 := env.seedGameweek(t, current.ID, 1, time.Now().Add(-96*time.Hour))
	gw2 := env.seedGameweek(t, current.ID, 2, time.Now().Add(-48*time.Hour))

	first := env.seedMatch(t, gw1.ID, 1001, gw1.Deadline.Add(time.Hour))
	second := env.seedMatch(t, gw2.ID, 2001, gw2.Deadline.Add(time.Hour))

	// Round one: Ana leads on a correct result. Round two: Bram's exact
	// score takes the lead.
	env.seedPrediction(t, "user-ana", first.ID, memory.LeagueIDOfficeFriends, 2, 0)
	env.seedPrediction(t, "user-bram", first.ID, memory.LeagueIDOfficeFriends, 0, 1)
	env.seedPrediction(t, "user-ana", second.ID, memory.LeagueIDOfficeFriends, 0, 3)
	env.seedPrediction(t, "user-bram", second.ID, memory.LeagueIDOfficeFriends, 2, 0)

	env.finishMatch(t, first, 1, 0)
	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, first.ID); err != nil {
		t.Fatalf("score round one: %v", err)
	}

	env.finishMatch(t, second, 2, 0)
	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, second.ID); err != nil {
		t.Fatalf("score round two: %v", err)
	}

	bram, exists, err := env.standings.GetLeagueStanding(ctx, "user-bram", memory.LeagueIDOfficeFriends)
	if err != nil || !exists {
		t.Fatalf("bram standing missing: exists=%v err=%v", exists, err)
	}
	if bram.CurrentRank != 1 {
		t.Fatalf("bram rank = %d, want 1 after overtaking", bram.CurrentRank)
	}
	if bram.PreviousRank != 2 {
		t.Fatalf("bram previous rank = %d, want 2", bram.PreviousRank)
	}

	ana, _, err := env.standings.GetLeagueStanding(ctx, "user-ana", memory.LeagueIDOfficeFriends)
	if err != nil {
		t.Fatalf("get ana standing: %v", err)
	}
	if ana.CurrentRank != 2 || ana.PreviousRank != 1 {
		t.Fatalf("ana ranks = current %d previous %d, want 2/1", ana.CurrentRank, ana.PreviousRank)
	}
}

func TestLeagueTableAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("non-member is rejected", func(t *testing.T) {
		_, err := env.standingsSvc.LeagueTable(ctx, memory.LeagueIDOfficeFriends, "user-stranger")
		if !errors.Is(err, usecase.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown league", func(t *testing.T) {
		_, err := env.standingsSvc.LeagueTable(ctx, "league-missing", "user-ana")
		if !errors.Is(err, usecase.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty league id", func(t *testing.T) {
		_, err := env.standingsSvc.LeagueTable(ctx, "", "user-ana")
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}
