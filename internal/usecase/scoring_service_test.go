package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/infrastructure/repository/memory"
	"github.com/fwdline/prediction-league/internal/usecase"
)

type testEnv struct {
	teams       *memory.TeamRepository
	seasons     *memory.SeasonRepository
	gameweeks   *memory.GameweekRepository
	matches     *memory.MatchRepository
	predictions *memory.PredictionRepository
	standings   *memory.StandingsRepository
	leagues     *memory.LeagueRepository

	standingsSvc  *usecase.StandingsService
	scoringSvc    *usecase.ScoringService
	predictionSvc *usecase.PredictionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		teams:       memory.NewTeamRepository(nil),
		seasons:     memory.NewSeasonRepository(nil),
		gameweeks:   memory.NewGameweekRepository(nil, nil),
		matches:     memory.NewMatchRepository(nil),
		predictions: memory.NewPredictionRepository(),
		standings:   memory.NewStandingsRepository(),
		leagues:     memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedMembers()),
	}
	env.matches.Attach(env.gameweeks, env.predictions)
	env.predictions.AttachMatches(env.matches)

	env.standingsSvc = usecase.NewStandingsService(env.matches, env.predictions, env.standings, env.leagues, nil)
	env.scoringSvc = usecase.NewScoringService(env.matches, env.predictions, env.standingsSvc, nil)
	env.predictionSvc = usecase.NewPredictionService(env.predictions, env.matches, env.gameweeks, env.leagues, nil)
	return env
}

func (env *testEnv) seedSeason(t *testing.T) season.Season {
	t.Helper()

	current, err := env.seasons.UpsertCurrent(context.Background(), season.Season{
		Competition: competition.PremierLeague,
		Name:        "Premier League 2025/26",
	})
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}
	return current
}

func (env *testEnv) seedGameweek(t *testing.T, seasonID string, number int, deadline time.Time) gameweek.Gameweek {
	t.Helper()

	gw, err := env.gameweeks.Upsert(context.Background(), gameweek.Gameweek{
		SeasonID:  seasonID,
		Number:    number,
		Deadline:  deadline,
		WindowEnd: deadline.Add(52 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed gameweek: %v", err)
	}
	return gw
}

func (env *testEnv) seedMatch(t *testing.T, gameweekID string, externalID int64, kickoff time.Time) match.Match {
	t.Helper()

	item, err := env.matches.Upsert(context.Background(), match.Match{
		ExternalID: externalID,
		GameweekID: gameweekID,
		MatchdayID: "day-" + gameweekID,
		HomeTeamID: "team-home",
		AwayTeamID: "team-away",
		KickoffAt:  kickoff,
		Status:     match.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return item
}

func (env *testEnv) finishMatch(t *testing.T, item match.Match, home, away int) match.Match {
	t.Helper()

	item.Status = match.StatusFinished
	item.HomeScore = &home
	item.AwayScore = &away
	updated, err := env.matches.Upsert(context.Background(), item)
	if err != nil {
		t.Fatalf("finish match: %v", err)
	}
	return updated
}

func (env *testEnv) seedPrediction(t *testing.T, userID, matchID, leagueID string, home, away int) prediction.Prediction {
	t.Helper()

	items := []prediction.Prediction{{
		UserID:    userID,
		MatchID:   matchID,
		LeagueID:  leagueID,
		HomeScore: home,
		AwayScore: away,
	}}
	if err := env.predictions.UpsertBatch(context.Background(), items); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}

	stored, err := env.predictions.ListByMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	for _, p := range stored {
		if p.UserID == userID && p.LeagueID == leagueID {
			return p
		}
	}
	t.Fatalf("seeded prediction not found for user %s", userID)
	return prediction.Prediction{}
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name                   string
		predHome, predAway     int
		actualHome, actualAway int
		want                   int
	}{
		{"exact home win", 2, 1, 2, 1, 3},
		{"exact goalless draw", 0, 0, 0, 0, 3},
		{"right result wrong score", 2, 0, 3, 1, 1},
		{"right away win wrong score", 0, 2, 1, 3, 1},
		{"right draw wrong score", 1, 1, 2, 2, 1},
		{"wrong result", 2, 1, 0, 2, 0},
		{"predicted draw actual home win", 1, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.Points(tt.predHome, tt.predAway, tt.actualHome, tt.actualAway)
			if got != tt.want {
				t.Fatalf("Points(%d,%d vs %d,%d) = %d, want %d",
					tt.predHome, tt.predAway, tt.actualHome, tt.actualAway, got, tt.want)
			}
		})
	}
}

func TestScorePredictionsForMatch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))

	exact := env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 1)
	result := env.seedPrediction(t, "user-bram", item.ID, memory.LeagueIDOfficeFriends, 3, 0)
	miss := env.seedPrediction(t, "user-cleo", item.ID, memory.LeagueIDOfficeFriends, 0, 2)

	item = env.finishMatch(t, item, 2, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("ScorePredictionsForMatch: %v", err)
	}

	scored, err := env.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	want := map[string]int{exact.ID: 3, result.ID: 1, miss.ID: 0}
	for _, p := range scored {
		if p.Points == nil {
			t.Fatalf("prediction %s left unscored", p.ID)
		}
		if *p.Points != want[p.ID] {
			t.Fatalf("prediction %s points = %d, want %d", p.ID, *p.Points, want[p.ID])
		}
		if p.ScoredAt == nil {
			t.Fatalf("prediction %s missing scored timestamp", p.ID)
		}
	}

	score, exists, err := env.standings.GetGameweekScore(ctx, "user-ana", gw.ID, memory.LeagueIDOfficeFriends)
	if err != nil || !exists {
		t.Fatalf("gameweek score missing after scoring: exists=%v err=%v", exists, err)
	}
	if score.TotalPoints != 3 || score.ExactScores != 1 {
		t.Fatalf("gameweek score = %+v, want 3 points from one exact", score)
	}
}

func TestScorePredictionsForMatchIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	seeded := env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 1, 1)
	item = env.finishMatch(t, item, 1, 1)

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("first scoring run: %v", err)
	}
	firstRun, err := env.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}

	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("second scoring run: %v", err)
	}
	secondRun, err := env.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}

	if len(firstRun) != 1 || len(secondRun) != 1 {
		t.Fatalf("prediction count changed across runs: %d then %d", len(firstRun), len(secondRun))
	}
	if *secondRun[0].Points != 3 {
		t.Fatalf("points = %d after rerun, want 3", *secondRun[0].Points)
	}
	if !firstRun[0].ScoredAt.Equal(*secondRun[0].ScoredAt) {
		t.Fatalf("rerun moved scored timestamp for prediction %s", seeded.ID)
	}
}

func TestScorePredictionsForMatchPreconditions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))

	t.Run("unknown match is a no-op", func(t *testing.T) {
		if err := env.scoringSvc.ScorePredictionsForMatch(ctx, "missing-id"); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
	})

	t.Run("unfinished match is a no-op", func(t *testing.T) {
		item := env.seedMatch(t, gw.ID, 1002, gw.Deadline.Add(time.Hour))
		env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 0)

		if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
		stored, err := env.predictions.ListByMatch(ctx, item.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if stored[0].Points != nil {
			t.Fatalf("unfinished match got scored")
		}
	})

	t.Run("finished without score is a no-op", func(t *testing.T) {
		item := env.seedMatch(t, gw.ID, 1003, gw.Deadline.Add(time.Hour))
		env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 0)
		item.Status = match.StatusFinished
		if _, err := env.matches.Upsert(ctx, item); err != nil {
			t.Fatalf("update match: %v", err)
		}

		if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
		stored, err := env.predictions.ListByMatch(ctx, item.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if stored[0].Points != nil {
			t.Fatalf("match without final score got scored")
		}
	})
}

func TestScorePredictionsForMatchCorrectedResult(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	seeded := env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 1)

	item = env.finishMatch(t, item, 2, 1)
	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("first scoring run: %v", err)
	}

	// A later sync corrects the final score; an exact hit becomes a miss.
	item = env.finishMatch(t, item, 0, 2)
	if err := env.scoringSvc.ScorePredictionsForMatch(ctx, item.ID); err != nil {
		t.Fatalf("rescore after correction: %v", err)
	}

	scored, err := env.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	if len(scored) != 1 || scored[0].Points == nil {
		t.Fatalf("prediction %s missing after correction: %+v", seeded.ID, scored)
	}
	if *scored[0].Points != 0 {
		t.Fatalf("points = %d after corrected result, want 0", *scored[0].Points)
	}

	score, exists, err := env.standings.GetGameweekScore(ctx, "user-ana", gw.ID, memory.LeagueIDOfficeFriends)
	if err != nil || !exists {
		t.Fatalf("gameweek score missing after correction: exists=%v err=%v", exists, err)
	}
	if score.TotalPoints != 0 || score.ExactScores != 0 {
		t.Fatalf("gameweek score = %+v, want zeroed after correction", score)
	}
}

func TestApplyManualResult(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))
	item := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	seeded := env.seedPrediction(t, "user-ana", item.ID, memory.LeagueIDOfficeFriends, 2, 1)

	if err := env.scoringSvc.ApplyManualResult(ctx, item.ID, 2, 1); err != nil {
		t.Fatalf("ApplyManualResult: %v", err)
	}

	stored, exists, err := env.matches.GetByID(ctx, item.ID)
	if err != nil || !exists {
		t.Fatalf("load match: exists=%v err=%v", exists, err)
	}
	if stored.Status != match.StatusFinished || !stored.HasFinalScore() {
		t.Fatalf("match not settled: status=%s home=%v away=%v", stored.Status, stored.HomeScore, stored.AwayScore)
	}

	scored, err := env.predictions.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	if len(scored) != 1 || scored[0].Points == nil || *scored[0].Points != 3 {
		t.Fatalf("prediction %s not scored from manual result: %+v", seeded.ID, scored)
	}

	t.Run("correcting an already scored match", func(t *testing.T) {
		if err := env.scoringSvc.ApplyManualResult(ctx, item.ID, 0, 2); err != nil {
			t.Fatalf("ApplyManualResult correction: %v", err)
		}
		rescored, err := env.predictions.ListByMatch(ctx, item.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if rescored[0].Points == nil || *rescored[0].Points != 0 {
			t.Fatalf("corrected points = %v, want 0", rescored[0].Points)
		}
	})

	t.Run("unknown match", func(t *testing.T) {
		err := env.scoringSvc.ApplyManualResult(ctx, "missing-id", 1, 0)
		if !errors.Is(err, usecase.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("negative score", func(t *testing.T) {
		err := env.scoringSvc.ApplyManualResult(ctx, item.ID, -1, 0)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("empty match id", func(t *testing.T) {
		err := env.scoringSvc.ApplyManualResult(ctx, "", 1, 0)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestScorePendingFinished(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	gw := env.seedGameweek(t, current.ID, 1, time.Now().Add(-48*time.Hour))

	first := env.seedMatch(t, gw.ID, 1001, gw.Deadline.Add(time.Hour))
	second := env.seedMatch(t, gw.ID, 1002, gw.Deadline.Add(2*time.Hour))
	env.seedPrediction(t, "user-ana", first.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.seedPrediction(t, "user-ana", second.ID, memory.LeagueIDOfficeFriends, 0, 0)
	env.finishMatch(t, first, 2, 1)
	env.finishMatch(t, second, 1, 0)

	scored, err := env.scoringSvc.ScorePendingFinished(ctx)
	if err != nil {
		t.Fatalf("ScorePendingFinished: %v", err)
	}
	if scored != 2 {
		t.Fatalf("scored %d matches, want 2", scored)
	}

	again, err := env.scoringSvc.ScorePendingFinished(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again != 0 {
		t.Fatalf("second sweep scored %d matches, want 0", again)
	}
}
