package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwdline/prediction-league/internal/infrastructure/repository/memory"
	"github.com/fwdline/prediction-league/internal/usecase"
)

func TestSubmitPredictions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	open := env.seedGameweek(t, current.ID, 1, time.Now().Add(24*time.Hour))
	closed := env.seedGameweek(t, current.ID, 2, time.Now().Add(-time.Hour))

	openMatch := env.seedMatch(t, open.ID, 1001, open.Deadline.Add(time.Hour))
	otherMatch := env.seedMatch(t, closed.ID, 2001, closed.Deadline.Add(time.Hour))

	valid := []usecase.PredictionEntry{{MatchID: openMatch.ID, HomeScore: 2, AwayScore: 1}}

	t.Run("accepted before deadline", func(t *testing.T) {
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, valid)
		if err != nil {
			t.Fatalf("SubmitPredictions: %v", err)
		}

		stored, err := env.predictions.ListByMatch(ctx, openMatch.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if len(stored) != 1 || stored[0].HomeScore != 2 || stored[0].AwayScore != 1 {
			t.Fatalf("stored = %+v, want one 2-1 prediction", stored)
		}
	})

	t.Run("resubmission replaces scores", func(t *testing.T) {
		update := []usecase.PredictionEntry{{MatchID: openMatch.ID, HomeScore: 0, AwayScore: 0}}
		if err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, update); err != nil {
			t.Fatalf("resubmit: %v", err)
		}

		stored, err := env.predictions.ListByMatch(ctx, openMatch.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("resubmission created a second row: %d rows", len(stored))
		}
		if stored[0].HomeScore != 0 || stored[0].AwayScore != 0 {
			t.Fatalf("stored = %d-%d, want the replacement 0-0", stored[0].HomeScore, stored[0].AwayScore)
		}
	})

	t.Run("non-member", func(t *testing.T) {
		err := env.predictionSvc.SubmitPredictions(ctx, "user-stranger", memory.LeagueIDOfficeFriends, open.ID, valid)
		if !errors.Is(err, usecase.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown gameweek", func(t *testing.T) {
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, "gw-missing", valid)
		if !errors.Is(err, usecase.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, nil)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("score below range", func(t *testing.T) {
		entries := []usecase.PredictionEntry{{MatchID: openMatch.ID, HomeScore: -1, AwayScore: 0}}
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, entries)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("score above range", func(t *testing.T) {
		entries := []usecase.PredictionEntry{{MatchID: openMatch.ID, HomeScore: 0, AwayScore: 21}}
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, entries)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("match outside gameweek", func(t *testing.T) {
		entries := []usecase.PredictionEntry{{MatchID: otherMatch.ID, HomeScore: 1, AwayScore: 0}}
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, entries)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("duplicate match in batch", func(t *testing.T) {
		entries := []usecase.PredictionEntry{
			{MatchID: openMatch.ID, HomeScore: 1, AwayScore: 0},
			{MatchID: openMatch.ID, HomeScore: 2, AwayScore: 0},
		}
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, entries)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("after deadline", func(t *testing.T) {
		entries := []usecase.PredictionEntry{{MatchID: otherMatch.ID, HomeScore: 1, AwayScore: 0}}
		err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, closed.ID, entries)
		if !errors.Is(err, usecase.ErrDeadlinePassed) {
			t.Fatalf("err = %v, want ErrDeadlinePassed", err)
		}

		stored, err := env.predictions.ListByMatch(ctx, otherMatch.ID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if len(stored) != 0 {
			t.Fatalf("rejected batch still wrote %d rows", len(stored))
		}
	})
}

func TestSubmitPredictionsRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	open := env.seedGameweek(t, current.ID, 1, time.Now().Add(24*time.Hour))
	first := env.seedMatch(t, open.ID, 1001, open.Deadline.Add(time.Hour))
	second := env.seedMatch(t, open.ID, 1002, open.Deadline.Add(2*time.Hour))

	entries := []usecase.PredictionEntry{
		{MatchID: first.ID, HomeScore: 2, AwayScore: 1},
		{MatchID: second.ID, HomeScore: 25, AwayScore: 0},
	}
	err := env.predictionSvc.SubmitPredictions(ctx, "user-ana", memory.LeagueIDOfficeFriends, open.ID, entries)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	for _, matchID := range []string{first.ID, second.ID} {
		stored, err := env.predictions.ListByMatch(ctx, matchID)
		if err != nil {
			t.Fatalf("list predictions: %v", err)
		}
		if len(stored) != 0 {
			t.Fatalf("partial write: match %s has %d rows", matchID, len(stored))
		}
	}
}

func TestListUserPredictions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	current := env.seedSeason(t)
	open := env.seedGameweek(t, current.ID, 1, time.Now().Add(24*time.Hour))
	closed := env.seedGameweek(t, current.ID, 2, time.Now().Add(-time.Hour))
	openMatch := env.seedMatch(t, open.ID, 1001, open.Deadline.Add(time.Hour))
	closedMatch := env.seedMatch(t, closed.ID, 2001, closed.Deadline.Add(time.Hour))

	env.seedPrediction(t, "user-ana", openMatch.ID, memory.LeagueIDOfficeFriends, 2, 1)
	env.seedPrediction(t, "user-ana", closedMatch.ID, memory.LeagueIDOfficeFriends, 1, 1)

	t.Run("own predictions before deadline", func(t *testing.T) {
		items, err := env.predictionSvc.ListUserPredictions(ctx, "user-ana", "user-ana", memory.LeagueIDOfficeFriends, open.ID)
		if err != nil {
			t.Fatalf("ListUserPredictions: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("got %d predictions, want 1", len(items))
		}
	})

	t.Run("other member hidden before deadline", func(t *testing.T) {
		_, err := env.predictionSvc.ListUserPredictions(ctx, "user-bram", "user-ana", memory.LeagueIDOfficeFriends, open.ID)
		if !errors.Is(err, usecase.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("other member visible after deadline", func(t *testing.T) {
		items, err := env.predictionSvc.ListUserPredictions(ctx, "user-bram", "user-ana", memory.LeagueIDOfficeFriends, closed.ID)
		if err != nil {
			t.Fatalf("ListUserPredictions: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("got %d predictions, want 1", len(items))
		}
	})

	t.Run("non-member", func(t *testing.T) {
		_, err := env.predictionSvc.ListUserPredictions(ctx, "user-stranger", "user-ana", memory.LeagueIDOfficeFriends, closed.ID)
		if !errors.Is(err, usecase.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}
