package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	"github.com/fwdline/prediction-league/internal/domain/league"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

// PredictionEntry is one forecast in a submission batch.
type PredictionEntry struct {
	MatchID   string `json:"matchId" validate:"required"`
	HomeScore int    `json:"homeScore" validate:"gte=0,lte=20"`
	AwayScore int    `json:"awayScore" validate:"gte=0,lte=20"`
}

// PredictionService owns the prediction write path. A batch is accepted
// or rejected as a whole; a rejected batch leaves storage untouched.
type PredictionService struct {
	predictionRepo prediction.Repository
	matchRepo      match.Repository
	gameweekRepo   gameweek.Repository
	leagueRepo     league.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	gameweekRepo gameweek.Repository,
	leagueRepo league.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		gameweekRepo:   gameweekRepo,
		leagueRepo:     leagueRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// SubmitPredictions validates and stores a batch of forecasts for one
// gameweek. The deadline is read against the wall clock at call time,
// after membership and entry validation, so an error message never leaks
// fixture details to non-members. Resubmitting an entry before the
// deadline replaces the earlier forecast.
func (s *PredictionService) SubmitPredictions(
	ctx context.Context,
	userID, leagueID, gameweekID string,
	entries []PredictionEntry,
) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitPredictions")
	defer span.End()

	if userID == "" || leagueID == "" || gameweekID == "" {
		return fmt.Errorf("%w: user, league and gameweek ids are required", ErrInvalidInput)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("check membership league=%s: %w", leagueID, err)
	}
	if !member {
		return fmt.Errorf("%w: league id=%s", ErrForbidden, leagueID)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return fmt.Errorf("get gameweek id=%s: %w", gameweekID, err)
	}
	if !exists {
		return fmt.Errorf("%w: gameweek id=%s", ErrNotFound, gameweekID)
	}

	if len(entries) == 0 {
		return fmt.Errorf("%w: prediction batch is empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.MatchID == "" {
			return fmt.Errorf("%w: entry is missing a match id", ErrInvalidInput)
		}
		if _, dup := seen[entry.MatchID]; dup {
			return fmt.Errorf("%w: duplicate entry for match id=%s", ErrInvalidInput, entry.MatchID)
		}
		seen[entry.MatchID] = struct{}{}

		if !prediction.ValidScore(entry.HomeScore) || !prediction.ValidScore(entry.AwayScore) {
			return fmt.Errorf("%w: scores must be between %d and %d",
				ErrInvalidInput, prediction.MinScore, prediction.MaxScore)
		}

		item, matchExists, err := s.matchRepo.GetByID(ctx, entry.MatchID)
		if err != nil {
			return fmt.Errorf("get match id=%s: %w", entry.MatchID, err)
		}
		if !matchExists {
			return fmt.Errorf("%w: unknown match id=%s", ErrInvalidInput, entry.MatchID)
		}
		if item.GameweekID != gameweekID {
			return fmt.Errorf("%w: match id=%s is not part of gameweek id=%s",
				ErrInvalidInput, entry.MatchID, gameweekID)
		}
	}

	if !gw.AcceptsPredictionsAt(s.now()) {
		return fmt.Errorf("%w: gameweek id=%s", ErrDeadlinePassed, gameweekID)
	}

	submittedAt := s.now().UTC()
	items := make([]prediction.Prediction, 0, len(entries))
	for _, entry := range entries {
		items = append(items, prediction.Prediction{
			UserID:    userID,
			MatchID:   entry.MatchID,
			LeagueID:  leagueID,
			HomeScore: entry.HomeScore,
			AwayScore: entry.AwayScore,
			CreatedAt: submittedAt,
			UpdatedAt: submittedAt,
		})
	}

	if err := s.predictionRepo.UpsertBatch(ctx, items); err != nil {
		return fmt.Errorf("upsert predictions league=%s gameweek=%s: %w", leagueID, gameweekID, err)
	}

	s.logger.InfoContext(ctx, "predictions submitted",
		"user_id", userID,
		"league_id", leagueID,
		"gameweek_id", gameweekID,
		"entries", len(items),
	)
	return nil
}

// ListUserPredictions returns one member's forecasts for a gameweek.
// The requester sees their own rows any time; another member's rows only
// once the deadline has passed.
func (s *PredictionService) ListUserPredictions(
	ctx context.Context,
	requesterID, userID, leagueID, gameweekID string,
) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListUserPredictions")
	defer span.End()

	member, err := s.leagueRepo.IsMember(ctx, leagueID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("check membership league=%s: %w", leagueID, err)
	}
	if !member {
		return nil, fmt.Errorf("%w: league id=%s", ErrForbidden, leagueID)
	}

	if requesterID != userID {
		gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
		if err != nil {
			return nil, fmt.Errorf("get gameweek id=%s: %w", gameweekID, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: gameweek id=%s", ErrNotFound, gameweekID)
		}
		if gw.AcceptsPredictionsAt(s.now()) {
			return nil, fmt.Errorf("%w: predictions are hidden until the deadline", ErrForbidden)
		}
	}

	items, err := s.predictionRepo.ListByUserLeagueGameweek(ctx, userID, leagueID, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("list predictions user=%s gameweek=%s: %w", userID, gameweekID, err)
	}
	return items, nil
}
