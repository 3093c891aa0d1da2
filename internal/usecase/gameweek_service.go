package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/domain/team"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

// GameweekSummary is one round with its state derived at read time.
type GameweekSummary struct {
	Gameweek gameweek.Gameweek `json:"gameweek"`
	State    gameweek.State    `json:"state"`
}

// CurrentCompetitionView bundles the current season with its rounds.
type CurrentCompetitionView struct {
	Season    season.Season     `json:"season"`
	Gameweeks []GameweekSummary `json:"gameweeks"`
	// Active points at the round accepting result updates right now, if
	// any; Next at the earliest upcoming round.
	Active *GameweekSummary `json:"active,omitempty"`
	Next   *GameweekSummary `json:"next,omitempty"`
}

// MatchdayView is one calendar day of a round with its fixtures.
type MatchdayView struct {
	Matchday gameweek.Matchday `json:"matchday"`
	Matches  []match.Match     `json:"matches"`
}

// GameweekDetail is one round expanded into days and fixtures.
type GameweekDetail struct {
	Gameweek  gameweek.Gameweek `json:"gameweek"`
	State     gameweek.State    `json:"state"`
	Matchdays []MatchdayView    `json:"matchdays"`
}

// GameweekService serves the read side: current season, rounds, teams
// and fixtures. Round state is never stored, it is derived from the
// clock on every read.
type GameweekService struct {
	seasonRepo   season.Repository
	gameweekRepo gameweek.Repository
	matchRepo    match.Repository
	teamRepo     team.Repository
	logger       *logging.Logger
	now          func() time.Time
}

func NewGameweekService(
	seasonRepo season.Repository,
	gameweekRepo gameweek.Repository,
	matchRepo match.Repository,
	teamRepo team.Repository,
	logger *logging.Logger,
) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameweekService{
		seasonRepo:   seasonRepo,
		gameweekRepo: gameweekRepo,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Current returns the competition's current season and every round with
// its derived state.
func (s *GameweekService) Current(ctx context.Context, comp competition.Competition) (CurrentCompetitionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.Current")
	defer span.End()

	current, exists, err := s.seasonRepo.GetCurrent(ctx, comp)
	if err != nil {
		return CurrentCompetitionView{}, fmt.Errorf("get current season competition=%s: %w", comp, err)
	}
	if !exists {
		return CurrentCompetitionView{}, fmt.Errorf("%w: no current season for competition=%s", ErrNotFound, comp)
	}

	rounds, err := s.gameweekRepo.ListBySeason(ctx, current.ID)
	if err != nil {
		return CurrentCompetitionView{}, fmt.Errorf("list gameweeks season=%s: %w", current.ID, err)
	}
	sort.SliceStable(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	now := s.now()
	view := CurrentCompetitionView{Season: current, Gameweeks: make([]GameweekSummary, 0, len(rounds))}
	for _, round := range rounds {
		summary := GameweekSummary{Gameweek: round, State: round.StateAt(now)}
		view.Gameweeks = append(view.Gameweeks, summary)

		switch summary.State {
		case gameweek.StateActive:
			if view.Active == nil {
				entry := summary
				view.Active = &entry
			}
		case gameweek.StateUpcoming:
			if view.Next == nil {
				entry := summary
				view.Next = &entry
			}
		}
	}
	return view, nil
}

// Detail returns one round with its matchdays and fixtures, days and
// fixtures ordered by kickoff.
func (s *GameweekService) Detail(ctx context.Context, gameweekID string) (GameweekDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.Detail")
	defer span.End()

	round, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return GameweekDetail{}, fmt.Errorf("get gameweek id=%s: %w", gameweekID, err)
	}
	if !exists {
		return GameweekDetail{}, fmt.Errorf("%w: gameweek id=%s", ErrNotFound, gameweekID)
	}

	days, err := s.gameweekRepo.ListMatchdays(ctx, gameweekID)
	if err != nil {
		return GameweekDetail{}, fmt.Errorf("list matchdays gameweek=%s: %w", gameweekID, err)
	}
	fixtures, err := s.matchRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		return GameweekDetail{}, fmt.Errorf("list matches gameweek=%s: %w", gameweekID, err)
	}

	byMatchday := make(map[string][]match.Match, len(days))
	for _, fixture := range fixtures {
		byMatchday[fixture.MatchdayID] = append(byMatchday[fixture.MatchdayID], fixture)
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	detail := GameweekDetail{
		Gameweek:  round,
		State:     round.StateAt(s.now()),
		Matchdays: make([]MatchdayView, 0, len(days)),
	}
	for _, day := range days {
		items := byMatchday[day.ID]
		sort.SliceStable(items, func(i, j int) bool { return items[i].KickoffAt.Before(items[j].KickoffAt) })
		detail.Matchdays = append(detail.Matchdays, MatchdayView{Matchday: day, Matches: items})
	}
	return detail, nil
}

// Teams lists the competition's teams ordered by name.
func (s *GameweekService) Teams(ctx context.Context, comp competition.Competition) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.Teams")
	defer span.End()

	items, err := s.teamRepo.ListByCompetition(ctx, comp)
	if err != nil {
		return nil, fmt.Errorf("list teams competition=%s: %w", comp, err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
