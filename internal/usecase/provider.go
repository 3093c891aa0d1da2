package usecase

import (
	"context"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

// FixtureProvider is the abstract contract with the external football data
// source. The syncer depends only on these shapes, never on a provider's
// wire format.
type FixtureProvider interface {
	FetchTeams(ctx context.Context, comp competition.Competition) ([]ExternalTeam, error)
	FetchFixtures(ctx context.Context, comp competition.Competition) (ExternalFixtureSet, error)
	// FetchResults returns fixtures that are live or recently concluded.
	FetchResults(ctx context.Context, comp competition.Competition) ([]ExternalFixture, error)
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	ShortName  string
	Code       string
	LogoURL    string
}

type ExternalFixture struct {
	ExternalID         int64
	Gameweek           int
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	KickoffAt          time.Time
	Venue              string
	Status             string
	HomeScore          *int
	AwayScore          *int
}

type ExternalFixtureSet struct {
	SeasonName string
	Fixtures   []ExternalFixture
}
