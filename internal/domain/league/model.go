package league

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

// League is a private group of users competing over shared predictions.
type League struct {
	ID          string
	Name        string
	Competition competition.Competition
	CreatedAt   time.Time
}

// Member records a user's membership. JoinedAt breaks rank ties ahead
// of the user id.
type Member struct {
	LeagueID string
	UserID   string
	JoinedAt time.Time
}
