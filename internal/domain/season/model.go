package season

import (
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

// Season is one edition of a competition. At most one season per
// competition carries IsCurrent.
type Season struct {
	ID          string
	Competition competition.Competition
	Name        string
	IsCurrent   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
