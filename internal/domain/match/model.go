package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Match is a single fixture. GameweekID is denormalized next to MatchdayID
// so the scoring and prediction paths never need a join to find the round.
type Match struct {
	ID         string
	ExternalID int64
	MatchdayID string
	GameweekID string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	Status     string
	HomeScore  *int
	AwayScore  *int
	Venue      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeStatus upper-cases a provider status and collapses finished
// and live aliases onto the canonical constants. Stored rows only ever
// carry canonical statuses, so storage backends can filter on the
// constants directly.
func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	switch status {
	case "":
		return StatusScheduled
	case "FT", "AET", "PEN":
		return StatusFinished
	case "LIVE", "HT", "1H", "2H", "ET":
		return StatusInPlay
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusInPlay, StatusPaused:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED", "SUSPENDED":
		return true
	default:
		return false
	}
}

// HasFinalScore reports whether the row carries everything scoring needs.
func (m Match) HasFinalScore() bool {
	return IsFinishedStatus(m.Status) && m.HomeScore != nil && m.AwayScore != nil
}
