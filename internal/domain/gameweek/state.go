package gameweek

import "time"

// State is the derived lifecycle position of a gameweek. It is computed
// from wall-clock time on every read and never persisted, so it cannot
// drift from the timestamps it is derived from.
type State string

const (
	StateUpcoming  State = "upcoming"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// StateAt derives the display state:
//
//	now < deadline             -> upcoming
//	deadline <= now <= windowEnd -> active
//	now > windowEnd            -> completed
func StateAt(deadline, windowEnd, now time.Time) State {
	if now.Before(deadline) {
		return StateUpcoming
	}
	if now.After(windowEnd) {
		return StateCompleted
	}
	return StateActive
}

// AcceptsPredictionsAt is the write-authorization check. It is strictly
// `now < deadline` and deliberately independent of StateAt: "active" also
// means the deadline has already passed.
func AcceptsPredictionsAt(deadline, now time.Time) bool {
	return now.Before(deadline)
}

func (g Gameweek) StateAt(now time.Time) State {
	return StateAt(g.Deadline, g.WindowEnd, now)
}

func (g Gameweek) AcceptsPredictionsAt(now time.Time) bool {
	return AcceptsPredictionsAt(g.Deadline, now)
}
