package gameweek

import "time"

// Gameweek is a scored round of fixtures within a season. Number is not
// unique on its own: the provider is free to renumber rounds between syncs,
// so uniqueness holds only per season and is enforced at the storage layer.
type Gameweek struct {
	ID        string
	SeasonID  string
	Number    int
	Deadline  time.Time
	WindowEnd time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matchday groups the matches of one calendar day inside a gameweek.
type Matchday struct {
	ID         string
	GameweekID string
	Date       time.Time
	CreatedAt  time.Time
}

// TimingPolicy derives the prediction deadline and completion window of a
// gameweek from its raw kickoff times. Both knobs are configuration because
// the provider feed carries no explicit deadline.
type TimingPolicy struct {
	// DeadlineLead is subtracted from the earliest kickoff.
	DeadlineLead time.Duration
	// WindowExtension is added to the latest kickoff.
	WindowExtension time.Duration
}

func DefaultTimingPolicy() TimingPolicy {
	return TimingPolicy{
		DeadlineLead:    0,
		WindowExtension: 3 * time.Hour,
	}
}

// Window computes (deadline, windowEnd) from kickoff times. Returns false
// when no usable kickoff is present.
func (p TimingPolicy) Window(kickoffs []time.Time) (time.Time, time.Time, bool) {
	var earliest, latest time.Time
	for _, at := range kickoffs {
		if at.IsZero() {
			continue
		}
		if earliest.IsZero() || at.Before(earliest) {
			earliest = at
		}
		if latest.IsZero() || at.After(latest) {
			latest = at
		}
	}
	if earliest.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	return earliest.Add(-p.DeadlineLead).UTC(), latest.Add(p.WindowExtension).UTC(), true
}
