package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDeadlinePassed        = errors.New("gameweek deadline has passed")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("not a league member")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrConsistency marks a scoring/aggregation invariant violation.
	// Callers log it loudly and leave cached values untouched rather than
	// guessing a repair.
	ErrConsistency = errors.New("consistency invariant violated")
)
