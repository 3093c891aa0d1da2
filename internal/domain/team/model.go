package team

import (
	"strings"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
)

// Team is one club as reconciled from the data provider.
type Team struct {
	ID          string
	ExternalID  int64
	Name        string
	ShortName   string
	Code        string
	LogoURL     string
	Competition competition.Competition
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeName collapses a club name to a comparable key so the same club
// seen under two competitions maps to a single row.
func NormalizeName(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}

	var builder strings.Builder
	lastDash := false
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(builder.String(), "-")
}
