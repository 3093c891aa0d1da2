package footballdata

// Wire shapes for the football-data.org v4 API. Only the fields the sync
// paths read are declared.

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID       int64      `json:"id"`
	UTCDate  string     `json:"utcDate"`
	Status   string     `json:"status"`
	Matchday int        `json:"matchday"`
	Venue    string     `json:"venue"`
	Season   seasonItem `json:"season"`
	HomeTeam teamRef    `json:"homeTeam"`
	AwayTeam teamRef    `json:"awayTeam"`
	Score    scoreItem  `json:"score"`
}

type seasonItem struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type teamRef struct {
	ID int64 `json:"id"`
}

type scoreItem struct {
	Winner   string    `json:"winner"`
	FullTime scorePair `json:"fullTime"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
