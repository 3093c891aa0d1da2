package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/platform/logging"
	"github.com/fwdline/prediction-league/internal/platform/resilience"
	"github.com/fwdline/prediction-league/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	// resultsLookback bounds the results poll to recently played fixtures
	// so the refresh stays one request per competition.
	resultsLookback  = 4 * 24 * time.Hour
	resultsLookahead = 24 * time.Hour
	maxBodyBytes     = 6 << 20
)

var errProviderTransient = crerr.New("football-data transient failure")

// competitionCodes maps internal competitions to provider competition
// codes.
var competitionCodes = map[competition.Competition]string{
	competition.PremierLeague:   "PL",
	competition.ChampionsLeague: "CL",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to football-data.org. Requests retry transient failures
// with linear backoff, share in-flight calls per URL, and trip a circuit
// breaker on repeated transport errors.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

func (c *Client) FetchTeams(ctx context.Context, comp competition.Competition) ([]usecase.ExternalTeam, error) {
	code, err := providerCode(comp)
	if err != nil {
		return nil, err
	}

	var envelope teamsEnvelope
	path := fmt.Sprintf("/competitions/%s/teams", code)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams competition=%s: %w", comp, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		if item.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.ID,
			Name:       strings.TrimSpace(item.Name),
			ShortName:  strings.TrimSpace(item.ShortName),
			Code:       strings.TrimSpace(item.TLA),
			LogoURL:    strings.TrimSpace(item.Crest),
		})
	}
	return out, nil
}

func (c *Client) FetchFixtures(ctx context.Context, comp competition.Competition) (usecase.ExternalFixtureSet, error) {
	code, err := providerCode(comp)
	if err != nil {
		return usecase.ExternalFixtureSet{}, err
	}

	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%s/matches", code)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalFixtureSet{}, fmt.Errorf("fetch fixtures competition=%s: %w", comp, err)
	}

	set := usecase.ExternalFixtureSet{
		Fixtures: make([]usecase.ExternalFixture, 0, len(envelope.Matches)),
	}
	for _, item := range envelope.Matches {
		if set.SeasonName == "" {
			set.SeasonName = seasonName(comp, item.Season)
		}
		fixture, ok := mapMatchItem(item)
		if !ok {
			continue
		}
		set.Fixtures = append(set.Fixtures, fixture)
	}
	return set, nil
}

func (c *Client) FetchResults(ctx context.Context, comp competition.Competition) ([]usecase.ExternalFixture, error) {
	code, err := providerCode(comp)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	query := map[string]string{
		"dateFrom": now.Add(-resultsLookback).Format("2006-01-02"),
		"dateTo":   now.Add(resultsLookahead).Format("2006-01-02"),
	}

	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%s/matches", code)
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch results competition=%s: %w", comp, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		fixture, ok := mapMatchItem(item)
		if !ok {
			continue
		}
		out = append(out, fixture)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeErrorText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func providerCode(comp competition.Competition) (string, error) {
	code, ok := competitionCodes[comp]
	if !ok {
		return "", fmt.Errorf("unsupported competition %q", comp)
	}
	return code, nil
}

func mapMatchItem(item matchItem) (usecase.ExternalFixture, bool) {
	if item.ID <= 0 {
		return usecase.ExternalFixture{}, false
	}

	fixture := usecase.ExternalFixture{
		ExternalID:         item.ID,
		Gameweek:           item.Matchday,
		HomeTeamExternalID: item.HomeTeam.ID,
		AwayTeamExternalID: item.AwayTeam.ID,
		Venue:              strings.TrimSpace(item.Venue),
		Status:             strings.TrimSpace(item.Status),
	}
	if kickoff, err := time.Parse(time.RFC3339, item.UTCDate); err == nil {
		fixture.KickoffAt = kickoff.UTC()
	}
	if item.Score.FullTime.Home != nil && item.Score.FullTime.Away != nil {
		home, away := *item.Score.FullTime.Home, *item.Score.FullTime.Away
		fixture.HomeScore = &home
		fixture.AwayScore = &away
	}
	return fixture, true
}

// seasonName renders "Premier League 2025/26" from the provider's season
// date range.
func seasonName(comp competition.Competition, item seasonItem) string {
	start, startErr := time.Parse("2006-01-02", item.StartDate)
	end, endErr := time.Parse("2006-01-02", item.EndDate)
	if startErr != nil || endErr != nil {
		return ""
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s %d", comp.DisplayName(), start.Year())
	}
	return fmt.Sprintf("%s %d/%02d", comp.DisplayName(), start.Year(), end.Year()%100)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeErrorText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
