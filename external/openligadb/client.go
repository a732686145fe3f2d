package openligadb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/platform/feedtime"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.openligadb.de"
	defaultLeague  = "bl1"
	maxBodyBytes   = 6 << 20
)

var errTransient = crerr.New("openligadb transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         string
	Location       *time.Location
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixtures, change timestamps and standings from OpenLigaDB.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	league       string
	loc          *time.Location
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight
}

var _ usecase.ReferenceFeed = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	league := strings.TrimSpace(cfg.League)
	if league == "" {
		league = defaultLeague
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	backoff := cfg.RetryBackoff
	if backoff == 0 {
		backoff = time.Second
	}
	if backoff < 0 {
		backoff = 0
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		league:       league,
		loc:          loc,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      resilience.NewCircuitBreaker("openligadb", cfg.CircuitBreaker, logBreakerTransition(logger)),
	}
}

func (c *Client) FetchFixtures(ctx context.Context, season, matchday int) ([]usecase.ExternalFixture, error) {
	path := fmt.Sprintf("/getmatchdata/%s/%d/%d", c.league, season, matchday)
	raw, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures season=%d matchday=%d: %w", season, matchday, err)
	}

	var payload []matchPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		c.logger.WarnContext(ctx, "unexpected fixtures payload", "path", path, "error", err, "body", abbreviateBody(raw))
		return []usecase.ExternalFixture{}, nil
	}

	out := make([]usecase.ExternalFixture, 0, len(payload))
	for _, item := range payload {
		if item.MatchID <= 0 {
			continue
		}
		out = append(out, c.mapFixture(item))
	}
	return out, nil
}

// FetchLastChanged returns false when the feed reports the zero date for
// the matchday.
func (c *Client) FetchLastChanged(ctx context.Context, season, matchday int) (time.Time, bool, error) {
	path := fmt.Sprintf("/getlastchangedate/%s/%d/%d", c.league, season, matchday)
	raw, err := c.doGet(ctx, path)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fetch last change season=%d matchday=%d: %w", season, matchday, err)
	}

	var value string
	if err := sonic.Unmarshal(raw, &value); err != nil {
		c.logger.WarnContext(ctx, "unexpected last change payload", "path", path, "error", err, "body", abbreviateBody(raw))
		return time.Time{}, false, nil
	}
	parsed, err := feedtime.Parse(value, c.loc)
	if err != nil || parsed.Year() <= 1 {
		return time.Time{}, false, nil
	}
	return parsed, true, nil
}

// FetchStandings returns the league table in feed order; Place is the
// 1-based row index.
func (c *Client) FetchStandings(ctx context.Context, season int) ([]usecase.ExternalTeamRanking, error) {
	path := fmt.Sprintf("/getbltable/%s/%d", c.league, season)
	raw, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch standings season=%d: %w", season, err)
	}

	var payload []tableTeamPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		c.logger.WarnContext(ctx, "unexpected standings payload", "path", path, "error", err, "body", abbreviateBody(raw))
		return []usecase.ExternalTeamRanking{}, nil
	}

	out := make([]usecase.ExternalTeamRanking, 0, len(payload))
	for i, item := range payload {
		out = append(out, usecase.ExternalTeamRanking{
			Place:    i + 1,
			TeamID:   item.TeamInfoID,
			TeamName: strings.TrimSpace(item.TeamName),
			Points:   item.Points,
		})
	}
	return out, nil
}

func (c *Client) mapFixture(item matchPayload) usecase.ExternalFixture {
	fixture := usecase.ExternalFixture{
		MatchID:    item.MatchID,
		Matchday:   item.Group.GroupOrderID,
		TeamIDHome: item.Team1.TeamID,
		TeamIDAway: item.Team2.TeamID,
		IsFinished: item.MatchIsFinished,
		Results:    make([]usecase.ExternalResult, 0, len(item.MatchResults)),
		Goals:      make([]usecase.ExternalGoal, 0, len(item.Goals)),
	}
	fixture.KickoffAt = c.kickoff(item)
	if updated, err := feedtime.Parse(item.LastUpdateDateTime, c.loc); err == nil {
		fixture.LastUpdatedAt = updated
	}

	for _, r := range item.MatchResults {
		fixture.Results = append(fixture.Results, usecase.ExternalResult{
			TypeID:    r.ResultTypeID,
			Order:     r.ResultOrderID,
			GoalsHome: r.PointsTeam1,
			GoalsAway: r.PointsTeam2,
		})
	}
	for _, g := range item.Goals {
		goal := usecase.ExternalGoal{GoalsHome: g.ScoreTeam1, GoalsAway: g.ScoreTeam2}
		if g.MatchMinute != nil {
			goal.Minute = *g.MatchMinute
		}
		fixture.Goals = append(fixture.Goals, goal)
	}
	return fixture
}

// kickoff prefers the UTC field and falls back to the local one.
func (c *Client) kickoff(item matchPayload) time.Time {
	if parsed, err := feedtime.Parse(item.MatchDateTimeUTC, time.UTC); err == nil {
		return parsed
	}
	if parsed, err := feedtime.Parse(item.MatchDateTime, c.loc); err == nil {
		return parsed
	}
	return time.Time{}
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	fullURL := c.baseURL + path
	out, err, _ := c.flight.DoContext(ctx, fullURL, func() (any, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "openligadb circuit breaker rejected request", "state", c.breaker.State(), "path", path)
			return nil, fmt.Errorf("%w: reference feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isTransient)
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "openligadb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func isTransient(err error) bool {
	return stderrors.Is(err, errTransient)
}

func logBreakerTransition(logger *logging.Logger) resilience.StateChangeFunc {
	return func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	}
}
