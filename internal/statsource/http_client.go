package statsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/prop-edge/internal/stats"
)

// HTTPClient fetches per-game logs from the upstream stats API. Requests
// run through a circuit breaker so a flapping upstream trips fast instead
// of burning the rate limit.
type HTTPClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	baseURL    string
	apiKey     string
}

// NewHTTPClient creates a stat source client against the given API base URL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, maxRequests int, logger *logrus.Logger) *HTTPClient {
	settings := gobreaker.Settings{
		Name:        "stat-source",
		MaxRequests: uint32(maxRequests),
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type gameLogResponse struct {
	Data []map[string]json.Number `json:"data"`
}

// FetchRecentStats returns the player's last lookback per-game values for
// statType, oldest first. Combination stats (e.g. PTS+REB+AST) are summed
// per game from their component columns.
func (c *HTTPClient) FetchRecentStats(ctx context.Context, playerID, statType string, lookback int) ([]float64, error) {
	category, ok := stats.Lookup(statType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported stat type %q", ErrNotFound, statType)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchGameLog(ctx, playerID, lookback)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, err
	}
	games := result.([]map[string]json.Number)

	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no games for player %s", ErrNotFound, playerID)
	}

	columns := []string{statType}
	if category.IsCombination {
		columns = category.Components
	}

	components := make(map[string][]float64, len(columns))
	for _, col := range columns {
		series := make([]float64, 0, len(games))
		for _, game := range games {
			raw, ok := game[columnName(col)]
			if !ok {
				return nil, fmt.Errorf("%w: stat column %q missing from game log", ErrNotFound, col)
			}
			v, err := raw.Float64()
			if err != nil {
				return nil, fmt.Errorf("parsing %s value: %w", col, err)
			}
			series = append(series, v)
		}
		components[col] = series
	}

	if category.IsCombination {
		combined := stats.CombineGameValues(statType, components)
		if combined == nil {
			return nil, fmt.Errorf("%w: could not combine components for %s", ErrNotFound, statType)
		}
		return combined, nil
	}
	return components[statType], nil
}

func (c *HTTPClient) fetchGameLog(ctx context.Context, playerID string, lookback int) ([]map[string]json.Number, error) {
	endpoint := fmt.Sprintf("%s/stats", c.baseURL)
	params := url.Values{}
	params.Set("player_ids[]", playerID)
	params.Set("per_page", strconv.Itoa(lookback))
	// Descending date sort so the first page holds the most recent games.
	params.Set("sort", "-game.date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building game log request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading game log response: %w", err)
	}

	var parsed gameLogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing game log response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"games":     len(parsed.Data),
	}).Debug("Fetched game log from stat source")

	// Upstream pages newest first; callers want chronological order.
	games := parsed.Data
	for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
		games[i], games[j] = games[j], games[i]
	}
	return games, nil
}

// columnName maps a stat key to the upstream game-log column.
func columnName(statKey string) string {
	switch statKey {
	case "PTS":
		return "pts"
	case "REB":
		return "reb"
	case "AST":
		return "ast"
	case "STL":
		return "stl"
	case "BLK":
		return "blk"
	case "3PM":
		return "fg3m"
	case "TOV":
		return "turnover"
	default:
		return statKey
	}
}
