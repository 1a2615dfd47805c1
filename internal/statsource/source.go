package statsource

import (
	"context"
	"errors"
)

// Upstream failure taxonomy. Callers match with errors.Is; the cache layer
// turns these into stale fallbacks or a wrapped cache miss.
var (
	ErrRateLimited = errors.New("stat source rate limited")
	ErrNotFound    = errors.New("player or stat not found")
	ErrUnavailable = errors.New("stat source unavailable")
)

// Source fetches an ordered sequence of recent per-game stat values for a
// player. Values are chronological, oldest first. Implementations may fail
// with the errors above; they own any retry policy.
type Source interface {
	FetchRecentStats(ctx context.Context, playerID, statType string, lookback int) ([]float64, error)
}
