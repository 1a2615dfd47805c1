package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss means no fresh or stale entry existed and the upstream fetch
// failed. The wrapped fetch error carries the upstream failure cause.
var ErrCacheMiss = errors.New("cache miss")

// Key identifies a cached stat series.
type Key struct {
	PlayerID string
	StatType string
	Lookback int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d", k.PlayerID, k.StatType, k.Lookback)
}

// Entry is one cached stat series with its fetch metadata.
type Entry struct {
	Key       string    `json:"key"`
	Payload   []float64 `json:"payload"`
	FetchedAt int64     `json:"fetched_at"` // epoch seconds
	TTL       int64     `json:"ttl"`        // seconds
}

// Fresh reports whether the entry is still within its TTL.
func (e *Entry) Fresh(now time.Time) bool {
	return now.Unix()-e.FetchedAt < e.TTL
}

// Store persists cache entries. Get returns (nil, nil) when no entry exists.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, key string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// FetchFunc loads a stat series from the upstream source.
type FetchFunc func(ctx context.Context) ([]float64, error)

// TTLCache memoizes upstream stat fetches with a fixed expiry and serves
// stale-but-available data when the upstream fails. Concurrent Gets for the
// same cold key collapse into a single upstream fetch.
type TTLCache struct {
	store        Store
	logger       *logrus.Logger
	group        singleflight.Group
	maxRetention time.Duration
	now          func() time.Time
}

// New creates a TTL cache. Entries older than maxRetention are removed by
// Purge regardless of their TTL.
func New(store Store, maxRetention time.Duration, logger *logrus.Logger) *TTLCache {
	return &TTLCache{
		store:        store,
		logger:       logger,
		maxRetention: maxRetention,
		now:          time.Now,
	}
}

type getResult struct {
	payload []float64
	stale   bool
}

// Get returns the cached series for key if fresh, otherwise fetches. On
// fetch failure an expired entry is returned with stale=true; if nothing
// is stored the failure propagates wrapped in ErrCacheMiss.
func (c *TTLCache) Get(ctx context.Context, key Key, ttl time.Duration, fetch FetchFunc) ([]float64, bool, error) {
	return c.get(ctx, key, ttl, fetch, false)
}

// ForceRefresh bypasses the freshness check and always attempts a fetch,
// still degrading to the previous entry on failure. Used by the external
// refresh scheduler.
func (c *TTLCache) ForceRefresh(ctx context.Context, key Key, ttl time.Duration, fetch FetchFunc) ([]float64, bool, error) {
	return c.get(ctx, key, ttl, fetch, true)
}

func (c *TTLCache) get(ctx context.Context, key Key, ttl time.Duration, fetch FetchFunc, force bool) ([]float64, bool, error) {
	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		entry, err := c.store.Get(ctx, key.String())
		if err != nil {
			return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
		}

		if entry != nil && !force && entry.Fresh(c.now()) {
			return getResult{payload: entry.Payload}, nil
		}

		payload, fetchErr := fetch(ctx)
		if fetchErr == nil {
			newEntry := &Entry{
				Key:       key.String(),
				Payload:   payload,
				FetchedAt: c.now().Unix(),
				TTL:       int64(ttl.Seconds()),
			}
			if err := c.store.Set(ctx, newEntry); err != nil {
				// The caller still gets live data; only the memo is lost.
				c.logger.WithError(err).WithField("key", key.String()).Warn("Failed to store cache entry")
			}
			return getResult{payload: payload}, nil
		}

		if entry != nil {
			c.logger.WithError(fetchErr).WithField("key", key.String()).Warn("Upstream fetch failed, serving stale entry")
			return getResult{payload: entry.Payload, stale: true}, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrCacheMiss, fetchErr)
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(getResult)
	return res.payload, res.stale, nil
}

// Purge removes entries older than the retention window. It never removes
// an entry younger than maxRetention, so stale fallbacks stay available.
func (c *TTLCache) Purge(ctx context.Context) (int, error) {
	cutoff := c.now().Add(-c.maxRetention)
	removed, err := c.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache entries: %w", err)
	}
	if removed > 0 {
		c.logger.WithField("removed", removed).Info("Purged expired cache entries")
	}
	return removed, nil
}
