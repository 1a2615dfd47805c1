package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "prop-edge:stats:"

// RedisStore persists cache entries in Redis as JSON. Redis-level expiry is
// pinned to the retention window; freshness within that window is decided by
// the entry's own fetched_at + ttl so stale fallbacks survive TTL expiry.
type RedisStore struct {
	client    *redis.Client
	logger    *logrus.Logger
	retention time.Duration
}

// NewRedisStore creates a Redis-backed Store.
func NewRedisStore(client *redis.Client, retention time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		logger:    logger,
		retention: retention,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry %s: %w", key, err)
	}
	return &entry, nil
}

func (s *RedisStore) Set(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", entry.Key, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+entry.Key, data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", entry.Key, err)
	}

	s.logger.WithFields(logrus.Fields{
		"key": entry.Key,
		"ttl": entry.TTL,
	}).Debug("Cached stat series")
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// PurgeBefore removes entries fetched before the cutoff. Redis expiry
// already bounds storage; this pass exists so an explicit purge is
// observable and consistent with other Store implementations.
func (s *RedisStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	var removed int
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		data, err := s.client.Get(ctx, fullKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return removed, fmt.Errorf("redis get during purge: %w", err)
		}

		var entry Entry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			// Unreadable entries are dropped rather than kept forever.
			if delErr := s.client.Del(ctx, fullKey).Err(); delErr == nil {
				removed++
			}
			continue
		}

		if entry.FetchedAt < cutoff.Unix() {
			if err := s.client.Del(ctx, fullKey).Err(); err != nil {
				return removed, fmt.Errorf("redis del during purge: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan during purge: %w", err)
	}
	return removed, nil
}
