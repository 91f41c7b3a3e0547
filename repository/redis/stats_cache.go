package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/deadliner/repository"
)

type statsCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewStatsCache keeps one hash per user so a single DEL drops every cached query.
func NewStatsCache(client *redislib.Client, ttl time.Duration) repository.StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &statsCache{
		client: client,
		prefix: "stats:",
		ttl:    ttl,
	}
}

func (c *statsCache) Get(ctx context.Context, userID, key string, dest any) (bool, error) {
	raw, err := c.client.HGet(ctx, c.key(userID), key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *statsCache) Set(ctx context.Context, userID, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.key(userID), key, payload)
	pipe.Expire(ctx, c.key(userID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *statsCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *statsCache) key(userID string) string {
	return c.prefix + userID
}
