package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"wellscreen/internal/model"
)

const resultTTL = 10 * time.Minute

// ResultCache is a read-through cache for computed results. The persisted
// session record stays authoritative; a miss here is never an error.
type ResultCache interface {
	Set(ctx context.Context, sessionID string, result *model.ComputedResult) error
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, sessionID string) (*model.ComputedResult, error)
	Delete(ctx context.Context, sessionID string) error
}

type resultCache struct {
	client *redis.Client
}

// NewResultCache creates a Redis-backed result cache.
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
	}
}

func (c *resultCache) Set(ctx context.Context, sessionID string, result *model.ComputedResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "result:"+sessionID, data, resultTTL).Err()
}

func (c *resultCache) Get(ctx context.Context, sessionID string) (*model.ComputedResult, error) {
	data, err := c.client.Get(ctx, "result:"+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var result model.ComputedResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, "result:"+sessionID).Err()
}
