// internal/dating/cache.go

package dating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

const profileCachePrefix = "dating:profile:"

// ProfileCache is a read-through Redis cache of scorer profiles. A nil
// *ProfileCache is valid and never hits.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewProfileCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ProfileCache {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &ProfileCache{client: client, ttl: ttl, log: log}
}

func profileKey(userID int64) string {
	return fmt.Sprintf("%s%d", profileCachePrefix, userID)
}

// Get returns the cached profile, or false on a miss. Redis errors count as misses.
func (c *ProfileCache) Get(ctx context.Context, userID int64) (*recommend.Profile, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Profile cache read failed", map[string]interface{}{
				"user_id": userID,
				"error":   err,
			})
		}
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var p recommend.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Warn("Dropping undecodable cached profile", map[string]interface{}{
			"user_id": userID,
			"error":   err,
		})
		c.Invalidate(ctx, userID)
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	cacheLookups.WithLabelValues("hit").Inc()
	return &p, true
}

func (c *ProfileCache) Set(ctx context.Context, userID int64, p *recommend.Profile) {
	if c == nil || p == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		c.log.Warn("Profile cache encode failed", map[string]interface{}{"user_id": userID, "error": err})
		return
	}

	if err := c.client.Set(ctx, profileKey(userID), data, c.ttl).Err(); err != nil {
		c.log.Warn("Profile cache write failed", map[string]interface{}{"user_id": userID, "error": err})
	}
}

func (c *ProfileCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.log.Warn("Profile cache invalidate failed", map[string]interface{}{"user_id": userID, "error": err})
	}
}
