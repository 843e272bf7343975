package services

import (
	"context"
	"errors"
	"time"

	"mfportal/src/models"
	"mfportal/src/utils"
	redis_utils "mfportal/src/utils/redis"
)

// SchemeCache holds the active scheme catalog shown to customers.
type SchemeCache interface {
	GetActive(ctx context.Context) ([]models.MutualFundScheme, bool)
	SetActive(ctx context.Context, schemes []models.MutualFundScheme)
	Invalidate(ctx context.Context)
}

type localSchemeCache struct {
	cache *utils.Cache[[]models.MutualFundScheme]
	ttl   time.Duration
}

// NewLocalSchemeCache keeps the catalog in process memory. Suitable for a
// single API instance.
func NewLocalSchemeCache(ttl time.Duration) SchemeCache {
	return &localSchemeCache{cache: utils.NewCache[[]models.MutualFundScheme](), ttl: ttl}
}

func (c *localSchemeCache) GetActive(_ context.Context) ([]models.MutualFundScheme, bool) {
	return c.cache.Get()
}

func (c *localSchemeCache) SetActive(_ context.Context, schemes []models.MutualFundScheme) {
	c.cache.Set(schemes, c.ttl)
}

func (c *localSchemeCache) Invalidate(_ context.Context) {
	c.cache.Clear()
}

var activeSchemesKey = redis_utils.Key("schemes", "active")

type redisSchemeCache struct {
	redis *redis_utils.RedisHandler
	ttl   time.Duration
}

// NewRedisSchemeCache shares the catalog between API instances, so a NAV
// update through one instance is seen by all of them.
func NewRedisSchemeCache(handler *redis_utils.RedisHandler, ttl time.Duration) SchemeCache {
	return &redisSchemeCache{redis: handler, ttl: ttl}
}

func (c *redisSchemeCache) GetActive(ctx context.Context) ([]models.MutualFundScheme, bool) {
	var schemes []models.MutualFundScheme
	if err := c.redis.Get(ctx, activeSchemesKey, &schemes); err != nil {
		if !errors.Is(err, redis_utils.ErrMiss) {
			utils.LoggerFromContext(ctx).WithError(err).Warn("scheme cache read failed")
		}
		return nil, false
	}
	return schemes, true
}

func (c *redisSchemeCache) SetActive(ctx context.Context, schemes []models.MutualFundScheme) {
	if err := c.redis.Set(ctx, activeSchemesKey, schemes, c.ttl); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("scheme cache write failed")
	}
}

func (c *redisSchemeCache) Invalidate(ctx context.Context) {
	if err := c.redis.Delete(ctx, activeSchemesKey); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("scheme cache invalidation failed")
	}
}
