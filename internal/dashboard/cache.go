package dashboard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"carbondash/internal/fetch"
	"carbondash/internal/model"
)

const (
	keyTransfers = "transfers"
	keyHolders   = "holders"
	keyTokenInfo = "token_info"
)

// CachedService layers a TTL cache and in-flight coalescing over a
// Service. Retrieval stays pure in Service; caching is this separate
// layer. Concurrent loads for the same key share one underlying fetch,
// so a refresh that fires while the previous one is still in flight
// joins it instead of stacking requests.
type CachedService struct {
	svc   *Service
	cache *gocache.Cache
	group singleflight.Group
}

// NewCachedService wraps svc with the given TTL.
func NewCachedService(svc *Service, ttl time.Duration) *CachedService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedService{
		svc:   svc,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Transfers serves the cached transfer history, loading on miss.
func (c *CachedService) Transfers(ctx context.Context) fetch.Result[[]model.Transfer] {
	return lookup(c, ctx, keyTransfers, c.svc.Transfers)
}

// Holders serves the cached holder list, loading on miss.
func (c *CachedService) Holders(ctx context.Context) fetch.Result[[]model.Holder] {
	return lookup(c, ctx, keyHolders, c.svc.Holders)
}

// TokenInfo serves the cached token metadata, loading on miss.
func (c *CachedService) TokenInfo(ctx context.Context) fetch.Result[model.TokenInfo] {
	return lookup(c, ctx, keyTokenInfo, c.svc.TokenInfo)
}

// Refresh re-fetches all three datasets, replacing the cached values.
// Called by the owner's ticker; overlapping refreshes coalesce.
func (c *CachedService) Refresh(ctx context.Context) {
	c.cache.Delete(keyTransfers)
	c.cache.Delete(keyHolders)
	c.cache.Delete(keyTokenInfo)
	c.Transfers(ctx)
	c.Holders(ctx)
	c.TokenInfo(ctx)
}

func lookup[T any](c *CachedService, ctx context.Context, key string, load func(context.Context) fetch.Result[T]) fetch.Result[T] {
	if cached, ok := c.cache.Get(key); ok {
		if result, ok := cached.(fetch.Result[T]); ok {
			return result
		}
	}

	value, _, _ := c.group.Do(key, func() (interface{}, error) {
		result := load(ctx)
		// Placeholder results are not cached, so the next caller probes
		// the live tiers again instead of pinning demo data for a TTL.
		if result.Tier != fetch.TierPlaceholder {
			c.cache.SetDefault(key, result)
		}
		return result, nil
	})
	return value.(fetch.Result[T])
}
