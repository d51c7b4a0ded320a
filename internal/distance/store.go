package distance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lookup is the slice of the rider store the provider needs.
type Lookup interface {
	DistanceBetween(ctx context.Context, userID, riderID int64) (float64, bool, error)
}

// StoreProvider resolves distances from the persisted distance
// relation. Pairs without an explicit entry are reported with
// ErrNoDistance so the matcher drops them from the candidate set.
type StoreProvider struct {
	Store Lookup
}

func (p *StoreProvider) Distance(ctx context.Context, userID, riderID int64) (float64, error) {
	d, ok, err := p.Store.DistanceBetween(ctx, userID, riderID)
	if err != nil {
		return 0, fmt.Errorf("distance lookup user=%d rider=%d: %w", userID, riderID, err)
	}
	if !ok {
		return 0, ErrNoDistance
	}
	return d, nil
}

// CachedProvider fronts a relation-backed provider with Redis. Only
// explicit entries pass through here, so every successful lookup is
// cacheable; misses and errors are not stored.
type CachedProvider struct {
	Inner  Provider
	Client *redis.Client
	TTL    time.Duration
}

func NewCachedProvider(inner Provider, client *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProvider{Inner: inner, Client: client, TTL: ttl}
}

func (c *CachedProvider) Distance(ctx context.Context, userID, riderID int64) (float64, error) {
	key := cacheKey(userID, riderID)
	if v, err := c.Client.Get(ctx, key).Result(); err == nil {
		if d, perr := strconv.ParseFloat(v, 64); perr == nil {
			return d, nil
		}
	}
	d, err := c.Inner.Distance(ctx, userID, riderID)
	if err != nil {
		return 0, err
	}
	// best-effort write-through
	_ = c.Client.Set(ctx, key, strconv.FormatFloat(d, 'f', -1, 64), c.TTL).Err()
	return d, nil
}

// Invalidate drops the cached value after a distance-matrix upsert.
func (c *CachedProvider) Invalidate(ctx context.Context, userID, riderID int64) error {
	return c.Client.Del(ctx, cacheKey(userID, riderID)).Err()
}

func cacheKey(userID, riderID int64) string {
	return fmt.Sprintf("distance:%d:%d", userID, riderID)
}
