package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/feed"
	"github.com/swipebay/marketplace-service/internal/marketplace/domain"
	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

const listingTTL = 1 * time.Hour

// ListingCache is a Redis-backed cache of listings keyed by id.
type ListingCache struct {
	client *redis.Client
}

func NewListingCache(addr string) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client}, nil
}

func listingKey(id string) string { return "listing:" + id }

// Get returns the cached listing or (nil, nil) on a miss.
func (c *ListingCache) Get(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.ID), data, listingTTL).Err()
}

func (c *ListingCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}

// CachedLookup resolves listings cache-first, falling back to the
// repository and writing back on a miss. It serves the wishlist hydration
// path, where the same small id set is resolved over and over.
type CachedLookup struct {
	cache  *ListingCache
	repo   domain.ListingRepository
	logger *logger.Logger
}

var _ feed.ListingLookup = (*CachedLookup)(nil)

func NewCachedLookup(cache *ListingCache, repo domain.ListingRepository, log *logger.Logger) *CachedLookup {
	return &CachedLookup{cache: cache, repo: repo, logger: log}
}

func (l *CachedLookup) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if l.cache != nil {
		listing, err := l.cache.Get(ctx, id)
		if err != nil {
			l.logger.Warn("listing cache read failed", zap.String("listing_id", id), zap.Error(err))
		} else if listing != nil {
			return listing, nil
		}
	}

	listing, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, listing); err != nil {
			l.logger.Warn("listing cache write failed", zap.String("listing_id", id), zap.Error(err))
		}
	}
	return listing, nil
}
