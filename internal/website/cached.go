package website

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/metrics"
	"feedgen/internal/port"
)

// CachedFetcher looks page text up in a cache keyed by item identifier before
// fetching it. Cache failures never fail the lookup.
type CachedFetcher struct {
	fetcher port.PageFetcher
	cache   port.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCachedFetcher wraps fetcher with cache.
func NewCachedFetcher(fetcher port.PageFetcher, cache port.Cache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{fetcher: fetcher, cache: cache, ttl: ttl, logger: logger}
}

// Text returns the page text for itemID, fetching url on a cache miss.
func (f *CachedFetcher) Text(ctx context.Context, itemID, url string) (string, error) {
	if url == "" {
		return "", nil
	}

	cached, ok, err := f.cache.Get(ctx, itemID)
	if err != nil {
		f.logger.Warn("website.CachedFetcher.Text: cache read failed",
			zap.String("item_id", itemID), zap.Error(err))
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	text, err := f.fetcher.FetchText(ctx, url)
	if err != nil {
		return "", err
	}

	if err := f.cache.Put(ctx, itemID, text, f.ttl); err != nil {
		f.logger.Warn("website.CachedFetcher.Text: cache write failed",
			zap.String("item_id", itemID), zap.Error(err))
	}
	return text, nil
}
