package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sartech/sarscope/helpers"
	"sartech/sarscope/logger"
	"sartech/sarscope/pkg/errors"
	"sartech/sarscope/services/cache"
)

// Fetcher combines the HTTP layer with the extractor and throttles
// per-host requests through the cache service, so a rate-limited
// marketplace is left alone for the block period.
type Fetcher struct {
	extractor *Extractor
	cacheSvc  cache.CacheService
	blockTime time.Duration
	log       *logger.Logger

	// fetchFunc is swappable for tests
	fetchFunc func(url string) (io.Reader, error)
}

// NewFetcher creates a fetcher. cacheSvc may be nil to disable throttling.
func NewFetcher(extractor *Extractor, cacheSvc cache.CacheService, blockTime time.Duration, log *logger.Logger) *Fetcher {
	return &Fetcher{
		extractor: extractor,
		cacheSvc:  cacheSvc,
		blockTime: blockTime,
		log:       log,
		fetchFunc: helpers.FetchWithRandomHeaders,
	}
}

// FetchBestSellers downloads a category or best-seller page and extracts
// its listings.
func (f *Fetcher) FetchBestSellers(url string) (*ExtractionResult, error) {
	body, err := f.fetchWithCache(url)
	if err != nil {
		return nil, err
	}
	return f.extractor.ExtractListings(body, url)
}

// FetchCompetitorPrice downloads a competitor product page and returns its
// price. The bool is false when the page yields no price; the error covers
// fetch failures only.
func (f *Fetcher) FetchCompetitorPrice(url string) (float64, bool, error) {
	body, err := f.fetchWithCache(url)
	if err != nil {
		return 0, false, err
	}
	price, ok := f.extractor.ExtractProductPrice(body, url)
	return price, ok, nil
}

// fetchWithCache fetches a URL with per-host rate limiting
func (f *Fetcher) fetchWithCache(url string) (io.Reader, error) {
	key := rateLimitKey(url)

	if f.cacheSvc != nil {
		if _, err := f.cacheSvc.Get(key); err == nil {
			return nil, errors.NewRateLimit(key, f.blockTime)
		}
	}

	body, err := f.fetchFunc(url)
	if err != nil {
		if f.cacheSvc != nil && strings.HasPrefix(err.Error(), "rate limited") {
			blockSeconds := fmt.Sprintf("%d", int(f.blockTime/time.Second))
			if cacheErr := f.cacheSvc.Set(key, []byte(blockSeconds), f.blockTime); cacheErr != nil {
				f.log.Warn().Err(cacheErr).Str("key", key).Msg("Failed to record rate limit block")
			}
		}
		return nil, errors.NewNetwork(key, "fetch failed", err)
	}

	return body, nil
}

func rateLimitKey(url string) string {
	return helpers.HostToken(url) + "_rate_limited"
}
