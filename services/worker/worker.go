package worker

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sartech/sarscope/config"
	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/pricing"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/internal/trend"
	"sartech/sarscope/logger"
	"sartech/sarscope/services/notifier"
	"sartech/sarscope/services/publisher"
	"sartech/sarscope/services/store"
)

// PriceFetcher is the scraping surface the worker needs; *scraper.Fetcher
// satisfies it and tests substitute their own.
type PriceFetcher interface {
	FetchBestSellers(url string) (*scraper.ExtractionResult, error)
	FetchCompetitorPrice(url string) (float64, bool, error)
}

// Worker drives the two recurring jobs: the competitor price patrol and
// the best-seller trend scan.
type Worker struct {
	ctx      context.Context
	store    store.Store
	fetcher  PriceFetcher
	engine   *pricing.Engine
	matcher  *trend.Matcher
	notifier notifier.Notifier
	pub      publisher.Publisher
	cfg      *config.Config
	log      *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	st store.Store,
	fetcher PriceFetcher,
	engine *pricing.Engine,
	matcher *trend.Matcher,
	notif notifier.Notifier,
	pub publisher.Publisher,
	cfg *config.Config,
	log *logger.Logger,
) *Worker {
	return &Worker{
		ctx:      ctx,
		store:    st,
		fetcher:  fetcher,
		engine:   engine,
		matcher:  matcher,
		notifier: notif,
		pub:      pub,
		cfg:      cfg,
		log:      log,
	}
}

// Start runs the price patrol on its interval and schedules the trend
// scan with the configured cron spec. It blocks until the context is
// cancelled.
func (w *Worker) Start() error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(w.cfg.TrendCronSpec, w.RunTrendScan); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	ticker := time.NewTicker(w.cfg.PatrolInterval)
	defer ticker.Stop()

	w.RunPricePatrol()
	for {
		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopping")
			return w.ctx.Err()
		case <-ticker.C:
			w.RunPricePatrol()
		}
	}
}

// RunPricePatrol checks every tracked competitor, feeds the collected
// prices through the pricing engine, applies accepted recommendations and
// publishes them.
func (w *Worker) RunPricePatrol() {
	start := time.Now()

	products, err := w.store.ListProducts()
	if err != nil {
		w.log.LogError("PricePatrol", err)
		return
	}

	competitorData := make(map[int64][]*float64, len(products))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, product := range products {
		wg.Add(1)
		go func(product *models.Product) {
			defer wg.Done()
			prices := w.collectCompetitorPrices(product)
			mu.Lock()
			competitorData[product.ID] = prices
			mu.Unlock()
		}(product)
	}
	wg.Wait()

	opportunities := w.engine.IdentifyOpportunities(products, competitorData, w.notifier.SendAlert)
	for _, op := range opportunities {
		if err := w.store.UpdateProductPrice(op.ProductID, op.SuggestedPrice, op.Reason); err != nil {
			w.log.LogError("PricePatrol", err)
			continue
		}
		w.publish(publisher.StreamPricing, op)
	}

	if err := w.pub.TrimStreams(); err != nil {
		w.log.LogError("StreamTrimming", err)
	}

	w.log.Info().
		Int("products", len(products)).
		Int("opportunities", len(opportunities)).
		Dur("elapsed", time.Since(start)).
		Msg("Price patrol completed")
}

// collectCompetitorPrices fetches every competitor of a product. Failed
// checks are recorded as nil prices and flip the competitor to error, so
// the decision engine sees exactly what was observed.
func (w *Worker) collectCompetitorPrices(product *models.Product) []*float64 {
	competitors, err := w.store.ListCompetitors(product.ID)
	if err != nil {
		w.log.LogError("PricePatrol", err)
		return nil
	}

	prices := make([]*float64, 0, len(competitors))
	for _, competitor := range competitors {
		if competitor.Status == models.StatusInactive {
			continue
		}

		price, found, err := w.fetcher.FetchCompetitorPrice(competitor.URL)
		if err != nil || !found {
			if err != nil {
				w.log.LogError("PricePatrol", err)
			}
			prices = append(prices, nil)
			if err := w.store.UpdateCompetitorPrice(competitor.ID, nil, models.StatusError); err != nil {
				w.log.LogError("PricePatrol", err)
			}
			continue
		}

		prices = append(prices, &price)
		if err := w.store.UpdateCompetitorPrice(competitor.ID, &price, models.StatusActive); err != nil {
			w.log.LogError("PricePatrol", err)
		}
	}
	return prices
}

// RunTrendScan walks the category watchlist, matches listings against the
// catalog and publishes new-product opportunities, then mails the digest.
func (w *Worker) RunTrendScan() {
	start := time.Now()

	names, err := w.store.ProductNames()
	if err != nil {
		w.log.LogError("TrendScan", err)
		return
	}

	report := make(map[string][]scraper.Listing)
	opportunityCount := 0

	watchlist := w.cfg.Watchlist()
	categories := make([]string, 0, len(watchlist))
	for category := range watchlist {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		url := watchlist[category]
		result, err := w.fetcher.FetchBestSellers(url)
		if err != nil {
			w.log.LogError("TrendScan", err)
			continue
		}

		report[category] = result.Listings

		summary := trend.SummarizeMarket(url, result.Listings)
		w.log.Info().
			Str("category", category).
			Int("listings", summary.TotalListings).
			Str("saturation", summary.Saturation).
			Msg("Category scanned")

		for _, op := range w.matcher.Match(result.Listings, names, category) {
			opportunityCount++
			w.publish(publisher.StreamTrend, op)
		}
	}

	if len(report) > 0 {
		if err := w.notifier.SendTrendReport(report); err != nil {
			w.log.LogError("TrendScan", err)
		}
	}

	if err := w.pub.TrimStreams(); err != nil {
		w.log.LogError("StreamTrimming", err)
	}

	w.log.Info().
		Int("categories", len(report)).
		Int("opportunities", opportunityCount).
		Dur("elapsed", time.Since(start)).
		Msg("Trend scan completed")
}

// publish marshals a payload onto a stream, logging failures
func (w *Worker) publish(stream string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.log.LogError("Publish", err)
		return
	}
	if err := w.pub.Publish(stream, data); err != nil {
		w.log.LogError("Publish", err)
	}
}
