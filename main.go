package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sartech/sarscope/config"
	"sartech/sarscope/internal/pricing"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/internal/trend"
	"sartech/sarscope/logger"
	"sartech/sarscope/services/cache"
	"sartech/sarscope/services/notifier"
	"sartech/sarscope/services/publisher"
	"sartech/sarscope/services/store"
	"sartech/sarscope/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("patrol_interval", cfg.PatrolInterval).
		Str("trend_cron", cfg.TrendCronSpec).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Build the engine components
	extractor := scraper.NewExtractor(scraper.DefaultProfiles(), cfg.CardLimit, logger.ForScraper("all"))
	fetcher := scraper.NewFetcher(extractor, services.Cache, cfg.FetchBlockTime, logger.ForScraper("fetch"))
	engine := pricing.NewEngine(cfg.UndercutMargin, logger.ForPricer())
	matcher := trend.NewMatcher(cfg.FuzzyThreshold, logger.ForTrend())

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		services.Store,
		fetcher,
		engine,
		matcher,
		services.Notifier,
		services.Publisher,
		cfg,
		logger.ForWorker(),
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting market intelligence worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     store.Store
	Notifier  notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Cache: memcache when configured, MEMCACHE_ADDR=none for in-process
	if cfg.MemcacheAddr == "" || cfg.MemcacheAddr == "none" {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-process cache")
	} else {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	// Publisher
	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLen,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream prefix: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Store
	sqliteStore, err := store.NewSQLiteStore(cfg.DatabasePath, logger.ForStore())
	if err != nil {
		return nil, err
	}
	services.Store = sqliteStore

	// Notifier
	notif, err := buildNotifier(cfg)
	if err != nil {
		return nil, err
	}
	services.Notifier = notif

	return services, nil
}

// buildNotifier selects the alert channel from configuration
func buildNotifier(cfg *config.Config) (notifier.Notifier, error) {
	log := logger.ForNotifier()
	switch cfg.AlertChannel {
	case "email":
		return notifier.NewMailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.AlertTo, log), nil
	case "telegram":
		return notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
	default:
		return notifier.NewNoopNotifier(log), nil
	}
}
