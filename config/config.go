package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr          string
	RedisDB            int
	RedisStream        string
	RedisStreamMaxLen  int

	// Memcache configuration
	MemcacheAddr string

	// Sqlite configuration
	DatabasePath string

	// Patrol configuration
	PatrolInterval time.Duration
	TrendCronSpec  string
	FetchBlockTime time.Duration

	// Pricing configuration
	UndercutMargin float64
	FuzzyThreshold int
	TrendThreshold float64

	// Extraction configuration
	CardLimit int // 0 keeps each site profile's own limit

	// Best-seller watchlist URLs
	TrendyolTrendURL    string
	HepsiburadaTrendURL string
	N11TrendURL         string
	AmazonTrendURL      string

	// Alerting
	AlertChannel   string // email, telegram or none
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	AlertTo        string
	TelegramToken  string
	TelegramChatID int64

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	patrolInterval, _ := strconv.Atoi(getEnv("PATROL_INTERVAL_SECONDS", "3600"))
	blockTime, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "500"))
	margin, _ := strconv.ParseFloat(getEnv("UNDERCUT_MARGIN", "1.0"), 64)
	fuzzy, _ := strconv.Atoi(getEnv("FUZZY_MATCH_THRESHOLD", "80"))
	trendThreshold, _ := strconv.ParseFloat(getEnv("TREND_THRESHOLD", "0.10"), 64)
	cardLimit, _ := strconv.Atoi(getEnv("CARD_LIMIT", "0"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	return &Config{
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "opportunities"),
		RedisStreamMaxLen: streamMaxLen,
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", "localhost:11211"),
		DatabasePath:      getEnv("DATABASE_PATH", "sarscope.db"),
		PatrolInterval:    time.Duration(patrolInterval) * time.Second,
		TrendCronSpec:     getEnv("TREND_CRON", "30 9 * * *"),
		FetchBlockTime:    time.Duration(blockTime) * time.Second,
		UndercutMargin:    margin,
		FuzzyThreshold:    fuzzy,
		TrendThreshold:    trendThreshold,
		CardLimit:         cardLimit,

		TrendyolTrendURL:    getEnv("TRENDYOL_TREND_URL", "https://www.trendyol.com/sr?wc=103725&sst=BEST_SELLER"),
		HepsiburadaTrendURL: getEnv("HEPSIBURADA_TREND_URL", "https://www.hepsiburada.com/yapi-market-hirdavatlar-c-2147483620?siralama=coksatan"),
		N11TrendURL:         getEnv("N11_TREND_URL", ""),
		AmazonTrendURL:      getEnv("AMAZON_TREND_URL", "https://www.amazon.com.tr/gp/bestsellers/diy"),

		AlertChannel:   getEnv("ALERT_CHANNEL", "none"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       smtpPort,
		SMTPUser:       getEnv("EMAIL_USER", ""),
		SMTPPass:       getEnv("EMAIL_PASS", ""),
		AlertTo:        getEnv("EMAIL_TO", ""),
		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: chatID,

		Environment: getEnv("SARSCOPE_ENVIRONMENT", "development"),
	}
}

// Watchlist returns the configured best-seller category URLs keyed by a
// human readable category name. Empty URLs are left out.
func (c *Config) Watchlist() map[string]string {
	watchlist := make(map[string]string)
	for name, url := range map[string]string{
		"Trendyol Best Sellers":    c.TrendyolTrendURL,
		"Hepsiburada Best Sellers": c.HepsiburadaTrendURL,
		"N11 Best Sellers":         c.N11TrendURL,
		"Amazon Best Sellers":      c.AmazonTrendURL,
	} {
		if url != "" {
			watchlist[name] = url
		}
	}
	return watchlist
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.UndercutMargin < 0 {
		return fmt.Errorf("UNDERCUT_MARGIN cannot be negative: %f", c.UndercutMargin)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("FUZZY_MATCH_THRESHOLD must be between 0 and 100: %d", c.FuzzyThreshold)
	}
	if c.TrendThreshold <= 0 {
		return fmt.Errorf("TREND_THRESHOLD must be positive: %f", c.TrendThreshold)
	}
	if c.CardLimit < 0 {
		return fmt.Errorf("CARD_LIMIT cannot be negative: %d", c.CardLimit)
	}
	switch c.AlertChannel {
	case "none":
	case "email":
		if c.SMTPUser == "" || c.SMTPPass == "" || c.AlertTo == "" {
			return fmt.Errorf("email alert channel requires EMAIL_USER, EMAIL_PASS and EMAIL_TO")
		}
	case "telegram":
		if c.TelegramToken == "" || c.TelegramChatID == 0 {
			return fmt.Errorf("telegram alert channel requires TELEGRAM_TOKEN and TELEGRAM_CHAT_ID")
		}
	default:
		return fmt.Errorf("unknown alert channel: %s", c.AlertChannel)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
