package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, "sarscope.db", config.DatabasePath)
	assert.Equal(t, 3600*time.Second, config.PatrolInterval)
	assert.Equal(t, 1.0, config.UndercutMargin)
	assert.Equal(t, 80, config.FuzzyThreshold)
	assert.Equal(t, 0.10, config.TrendThreshold)
	assert.Equal(t, "none", config.AlertChannel)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("PATROL_INTERVAL_SECONDS", "30")
	os.Setenv("UNDERCUT_MARGIN", "2.5")
	os.Setenv("FUZZY_MATCH_THRESHOLD", "90")
	os.Setenv("TRENDYOL_TREND_URL", "https://example.com/trendyol")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 30*time.Second, config.PatrolInterval)
	assert.Equal(t, 2.5, config.UndercutMargin)
	assert.Equal(t, 90, config.FuzzyThreshold)
	assert.Equal(t, "https://example.com/trendyol", config.TrendyolTrendURL)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("PATROL_INTERVAL_SECONDS")
	os.Unsetenv("UNDERCUT_MARGIN")
	os.Unsetenv("FUZZY_MATCH_THRESHOLD")
	os.Unsetenv("TRENDYOL_TREND_URL")
}

func TestConfigValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.UndercutMargin = -1
	assert.Error(t, config.Validate())
	config.UndercutMargin = 1

	config.FuzzyThreshold = 120
	assert.Error(t, config.Validate())
	config.FuzzyThreshold = 80

	config.AlertChannel = "email"
	assert.Error(t, config.Validate(), "email channel without credentials should fail")

	config.SMTPUser = "bot@example.com"
	config.SMTPPass = "secret"
	config.AlertTo = "owner@example.com"
	assert.NoError(t, config.Validate())

	config.AlertChannel = "pigeon"
	assert.Error(t, config.Validate())
}

func TestConfigWatchlist(t *testing.T) {
	config := LoadConfig()
	watchlist := config.Watchlist()
	assert.Contains(t, watchlist, "Trendyol Best Sellers")
	assert.Contains(t, watchlist, "Hepsiburada Best Sellers")
	assert.NotContains(t, watchlist, "N11 Best Sellers", "empty URL should be left out")
}
