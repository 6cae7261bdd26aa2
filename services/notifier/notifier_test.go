package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/logger"
)

func TestAlertBody(t *testing.T) {
	op := models.PricingOpportunity{
		ProductName:        "Akilli Saat Pro",
		CurrentPrice:       100,
		SuggestedPrice:     89,
		MinCompetitorPrice: 90,
		Reason:             "UNDERCUT_BY_$1.00",
	}

	assert.Equal(t, "Price alert: Akilli Saat Pro", alertSubject(op))

	body := alertBody(op)
	assert.Contains(t, body, "Akilli Saat Pro")
	assert.Contains(t, body, "100.00 TL")
	assert.Contains(t, body, "90.00 TL")
	assert.Contains(t, body, "89.00 TL")
	assert.Contains(t, body, "UNDERCUT_BY_$1.00")
}

func buildReport(perCategory int) map[string][]scraper.Listing {
	report := map[string][]scraper.Listing{}
	for _, category := range []string{"Trendyol Best Sellers", "Amazon Best Sellers"} {
		var listings []scraper.Listing
		for i := 0; i < perCategory; i++ {
			listings = append(listings, scraper.Listing{
				Name:    "Urun",
				Price:   float64(100 + i),
				Reviews: "12",
				Link:    "https://example.com/p",
				Rank:    i + 1,
			})
		}
		report[category] = listings
	}
	report["Empty Category"] = nil
	return report
}

func TestReportHTML(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	html := reportHTML(buildReport(15), now)

	assert.Contains(t, html, "31.08.2026")
	assert.Contains(t, html, "<h3>Trendyol Best Sellers</h3>")
	assert.Contains(t, html, "<h3>Amazon Best Sellers</h3>")
	assert.NotContains(t, html, "Empty Category")

	// Ten rows per category plus one header row each
	assert.Equal(t, 22, strings.Count(html, "<tr>"))

	// Categories come out sorted
	assert.Less(t, strings.Index(html, "Amazon"), strings.Index(html, "Trendyol"))
}

func TestReportText(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	text := reportText(buildReport(2), now)

	assert.Contains(t, text, "Daily market scan (31.08.2026)")
	assert.Contains(t, text, "Trendyol Best Sellers")
	assert.Contains(t, text, "1. Urun - 100.00 TL (12 reviews)")
	assert.NotContains(t, text, "Empty Category")
}

func TestNoopNotifier(t *testing.T) {
	n := NewNoopNotifier(logger.ForNotifier())

	assert.NoError(t, n.SendAlert(models.PricingOpportunity{ProductName: "X"}))
	assert.NoError(t, n.SendTrendReport(buildReport(1)))
}
