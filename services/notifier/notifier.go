package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
)

// Notifier delivers price alerts and trend reports to an outside channel
type Notifier interface {
	// SendAlert notifies about a single pricing opportunity
	SendAlert(op models.PricingOpportunity) error

	// SendTrendReport sends the daily best-seller digest, listings keyed
	// by category name
	SendTrendReport(report map[string][]scraper.Listing) error
}

// reportRowLimit caps listings per category in the digest
const reportRowLimit = 10

func alertSubject(op models.PricingOpportunity) string {
	return fmt.Sprintf("Price alert: %s", op.ProductName)
}

func alertBody(op models.PricingOpportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A pricing opportunity was detected.\n\n")
	fmt.Fprintf(&b, "Product: %s\n", op.ProductName)
	fmt.Fprintf(&b, "Your price: %.2f TL\n", op.CurrentPrice)
	fmt.Fprintf(&b, "Lowest competitor: %.2f TL\n", op.MinCompetitorPrice)
	fmt.Fprintf(&b, "Suggested price: %.2f TL\n", op.SuggestedPrice)
	fmt.Fprintf(&b, "Reason: %s\n", op.Reason)
	return b.String()
}

func reportSubject(now time.Time) string {
	return fmt.Sprintf("Daily trend report - %s", now.Format("02.01.2006"))
}

// reportHTML renders the digest as a simple HTML table per category.
// Categories are sorted so the report layout is stable run to run.
func reportHTML(report map[string][]scraper.Listing, now time.Time) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	fmt.Fprintf(&b, "<h2>Daily market scan (%s)</h2>", now.Format("02.01.2006"))
	b.WriteString("<p>Best selling products per watched category:</p>")

	for _, category := range sortedCategories(report) {
		listings := report[category]
		if len(listings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "<h3>%s</h3>", category)
		b.WriteString("<table border=\"1\" cellpadding=\"5\" cellspacing=\"0\">")
		b.WriteString("<tr><th>Product</th><th>Price</th><th>Reviews</th><th>Link</th></tr>")
		for _, listing := range limitRows(listings) {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%.2f TL</td><td>%s</td><td><a href=%q>view</a></td></tr>",
				listing.Name, listing.Price, listing.Reviews, listing.Link)
		}
		b.WriteString("</table><br>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

// reportText renders the digest as plain text for channels without HTML
func reportText(report map[string][]scraper.Listing, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily market scan (%s)\n", now.Format("02.01.2006"))

	for _, category := range sortedCategories(report) {
		listings := report[category]
		if len(listings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", category)
		for _, listing := range limitRows(listings) {
			fmt.Fprintf(&b, "  %d. %s - %.2f TL (%s reviews)\n", listing.Rank, listing.Name, listing.Price, listing.Reviews)
		}
	}
	return b.String()
}

func sortedCategories(report map[string][]scraper.Listing) []string {
	categories := make([]string, 0, len(report))
	for category := range report {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func limitRows(listings []scraper.Listing) []scraper.Listing {
	if len(listings) > reportRowLimit {
		return listings[:reportRowLimit]
	}
	return listings
}
