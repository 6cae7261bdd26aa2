package trend

import (
	"math"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
)

// Trend classifications
const (
	TrendNoData     = "no_data"
	TrendStable     = "stable"
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

// Severity levels
const (
	SeverityNone   = "none"
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Seasonal pattern classifications
const (
	PatternInsufficientData = "insufficient_data"
	PatternUpward           = "upward_trend"
	PatternDownward         = "downward_trend"
	PatternCyclical         = "cyclical"
)

// TrendAnalysis classifies a product's price movement against its history
type TrendAnalysis struct {
	Trend         string  `json:"trend"`
	Direction     string  `json:"direction,omitempty"`
	ChangePercent float64 `json:"change_percent"`
	Severity      string  `json:"severity"`
	AveragePrice  float64 `json:"average_price,omitempty"`
}

// SeasonalPattern describes the shape of recent price changes
type SeasonalPattern struct {
	Pattern        string  `json:"pattern"`
	Recommendation string  `json:"recommendation,omitempty"`
	Low            float64 `json:"low,omitempty"`
	High           float64 `json:"high,omitempty"`
}

// MarketReport summarizes one scanned category page
type MarketReport struct {
	URL           string            `json:"url"`
	TotalListings int               `json:"total_listings"`
	AverageRank   float64           `json:"average_rank"`
	TopListings   []scraper.Listing `json:"top_listings"`
	Saturation    string            `json:"saturation"`
}

// AnalyzeTrend classifies how far the current price sits from the mean of
// its history. Changes below the threshold are stable; beyond it the
// severity steps up at a 20% swing.
func AnalyzeTrend(currentPrice float64, historicalPrices []float64, threshold float64) TrendAnalysis {
	if len(historicalPrices) == 0 {
		return TrendAnalysis{Trend: TrendNoData, Severity: SeverityNone}
	}

	sum := 0.0
	for _, price := range historicalPrices {
		sum += price
	}
	average := sum / float64(len(historicalPrices))
	change := (currentPrice - average) / average

	analysis := TrendAnalysis{
		ChangePercent: math.Abs(change) * 100,
		AveragePrice:  average,
	}
	if change > 0 {
		analysis.Direction = "up"
	} else {
		analysis.Direction = "down"
	}

	switch {
	case math.Abs(change) < threshold:
		analysis.Trend = TrendStable
		analysis.Severity = SeverityLow
	case change > 0:
		analysis.Trend = TrendIncreasing
		analysis.Severity = SeverityMedium
		if change > 0.20 {
			analysis.Severity = SeverityHigh
		}
	default:
		analysis.Trend = TrendDecreasing
		analysis.Severity = SeverityMedium
		if change < -0.20 {
			analysis.Severity = SeverityHigh
		}
	}

	return analysis
}

// IdentifySeasonalPatterns inspects the most recent window of accepted
// price changes, in storage order (newest first), and labels the shape.
func IdentifySeasonalPatterns(history []models.PriceRecord, window int) SeasonalPattern {
	if len(history) < window {
		return SeasonalPattern{Pattern: PatternInsufficientData}
	}

	recent := make([]float64, window)
	for i := 0; i < window; i++ {
		recent[i] = history[i].NewPrice
	}

	increasing := true
	decreasing := true
	for i := 0; i < len(recent)-1; i++ {
		if recent[i] > recent[i+1] {
			increasing = false
		}
		if recent[i] < recent[i+1] {
			decreasing = false
		}
	}

	low, high := recent[0], recent[0]
	for _, price := range recent[1:] {
		if price < low {
			low = price
		}
		if price > high {
			high = price
		}
	}

	pattern := SeasonalPattern{Low: low, High: high}
	switch {
	case increasing:
		pattern.Pattern = PatternUpward
		pattern.Recommendation = "Consider increasing price"
	case decreasing:
		pattern.Pattern = PatternDownward
		pattern.Recommendation = "Monitor competition"
	default:
		pattern.Pattern = PatternCyclical
		pattern.Recommendation = "Price is volatile"
	}
	return pattern
}

// SummarizeMarket builds a category report from extracted listings
func SummarizeMarket(url string, listings []scraper.Listing) MarketReport {
	report := MarketReport{
		URL:           url,
		TotalListings: len(listings),
		Saturation:    "low",
	}
	if len(listings) == 0 {
		return report
	}

	rankSum := 0
	for _, listing := range listings {
		rank := listing.Rank
		if rank <= 0 {
			rank = defaultRank
		}
		rankSum += rank
	}
	report.AverageRank = float64(rankSum) / float64(len(listings))

	top := len(listings)
	if top > 10 {
		top = 10
	}
	report.TopListings = listings[:top]

	switch {
	case len(listings) > 1000:
		report.Saturation = "high"
	case len(listings) > 100:
		report.Saturation = "medium"
	}
	return report
}
