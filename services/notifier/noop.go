package notifier

import (
	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/logger"
)

// NoopNotifier logs what would have been sent. Used when no alert channel
// is configured.
type NoopNotifier struct {
	log *logger.Logger
}

// NewNoopNotifier creates a notifier that only logs
func NewNoopNotifier(log *logger.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

// SendAlert logs the opportunity and drops it
func (n *NoopNotifier) SendAlert(op models.PricingOpportunity) error {
	n.log.Info().
		Str("product", op.ProductName).
		Float64("suggested", op.SuggestedPrice).
		Str("reason", op.Reason).
		Msg("Price alert (no channel configured)")
	return nil
}

// SendTrendReport logs the digest size and drops it
func (n *NoopNotifier) SendTrendReport(report map[string][]scraper.Listing) error {
	total := 0
	for _, listings := range report {
		total += len(listings)
	}
	n.log.Info().
		Int("categories", len(report)).
		Int("listings", total).
		Msg("Trend report (no channel configured)")
	return nil
}
