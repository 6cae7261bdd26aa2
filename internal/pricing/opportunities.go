package pricing

import (
	"time"

	"sartech/sarscope/internal/models"
)

// AlertFunc delivers a pricing opportunity to an outside channel. It is
// injected by the caller so the engine stays free of notification
// transport concerns; alert failures are logged and never block a run.
type AlertFunc func(op models.PricingOpportunity) error

// IdentifyOpportunities runs the decision algorithm over the catalog and
// returns an opportunity for every product whose decided price differs
// from its current price. competitorData maps product ID to the prices
// collected this cycle, nil entries included.
func (e *Engine) IdentifyOpportunities(products []*models.Product, competitorData map[int64][]*float64, alert AlertFunc) []models.PricingOpportunity {
	var opportunities []models.PricingOpportunity

	for _, product := range products {
		prices := competitorData[product.ID]
		decided, reason := e.DecidePrice(product, prices, e.safetyMargin)
		if decided == product.MyPrice {
			continue
		}

		op := models.PricingOpportunity{
			ProductID:          product.ID,
			ProductName:        product.Name,
			CurrentPrice:       product.MyPrice,
			SuggestedPrice:     decided,
			MinCompetitorPrice: minValidPrice(prices),
			PotentialLoss:      product.MyPrice - decided,
			Reason:             reason,
			CreatedAt:          time.Now(),
		}
		opportunities = append(opportunities, op)

		e.log.Info().
			Int64("product_id", product.ID).
			Float64("current", product.MyPrice).
			Float64("suggested", decided).
			Str("reason", reason).
			Msg("Pricing opportunity identified")

		if alert != nil {
			if err := alert(op); err != nil {
				e.log.Warn().Err(err).Int64("product_id", product.ID).Msg("Failed to send price alert")
			}
		}
	}

	return opportunities
}

// minValidPrice returns the lowest usable competitor price, or 0 when none
func minValidPrice(prices []*float64) float64 {
	min := 0.0
	for _, p := range prices {
		if p == nil || *p <= 0 {
			continue
		}
		if min == 0 || *p < min {
			min = *p
		}
	}
	return min
}
