package pricing

import (
	"fmt"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/logger"
)

// Reason codes are stable wire constants; downstream consumers branch on
// them, so renaming needs a version note.
const (
	ReasonNoCompetitorData      = "NO_COMPETITOR_DATA"
	ReasonNoValidCompetitorData = "NO_VALID_COMPETITOR_DATA"
	ReasonFloorLimitReached     = "FLOOR_LIMIT_REACHED"
	ReasonPriceOptimal          = "PRICE_OPTIMAL"
	ReasonCostProtection        = "COST_PROTECTION_ENGAGED"
)

// UndercutReason formats the undercut reason code for a safety margin
func UndercutReason(safetyMargin float64) string {
	return fmt.Sprintf("UNDERCUT_BY_$%.2f", safetyMargin)
}

// defaultBulkTiers maps minimum quantity to discount fraction
var defaultBulkTiers = map[int]float64{
	10:  0.05,
	50:  0.10,
	100: 0.15,
}

// Engine computes undercutting price recommendations with floor and cost
// protection. Floor and cost limits are hard invariants: a recommendation
// never goes below min_price or below cost.
type Engine struct {
	safetyMargin float64
	log          *logger.Logger
}

// NewEngine creates a pricing engine with the given default safety margin
func NewEngine(safetyMargin float64, log *logger.Logger) *Engine {
	return &Engine{
		safetyMargin: safetyMargin,
		log:          log,
	}
}

// DecidePrice recommends a price for the product given competitor prices.
// Nil entries mark competitors whose price could not be read this cycle.
// Every outcome is a successful decision carrying a reason code; terminal
// states like FLOOR_LIMIT_REACHED are not errors.
func (e *Engine) DecidePrice(product *models.Product, competitorPrices []*float64, safetyMargin float64) (float64, string) {
	if len(competitorPrices) == 0 {
		return product.MyPrice, ReasonNoCompetitorData
	}

	valid := make([]float64, 0, len(competitorPrices))
	for _, p := range competitorPrices {
		if p != nil && *p > 0 {
			valid = append(valid, *p)
		}
	}
	if len(valid) == 0 {
		return product.MyPrice, ReasonNoValidCompetitorData
	}

	minCompetitor := valid[0]
	for _, p := range valid[1:] {
		if p < minCompetitor {
			minCompetitor = p
		}
	}

	suggested := minCompetitor - safetyMargin

	// Floor check precedes cost check, so a suggestion below both caps at
	// the floor.
	if suggested < product.MinPrice {
		return product.MinPrice, ReasonFloorLimitReached
	}

	if suggested >= product.MyPrice {
		return product.MyPrice, ReasonPriceOptimal
	}

	margin := 0.0
	if suggested != 0 {
		margin = (suggested - product.Cost) / suggested
	}
	if margin < 0 {
		return product.MinPrice, ReasonCostProtection
	}

	return suggested, UndercutReason(safetyMargin)
}

// ValidatePrice checks a candidate price against the floor and cost
// constraints, returning the first failing message.
func (e *Engine) ValidatePrice(price, minPrice, cost float64, productID int64) (bool, string) {
	if price <= 0 {
		return false, fmt.Sprintf("price must be greater than 0 for product %d", productID)
	}
	if price < minPrice {
		return false, fmt.Sprintf("price $%.2f is below the floor $%.2f for product %d", price, minPrice, productID)
	}
	if price < cost {
		return false, fmt.Sprintf("price $%.2f is below cost $%.2f for product %d", price, cost, productID)
	}
	return true, "valid"
}

// CalculateMargin returns the margin percentage at a price, clamped to 0
// so a below-cost price never reports a negative margin.
func (e *Engine) CalculateMargin(cost, price float64) float64 {
	if price <= 0 {
		return 0
	}
	margin := (price - cost) / price * 100
	if margin < 0 {
		return 0
	}
	return margin
}

// ApplyBulkPricing discounts a base price by the highest tier the quantity
// meets. tiers maps minimum quantity to discount fraction; nil uses the
// default tiers.
func (e *Engine) ApplyBulkPricing(basePrice float64, quantity int, tiers map[int]float64) float64 {
	if tiers == nil {
		tiers = defaultBulkTiers
	}

	bestThreshold := -1
	discount := 0.0
	for threshold, d := range tiers {
		if quantity >= threshold && threshold > bestThreshold {
			bestThreshold = threshold
			discount = d
		}
	}

	return basePrice * (1 - discount)
}
