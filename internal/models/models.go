package models

import (
	"fmt"
	"strings"
	"time"

	"sartech/sarscope/pkg/errors"
)

// CompetitorStatus represents the tracking state of a competitor URL
type CompetitorStatus string

const (
	StatusActive   CompetitorStatus = "active"
	StatusInactive CompetitorStatus = "inactive"
	StatusError    CompetitorStatus = "error"
)

// Velocity is a coarse sales speed estimate derived from best-seller rank
type Velocity string

const (
	VelocityLow    Velocity = "low"
	VelocityMedium Velocity = "medium"
	VelocityHigh   Velocity = "high"
)

// Product represents a product in the watchlist
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	MyPrice      float64   `json:"my_price"`
	MinPrice     float64   `json:"min_price"`
	Cost         float64   `json:"cost"`
	TargetMargin float64   `json:"target_margin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProduct creates a Product and validates its pricing constraints.
// Construction fails on contract violations; the pricing engine treats
// products as already validated read-only input.
func NewProduct(id int64, name, sku string, myPrice, minPrice, cost, targetMargin float64) (*Product, error) {
	if myPrice <= 0 {
		return nil, errors.NewValidation(name, "my_price must be greater than 0")
	}
	if minPrice <= 0 {
		return nil, errors.NewValidation(name, "min_price must be greater than 0")
	}
	if cost < 0 {
		return nil, errors.NewValidation(name, "cost cannot be negative")
	}
	if targetMargin < 0 || targetMargin > 1 {
		return nil, errors.NewValidation(name, "target_margin must be between 0 and 1")
	}

	now := time.Now()
	return &Product{
		ID:           id,
		Name:         name,
		SKU:          sku,
		MyPrice:      myPrice,
		MinPrice:     minPrice,
		Cost:         cost,
		TargetMargin: targetMargin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CurrentMargin returns the current margin as a fraction of the selling price
func (p *Product) CurrentMargin() float64 {
	if p.MyPrice <= 0 {
		return 0
	}
	return (p.MyPrice - p.Cost) / p.MyPrice
}

func (p *Product) String() string {
	return fmt.Sprintf("Product(id=%d, name=%q, sku=%q, price=$%.2f)", p.ID, p.Name, p.SKU, p.MyPrice)
}

// Competitor represents a tracked competitor URL for a product
type Competitor struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	URL       string           `json:"url"`
	LastPrice *float64         `json:"last_price,omitempty"`
	Status    CompetitorStatus `json:"status"`
	CheckedAt time.Time        `json:"checked_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewCompetitor creates a Competitor and validates its fields
func NewCompetitor(productID int64, url string) (*Competitor, error) {
	if productID <= 0 {
		return nil, errors.NewValidation(url, "product_id must be greater than 0")
	}
	if strings.TrimSpace(url) == "" {
		return nil, errors.NewValidation("competitor", "url cannot be empty")
	}

	now := time.Now()
	return &Competitor{
		ProductID: productID,
		URL:       url,
		Status:    StatusActive,
		CheckedAt: now,
		CreatedAt: now,
	}, nil
}

// PriceAvailable reports whether the competitor has a usable last price
func (c *Competitor) PriceAvailable() bool {
	return c.LastPrice != nil && c.Status == StatusActive
}

// PricingOpportunity represents a recommended price change.
// Immutable once created; emitted only when the decided price differs
// from the current price.
type PricingOpportunity struct {
	ProductID          int64     `json:"product_id"`
	ProductName        string    `json:"product_name"`
	CurrentPrice       float64   `json:"current_price"`
	SuggestedPrice     float64   `json:"suggested_price"`
	MinCompetitorPrice float64   `json:"min_competitor_price"`
	PotentialLoss      float64   `json:"potential_loss"`
	Reason             string    `json:"reason"`
	CreatedAt          time.Time `json:"created_at"`
}

func (o PricingOpportunity) String() string {
	return fmt.Sprintf("PricingOpportunity(product=%q, current=$%.2f, suggested=$%.2f, reason=%q)",
		o.ProductName, o.CurrentPrice, o.SuggestedPrice, o.Reason)
}

// TrendOpportunity represents a best-selling product missing from inventory
type TrendOpportunity struct {
	ProductName            string    `json:"product_name"`
	Rank                   int       `json:"rank"`
	EstimatedSalesVelocity Velocity  `json:"estimated_sales_velocity"`
	MatchScore             int       `json:"match_score"`
	Category               string    `json:"category"`
	IdentifiedAt           time.Time `json:"identified_at"`
}

func (o TrendOpportunity) String() string {
	return fmt.Sprintf("TrendOpportunity(name=%q, rank=%d, score=%d%%, velocity=%q)",
		o.ProductName, o.Rank, o.MatchScore, o.EstimatedSalesVelocity)
}

// PriceRecord represents one accepted price change in the history
type PriceRecord struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
