package store

import (
	"sartech/sarscope/internal/models"
)

// Store persists the product watchlist, tracked competitors and the
// accepted price change history.
type Store interface {
	// AddProduct inserts a product and returns its assigned ID
	AddProduct(product *models.Product) (int64, error)

	// GetProduct retrieves a product by ID, nil when absent
	GetProduct(id int64) (*models.Product, error)

	// ListProducts retrieves the full watchlist, newest first
	ListProducts() ([]*models.Product, error)

	// ProductNames returns all product names in insertion order
	ProductNames() ([]string, error)

	// UpdateProductPrice sets a new price and records the change
	UpdateProductPrice(productID int64, newPrice float64, reason string) error

	// DeleteProduct removes a product and its competitors
	DeleteProduct(productID int64) error

	// AddCompetitor registers a competitor URL for a product
	AddCompetitor(competitor *models.Competitor) (int64, error)

	// ListCompetitors retrieves the competitors tracked for a product
	ListCompetitors(productID int64) ([]*models.Competitor, error)

	// UpdateCompetitorPrice stores the latest observation for a competitor.
	// A nil price marks a failed check.
	UpdateCompetitorPrice(competitorID int64, price *float64, status models.CompetitorStatus) error

	// PriceHistory retrieves accepted price changes, newest first
	PriceHistory(productID int64, limit int) ([]models.PriceRecord, error)

	// Stats summarizes the catalog for reporting
	Stats() (*DashboardStats, error)

	// Close releases the underlying connection
	Close() error
}

// DashboardStats summarizes the catalog state
type DashboardStats struct {
	TotalProducts       int     `json:"total_products"`
	ActiveCompetitors   int     `json:"active_competitors"`
	AverageMargin       float64 `json:"average_margin"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
}
