package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/logger"
	"sartech/sarscope/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	sku TEXT NOT NULL UNIQUE,
	my_price REAL NOT NULL,
	min_price REAL NOT NULL,
	cost REAL NOT NULL,
	target_margin REAL NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS competitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	url TEXT NOT NULL,
	last_price REAL,
	status TEXT DEFAULT 'active',
	checked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
	UNIQUE(product_id, url)
);

CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	old_price REAL NOT NULL,
	new_price REAL NOT NULL,
	reason TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
`

// SQLiteStore implements Store over a local SQLite database
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, errors.NewStorage(path, "failed to open database", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewStorage(path, "failed to initialize schema", err)
	}

	log.Info().Str("path", path).Msg("Database initialized")
	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddProduct inserts a product and returns its assigned ID
func (s *SQLiteStore) AddProduct(product *models.Product) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO products (name, sku, my_price, min_price, cost, target_margin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		product.Name, product.SKU, product.MyPrice, product.MinPrice, product.Cost, product.TargetMargin)
	if err != nil {
		return 0, errors.NewStorage(product.Name, "failed to insert product", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewStorage(product.Name, "failed to read product id", err)
	}

	s.log.Info().Int64("product_id", id).Str("name", product.Name).Msg("Product added")
	return id, nil
}

// GetProduct retrieves a product by ID, nil when absent
func (s *SQLiteStore) GetProduct(id int64) (*models.Product, error) {
	row := s.db.QueryRow(`
		SELECT id, name, sku, my_price, min_price, cost, target_margin, created_at, updated_at
		FROM products WHERE id = ?`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorage("products", "failed to read product", err)
	}
	return product, nil
}

// ListProducts retrieves the full watchlist, newest first
func (s *SQLiteStore) ListProducts() ([]*models.Product, error) {
	rows, err := s.db.Query(`
		SELECT id, name, sku, my_price, min_price, cost, target_margin, created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.NewStorage("products", "failed to list products", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewStorage("products", "failed to scan product", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ProductNames returns all product names in insertion order
func (s *SQLiteStore) ProductNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM products ORDER BY id`)
	if err != nil {
		return nil, errors.NewStorage("products", "failed to list product names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewStorage("products", "failed to scan product name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateProductPrice sets a new price and records the change in the same
// transaction, so history and catalog can never disagree.
func (s *SQLiteStore) UpdateProductPrice(productID int64, newPrice float64, reason string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewStorage("products", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var oldPrice float64
	err = tx.QueryRow(`SELECT my_price FROM products WHERE id = ?`, productID).Scan(&oldPrice)
	if err == sql.ErrNoRows {
		return errors.NewStorage("products", "product not found", nil)
	}
	if err != nil {
		return errors.NewStorage("products", "failed to read current price", err)
	}

	_, err = tx.Exec(`UPDATE products SET my_price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newPrice, productID)
	if err != nil {
		return errors.NewStorage("products", "failed to update price", err)
	}

	_, err = tx.Exec(`INSERT INTO price_history (product_id, old_price, new_price, reason) VALUES (?, ?, ?, ?)`,
		productID, oldPrice, newPrice, reason)
	if err != nil {
		return errors.NewStorage("price_history", "failed to record price change", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorage("products", "failed to commit price update", err)
	}

	s.log.Info().
		Int64("product_id", productID).
		Float64("old_price", oldPrice).
		Float64("new_price", newPrice).
		Str("reason", reason).
		Msg("Product price updated")
	return nil
}

// DeleteProduct removes a product; competitors and history cascade
func (s *SQLiteStore) DeleteProduct(productID int64) error {
	if _, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, productID); err != nil {
		return errors.NewStorage("products", "failed to delete product", err)
	}
	return nil
}

// AddCompetitor registers a competitor URL for a product
func (s *SQLiteStore) AddCompetitor(competitor *models.Competitor) (int64, error) {
	result, err := s.db.Exec(`INSERT INTO competitors (product_id, url) VALUES (?, ?)`,
		competitor.ProductID, competitor.URL)
	if err != nil {
		return 0, errors.NewStorage(competitor.URL, "failed to insert competitor", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewStorage(competitor.URL, "failed to read competitor id", err)
	}

	s.log.Info().Int64("product_id", competitor.ProductID).Str("url", competitor.URL).Msg("Competitor added")
	return id, nil
}

// ListCompetitors retrieves the competitors tracked for a product
func (s *SQLiteStore) ListCompetitors(productID int64) ([]*models.Competitor, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, url, last_price, status, checked_at, created_at
		FROM competitors WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, errors.NewStorage("competitors", "failed to list competitors", err)
	}
	defer rows.Close()

	var competitors []*models.Competitor
	for rows.Next() {
		var c models.Competitor
		var lastPrice sql.NullFloat64
		var status string
		if err := rows.Scan(&c.ID, &c.ProductID, &c.URL, &lastPrice, &status, &c.CheckedAt, &c.CreatedAt); err != nil {
			return nil, errors.NewStorage("competitors", "failed to scan competitor", err)
		}
		if lastPrice.Valid {
			c.LastPrice = &lastPrice.Float64
		}
		c.Status = models.CompetitorStatus(status)
		competitors = append(competitors, &c)
	}
	return competitors, rows.Err()
}

// UpdateCompetitorPrice stores the latest observation for a competitor
func (s *SQLiteStore) UpdateCompetitorPrice(competitorID int64, price *float64, status models.CompetitorStatus) error {
	var value sql.NullFloat64
	if price != nil {
		value = sql.NullFloat64{Float64: *price, Valid: true}
	}

	_, err := s.db.Exec(`
		UPDATE competitors SET last_price = ?, status = ?, checked_at = CURRENT_TIMESTAMP
		WHERE id = ?`, value, string(status), competitorID)
	if err != nil {
		return errors.NewStorage("competitors", "failed to update competitor", err)
	}
	return nil
}

// PriceHistory retrieves accepted price changes, newest first
func (s *SQLiteStore) PriceHistory(productID int64, limit int) ([]models.PriceRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, old_price, new_price, reason, created_at
		FROM price_history WHERE product_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, productID, limit)
	if err != nil {
		return nil, errors.NewStorage("price_history", "failed to read history", err)
	}
	defer rows.Close()

	var records []models.PriceRecord
	for rows.Next() {
		var r models.PriceRecord
		var reason sql.NullString
		if err := rows.Scan(&r.ID, &r.ProductID, &r.OldPrice, &r.NewPrice, &reason, &r.CreatedAt); err != nil {
			return nil, errors.NewStorage("price_history", "failed to scan record", err)
		}
		r.Reason = reason.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats summarizes the catalog for reporting
func (s *SQLiteStore) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, errors.NewStorage("products", "failed to count products", err)
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM competitors WHERE status = 'active'`).Scan(&stats.ActiveCompetitors)
	if err != nil {
		return nil, errors.NewStorage("competitors", "failed to count competitors", err)
	}

	var avgMargin, totalValue sql.NullFloat64
	err = s.db.QueryRow(`SELECT AVG((my_price - cost) / my_price) FROM products WHERE my_price > 0`).Scan(&avgMargin)
	if err != nil {
		return nil, errors.NewStorage("products", "failed to compute average margin", err)
	}
	stats.AverageMargin = avgMargin.Float64 * 100

	err = s.db.QueryRow(`SELECT SUM(my_price) FROM products`).Scan(&totalValue)
	if err != nil {
		return nil, errors.NewStorage("products", "failed to compute inventory value", err)
	}
	stats.TotalInventoryValue = totalValue.Float64

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.MyPrice, &p.MinPrice, &p.Cost, &p.TargetMargin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
