package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sartech/sarscope/config"
	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/pricing"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/internal/trend"
	"sartech/sarscope/logger"
	"sartech/sarscope/services/publisher"
	"sartech/sarscope/services/store"
)

// MockStore implements store.Store for testing
type MockStore struct {
	mu           sync.Mutex
	products     []*models.Product
	competitors  map[int64][]*models.Competitor
	priceUpdates map[int64]float64
	reasons      map[int64]string
	statusByID   map[int64]models.CompetitorStatus
}

var _ store.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		competitors:  make(map[int64][]*models.Competitor),
		priceUpdates: make(map[int64]float64),
		reasons:      make(map[int64]string),
		statusByID:   make(map[int64]models.CompetitorStatus),
	}
}

func (m *MockStore) AddProduct(product *models.Product) (int64, error) {
	m.products = append(m.products, product)
	return product.ID, nil
}

func (m *MockStore) GetProduct(id int64) (*models.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockStore) ListProducts() ([]*models.Product, error) {
	return m.products, nil
}

func (m *MockStore) ProductNames() ([]string, error) {
	names := make([]string, 0, len(m.products))
	for _, p := range m.products {
		names = append(names, p.Name)
	}
	return names, nil
}

func (m *MockStore) UpdateProductPrice(productID int64, newPrice float64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceUpdates[productID] = newPrice
	m.reasons[productID] = reason
	return nil
}

func (m *MockStore) DeleteProduct(int64) error { return nil }

func (m *MockStore) AddCompetitor(c *models.Competitor) (int64, error) {
	m.competitors[c.ProductID] = append(m.competitors[c.ProductID], c)
	return c.ID, nil
}

func (m *MockStore) ListCompetitors(productID int64) ([]*models.Competitor, error) {
	return m.competitors[productID], nil
}

func (m *MockStore) UpdateCompetitorPrice(competitorID int64, price *float64, status models.CompetitorStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusByID[competitorID] = status
	return nil
}

func (m *MockStore) PriceHistory(int64, int) ([]models.PriceRecord, error) { return nil, nil }
func (m *MockStore) Stats() (*store.DashboardStats, error)                { return &store.DashboardStats{}, nil }
func (m *MockStore) Close() error                                         { return nil }

// MockFetcher implements PriceFetcher for testing
type MockFetcher struct {
	prices   map[string]float64
	fetchErr map[string]error
	listings map[string][]scraper.Listing
}

var _ PriceFetcher = (*MockFetcher)(nil)

func (m *MockFetcher) FetchCompetitorPrice(url string) (float64, bool, error) {
	if err := m.fetchErr[url]; err != nil {
		return 0, false, err
	}
	price, ok := m.prices[url]
	return price, ok, nil
}

func (m *MockFetcher) FetchBestSellers(url string) (*scraper.ExtractionResult, error) {
	if err := m.fetchErr[url]; err != nil {
		return nil, err
	}
	return &scraper.ExtractionResult{Listings: m.listings[url]}, nil
}

// MockPublisher implements publisher.Publisher for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	trimmed  int
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(stream string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages[stream] = append(m.messages[stream], messageCopy)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// MockNotifier records what was delivered
type MockNotifier struct {
	alerts  []models.PricingOpportunity
	reports []map[string][]scraper.Listing
}

func (m *MockNotifier) SendAlert(op models.PricingOpportunity) error {
	m.alerts = append(m.alerts, op)
	return nil
}

func (m *MockNotifier) SendTrendReport(report map[string][]scraper.Listing) error {
	m.reports = append(m.reports, report)
	return nil
}

func newTestWorker(t *testing.T, st store.Store, fetcher PriceFetcher, notif *MockNotifier, pub *MockPublisher, cfg *config.Config) *Worker {
	t.Helper()
	log := logger.ForWorker()
	return NewWorker(
		context.Background(),
		st,
		fetcher,
		pricing.NewEngine(cfg.UndercutMargin, logger.ForPricer()),
		trend.NewMatcher(cfg.FuzzyThreshold, logger.ForTrend()),
		notif,
		pub,
		cfg,
		log,
	)
}

func testConfig() *config.Config {
	return &config.Config{
		UndercutMargin:      1.0,
		FuzzyThreshold:      80,
		TrendyolTrendURL:    "https://www.trendyol.com/sr?sst=BEST_SELLER",
		HepsiburadaTrendURL: "",
		N11TrendURL:         "",
		AmazonTrendURL:      "",
	}
}

func watchProduct(t *testing.T, st *MockStore, id int64, name string) *models.Product {
	t.Helper()
	product, err := models.NewProduct(id, name, name, 100, 80, 60, 0.30)
	require.NoError(t, err)
	st.products = append(st.products, product)
	return product
}

func TestRunPricePatrol(t *testing.T) {
	st := NewMockStore()
	product := watchProduct(t, st, 1, "Akilli Saat Pro")
	st.competitors[product.ID] = []*models.Competitor{
		{ID: 11, ProductID: product.ID, URL: "https://rakip-a.example/p", Status: models.StatusActive},
		{ID: 12, ProductID: product.ID, URL: "https://rakip-b.example/p", Status: models.StatusActive},
	}

	fetcher := &MockFetcher{
		prices:   map[string]float64{"https://rakip-a.example/p": 90},
		fetchErr: map[string]error{"https://rakip-b.example/p": errors.New("timeout")},
	}
	notif := &MockNotifier{}
	pub := NewMockPublisher()

	w := newTestWorker(t, st, fetcher, notif, pub, testConfig())
	w.RunPricePatrol()

	// The working competitor yields 90, undercut by the margin of 1
	assert.InDelta(t, 89, st.priceUpdates[product.ID], 1e-9)
	assert.Equal(t, "UNDERCUT_BY_$1.00", st.reasons[product.ID])

	assert.Equal(t, models.StatusActive, st.statusByID[11])
	assert.Equal(t, models.StatusError, st.statusByID[12])

	require.Len(t, notif.alerts, 1)
	assert.Equal(t, product.ID, notif.alerts[0].ProductID)

	require.Len(t, pub.messages[publisher.StreamPricing], 1)
	var published models.PricingOpportunity
	require.NoError(t, json.Unmarshal(pub.messages[publisher.StreamPricing][0], &published))
	assert.InDelta(t, 89, published.SuggestedPrice, 1e-9)

	assert.Equal(t, 1, pub.trimmed)
}

func TestRunPricePatrolNoChangeNoPublish(t *testing.T) {
	st := NewMockStore()
	product := watchProduct(t, st, 1, "Akilli Saat Pro")
	st.competitors[product.ID] = []*models.Competitor{
		{ID: 11, ProductID: product.ID, URL: "https://rakip-a.example/p", Status: models.StatusActive},
	}

	// Competitor is far more expensive, so the current price stays
	fetcher := &MockFetcher{prices: map[string]float64{"https://rakip-a.example/p": 150}}
	notif := &MockNotifier{}
	pub := NewMockPublisher()

	w := newTestWorker(t, st, fetcher, notif, pub, testConfig())
	w.RunPricePatrol()

	assert.Empty(t, st.priceUpdates)
	assert.Empty(t, notif.alerts)
	assert.Empty(t, pub.messages[publisher.StreamPricing])
}

func TestRunPricePatrolSkipsInactiveCompetitors(t *testing.T) {
	st := NewMockStore()
	product := watchProduct(t, st, 1, "Akilli Saat Pro")
	st.competitors[product.ID] = []*models.Competitor{
		{ID: 11, ProductID: product.ID, URL: "https://rakip-a.example/p", Status: models.StatusInactive},
	}

	fetcher := &MockFetcher{prices: map[string]float64{"https://rakip-a.example/p": 90}}
	notif := &MockNotifier{}
	pub := NewMockPublisher()

	w := newTestWorker(t, st, fetcher, notif, pub, testConfig())
	w.RunPricePatrol()

	// The only competitor is inactive, so no data reaches the engine
	assert.Empty(t, st.priceUpdates)
	assert.Empty(t, st.statusByID)
}

func TestRunTrendScan(t *testing.T) {
	st := NewMockStore()
	watchProduct(t, st, 1, "Akilli Saat Pro")

	cfg := testConfig()
	fetcher := &MockFetcher{
		listings: map[string][]scraper.Listing{
			cfg.TrendyolTrendURL: {
				{Name: "Akilli Saat Pro", Rank: 1, Price: 95},
				{Name: "Bluetooth Speaker Mini", Rank: 3, Price: 250},
			},
		},
	}
	notif := &MockNotifier{}
	pub := NewMockPublisher()

	w := newTestWorker(t, st, fetcher, notif, pub, cfg)
	w.RunTrendScan()

	// Only the unmatched listing becomes an opportunity
	require.Len(t, pub.messages[publisher.StreamTrend], 1)
	var published models.TrendOpportunity
	require.NoError(t, json.Unmarshal(pub.messages[publisher.StreamTrend][0], &published))
	assert.Equal(t, "Bluetooth Speaker Mini", published.ProductName)
	assert.Equal(t, models.VelocityHigh, published.EstimatedSalesVelocity)

	require.Len(t, notif.reports, 1)
	assert.Len(t, notif.reports[0]["Trendyol Best Sellers"], 2)
}

func TestRunTrendScanFetchFailureSkipsCategory(t *testing.T) {
	st := NewMockStore()
	cfg := testConfig()
	fetcher := &MockFetcher{
		fetchErr: map[string]error{cfg.TrendyolTrendURL: errors.New("rate limited")},
	}
	notif := &MockNotifier{}
	pub := NewMockPublisher()

	w := newTestWorker(t, st, fetcher, notif, pub, cfg)
	w.RunTrendScan()

	assert.Empty(t, pub.messages[publisher.StreamTrend])
	assert.Empty(t, notif.reports, "no report when every category failed")
}
