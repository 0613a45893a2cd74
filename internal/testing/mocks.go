package testing

import (
	"context"
	"sync"

	"github.com/aristath/stockwise/internal/domain"
)

// MockPriceProvider is a configurable domain.PriceProvider for tests
type MockPriceProvider struct {
	prices map[string]float64
	errs   map[string]error
	calls  map[string]int
	mu     sync.Mutex
}

// NewMockPriceProvider creates a provider that returns prices; unknown symbols fail
func NewMockPriceProvider(prices map[string]float64) *MockPriceProvider {
	p := &MockPriceProvider{
		prices: make(map[string]float64),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
	for k, v := range prices {
		p.prices[k] = v
	}
	return p
}

// SetPrice sets the price returned for symbol
func (m *MockPriceProvider) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
	delete(m.errs, symbol)
}

// SetError makes symbol fail with err
func (m *MockPriceProvider) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
}

// Calls returns how many times symbol was requested
func (m *MockPriceProvider) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// Name implements domain.PriceProvider
func (m *MockPriceProvider) Name() string {
	return "mock"
}

// FetchPrices implements domain.PriceProvider
func (m *MockPriceProvider) FetchPrices(_ context.Context, symbols []string) map[string]domain.PriceResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]domain.PriceResult, len(symbols))
	for _, s := range symbols {
		m.calls[s]++
		if err, ok := m.errs[s]; ok {
			out[s] = domain.Failed(err)
			continue
		}
		price, ok := m.prices[s]
		if !ok {
			out[s] = domain.Failed(domain.ErrNoPrice)
			continue
		}
		out[s] = domain.PriceResult{Price: price}
	}
	return out
}

// StaticFetcher is a domain.PriceFetcher returning fixed prices
type StaticFetcher map[string]float64

// FetchPrices implements domain.PriceFetcher. Results are keyed by the
// normalized symbol; blank symbols are skipped.
func (f StaticFetcher) FetchPrices(_ context.Context, symbols []string) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	for _, raw := range symbols {
		s := domain.NormalizeSymbol(raw)
		if s == "" {
			continue
		}
		out[s] = f[s]
	}
	return out
}
