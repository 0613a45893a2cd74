package market

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/stockwise/internal/domain"
)

const (
	simulatedBand  = 3000
	simulatedFloor = 100
	// maxDrift is the largest per-call move, as a fraction of the last price
	maxDrift = 0.02
)

// SimulatedProvider is an offline random-walk price source.
// An unseen symbol starts at a base price derived from its text; each later
// call moves the last price by up to ±2%.
type SimulatedProvider struct {
	last map[string]float64
	rnd  *rand.Rand
	mu   sync.Mutex
}

// NewSimulatedProvider creates a simulated provider.
// A nil rnd is seeded from the clock.
func NewSimulatedProvider(rnd *rand.Rand) *SimulatedProvider {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedProvider{
		last: make(map[string]float64),
		rnd:  rnd,
	}
}

// Name identifies the provider in logs and metrics
func (p *SimulatedProvider) Name() string {
	return "simulated"
}

// FetchPrices never fails
func (p *SimulatedProvider) FetchPrices(_ context.Context, symbols []string) map[string]domain.PriceResult {
	results := make(map[string]domain.PriceResult, len(symbols))

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, symbol := range symbols {
		results[symbol] = domain.PriceResult{Price: p.next(domain.NormalizeSymbol(symbol))}
	}
	return results
}

func (p *SimulatedProvider) next(symbol string) float64 {
	last, ok := p.last[symbol]
	if !ok {
		price := BasePrice(symbol)
		p.last[symbol] = price
		return price
	}

	drift := (p.rnd.Float64() - 0.5) * 2 * maxDrift
	price := round2(last * (1 + drift))
	p.last[symbol] = price
	return price
}

// BasePrice is the deterministic starting price for symbol
func BasePrice(symbol string) float64 {
	sum := 0
	for _, r := range symbol {
		sum += int(r)
	}
	return round2(float64(sum%simulatedBand + simulatedFloor))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
