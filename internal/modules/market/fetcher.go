package market

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/metrics"
)

const (
	// DefaultTTL is how long a fetched price is served from cache
	DefaultTTL = 4 * time.Second
	// DefaultConcurrency bounds parallel provider calls per request
	DefaultConcurrency = 4
)

// LastKnownGoodStore persists the last successful quote per symbol
type LastKnownGoodStore interface {
	Remember(q domain.Quote) error
	Recall(symbol string) (domain.Quote, bool, error)
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTTL sets the cache freshness window
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the sink that receives provider failures
func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = log.With().Str("service", "price_fetcher").Logger() }
}

// WithMetrics records cache and provider activity
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithConcurrency bounds how many symbols are fetched in parallel
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLastKnownGood makes failed fetches fall back to the last good price in store.
// Successful prices are written through to the store.
func WithLastKnownGood(store LastKnownGoodStore) Option {
	return func(f *Fetcher) { f.lkg = store }
}

// Fetcher serves prices from a TTL cache in front of a single provider.
// Provider failures never reach the caller; the affected symbol gets 0.
type Fetcher struct {
	provider    domain.PriceProvider
	cache       *Cache
	lkg         LastKnownGoodStore
	metrics     *metrics.Metrics
	now         func() time.Time
	group       singleflight.Group
	log         zerolog.Logger
	ttl         time.Duration
	concurrency int
}

// NewFetcher creates a caching fetcher over provider.
// A nil cache gets a fresh private one.
func NewFetcher(provider domain.PriceProvider, cache *Cache, opts ...Option) *Fetcher {
	if cache == nil {
		cache = NewCache()
	}
	f := &Fetcher{
		provider:    provider,
		cache:       cache,
		ttl:         DefaultTTL,
		now:         time.Now,
		log:         zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Provider returns the underlying provider name
func (f *Fetcher) Provider() string {
	return f.provider.Name()
}

// FetchPrices returns a price per distinct non-empty symbol, keyed by the
// normalized symbol.
func (f *Fetcher) FetchPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	seen := make(map[string]bool, len(symbols))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for _, raw := range symbols {
		symbol := domain.NormalizeSymbol(raw)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		g.Go(func() error {
			price := f.price(ctx, symbol)
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return prices
}

func (f *Fetcher) price(ctx context.Context, symbol string) float64 {
	if q, ok := f.fresh(symbol); ok {
		f.metrics.CacheHit()
		return q.Price
	}
	f.metrics.CacheMiss()

	// The flight is shared by every waiter, so one caller's cancellation must
	// not fail it. The provider bounds each call with its own timeout.
	flightCtx := context.WithoutCancel(ctx)
	v, _, _ := f.group.Do(symbol, func() (interface{}, error) {
		// A concurrent flight may have filled the entry while we waited.
		if q, ok := f.fresh(symbol); ok {
			return q.Price, nil
		}
		return f.load(flightCtx, symbol), nil
	})
	return v.(float64)
}

func (f *Fetcher) fresh(symbol string) (domain.Quote, bool) {
	q, storedAt, ok := f.cache.Get(symbol)
	if !ok {
		return domain.Quote{}, false
	}
	return q, f.now().Sub(storedAt) < f.ttl
}

func (f *Fetcher) load(ctx context.Context, symbol string) float64 {
	name := f.provider.Name()

	start := time.Now()
	results := f.provider.FetchPrices(ctx, []string{symbol})
	f.metrics.ObserveProviderLatency(name, time.Since(start))

	res, ok := results[symbol]
	if !ok {
		res = domain.Failed(domain.ErrNoPrice)
	}

	now := f.now()
	price := res.Price

	if res.OK() {
		f.remember(domain.Quote{Symbol: symbol, Price: price, CapturedAt: now})
	} else {
		price = 0
		f.metrics.ProviderFailure(name)
		f.log.Warn().
			Err(res.Err).
			Str("symbol", symbol).
			Str("provider", name).
			Msg("Price fetch failed")

		if q, ok := f.recall(symbol); ok {
			price = q.Price
			f.metrics.LastKnownGoodUsed()
			f.log.Info().
				Str("symbol", symbol).
				Float64("price", price).
				Time("captured_at", q.CapturedAt).
				Msg("Using last known good price")
		}
	}

	f.cache.Put(domain.Quote{Symbol: symbol, Price: price, CapturedAt: now}, now)
	return price
}

func (f *Fetcher) remember(q domain.Quote) {
	if f.lkg == nil {
		return
	}
	if err := f.lkg.Remember(q); err != nil {
		f.log.Warn().Err(err).Str("symbol", q.Symbol).Msg("Failed to store last known good price")
	}
}

func (f *Fetcher) recall(symbol string) (domain.Quote, bool) {
	if f.lkg == nil {
		return domain.Quote{}, false
	}
	q, ok, err := f.lkg.Recall(symbol)
	if err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to read last known good price")
		return domain.Quote{}, false
	}
	return q, ok
}
