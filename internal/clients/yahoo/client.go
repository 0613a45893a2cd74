// Package yahoo fetches live quotes from the Yahoo Finance chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/symbols"
)

const (
	// DefaultBaseURL is the public Yahoo Finance query host
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultTimeout bounds a single symbol lookup end to end
	DefaultTimeout = 4 * time.Second
	// DefaultUserAgent is sent on every request; the endpoint rejects blank agents
	DefaultUserAgent = "Mozilla/5.0"

	defaultConcurrency     = 4
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	maxResponseBytes       = 4 << 20

	pathMarketPrice = "$.chart.result[0].meta.regularMarketPrice"
	pathCloses      = "$.chart.result[0].indicators.quote[0].close"
)

// Config tunes the live client. Zero values fall back to defaults.
type Config struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	BreakerCooldown time.Duration
	RateLimitRPS    float64
	Concurrency     int
	BreakerFailures uint32
}

// Client is a PriceProvider backed by the Yahoo chart API
type Client struct {
	client    *http.Client
	mapper    *symbols.Mapper
	breaker   *gobreaker.CircuitBreaker
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
	log       zerolog.Logger
	timeout   time.Duration
	workers   int
}

// NewClient creates a Yahoo client. RateLimitRPS <= 0 disables rate limiting.
func NewClient(cfg Config, mapper *symbols.Mapper, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaultBreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = defaultBreakerCooldown
	}
	if mapper == nil {
		mapper = symbols.NewMapper("", nil)
	}

	c := &Client{
		client:    &http.Client{Timeout: cfg.Timeout},
		mapper:    mapper,
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		workers:   cfg.Concurrency,
		log:       log.With().Str("client", "yahoo").Logger(),
	}

	if cfg.RateLimitRPS > 0 {
		burst := int(cfg.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	failures := cfg.BreakerFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yahoo",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return c
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return "yahoo"
}

// FetchPrices looks up each symbol independently. Every requested symbol is
// present in the result; failures carry a zero price and the cause.
func (c *Client) FetchPrices(ctx context.Context, syms []string) map[string]domain.PriceResult {
	results := make(map[string]domain.PriceResult, len(syms))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.workers)

	for _, symbol := range syms {
		g.Go(func() error {
			price, err := c.fetchOne(ctx, symbol)
			res := domain.PriceResult{Price: price}
			if err != nil {
				res = domain.Failed(err)
			}
			mu.Lock()
			results[symbol] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Client) fetchOne(ctx context.Context, symbol string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	mapped := c.mapper.Map(symbol)
	doc, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getChart(ctx, mapped)
	})
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", mapped, err)
	}

	price, err := ParseChartPrice(doc)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", mapped, err)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("yahoo_symbol", mapped).
		Float64("price", price).
		Msg("Fetched quote")

	return price, nil
}

func (c *Client) getChart(ctx context.Context, mapped string) (interface{}, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1m", c.baseURL, url.PathEscape(mapped))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doc interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return doc, nil
}

// ParseChartPrice extracts the current price from a decoded chart response.
// The regular market price wins; otherwise the newest non-null close is used.
func ParseChartPrice(doc interface{}) (float64, error) {
	if v, err := jsonpath.Get(pathMarketPrice, doc); err == nil {
		if list, ok := v.([]interface{}); ok && len(list) == 1 {
			v = list[0]
		}
		if price, ok := number(v); ok {
			return price, nil
		}
	}

	v, err := jsonpath.Get(pathCloses, doc)
	if err != nil {
		return 0, domain.ErrNoPrice
	}
	closes, ok := unwrap(v).([]interface{})
	if !ok {
		return 0, domain.ErrNoPrice
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if price, ok := number(closes[i]); ok {
			return price, nil
		}
	}
	return 0, domain.ErrNoPrice
}

// unwrap strips the single-element list jsonpath may wrap a list match in
func unwrap(v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok && len(list) == 1 {
		if _, nested := list[0].([]interface{}); nested {
			return list[0]
		}
	}
	return v
}

func number(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
