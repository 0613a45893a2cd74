package domain

import (
	"context"
	"errors"
)

// ErrNoPrice is reported when a provider response carries no usable price
var ErrNoPrice = errors.New("no price in response")

// PriceResult is the outcome of fetching one symbol.
// A failed fetch has Price 0 and a non-nil Err.
type PriceResult struct {
	Err   error
	Price float64
}

// OK reports whether the fetch succeeded
func (r PriceResult) OK() bool {
	return r.Err == nil
}

// Failed builds a failed result carrying the zero price
func Failed(err error) PriceResult {
	return PriceResult{Price: 0, Err: err}
}

// PriceProvider returns a price per requested symbol.
// Implementations must include every requested symbol in the result and must
// never fail the whole batch because one symbol failed.
type PriceProvider interface {
	Name() string
	FetchPrices(ctx context.Context, symbols []string) map[string]PriceResult
}

// PriceFetcher resolves current prices for a list of symbols.
// Failures degrade to a zero price for the affected symbol.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, symbols []string) map[string]float64
}
