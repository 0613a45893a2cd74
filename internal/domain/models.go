// Package domain provides core domain models and types.
package domain

import (
	"strings"
	"time"
)

// UnknownSector is used for holdings without a sector
const UnknownSector = "Unknown"

// DateLayout is the calendar date format used for acquisition dates
const DateLayout = "2006-01-02"

// Holding represents a single stock position.
// Symbol is always the exchange-neutral canonical form (trimmed, upper-cased)
// and doubles as the cache and lookup key. CurrentPrice is populated by the
// price fetch step and is never persisted.
type Holding struct {
	AcquiredOn   time.Time `json:"acquired_on"`
	Symbol       string    `json:"symbol"`
	Sector       string    `json:"sector"`
	Quantity     float64   `json:"quantity"`
	CostBasis    float64   `json:"cost_basis"`
	CurrentPrice float64   `json:"current_price"`
}

// NewHolding creates a normalized holding.
// A zero acquisition date defaults to today, a blank sector to UnknownSector.
func NewHolding(symbol string, quantity, costBasis float64, acquiredOn time.Time, sector string) Holding {
	if acquiredOn.IsZero() {
		acquiredOn = Today()
	}
	return Holding{
		Symbol:     NormalizeSymbol(symbol),
		Quantity:   quantity,
		CostBasis:  costBasis,
		AcquiredOn: truncateToDate(acquiredOn),
		Sector:     NormalizeSector(sector),
	}
}

// NormalizeSymbol trims and upper-cases a user-entered ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeSector trims a sector name, folding blanks into UnknownSector
func NormalizeSector(sector string) string {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return UnknownSector
	}
	return sector
}

// Today returns the current calendar date (UTC midnight)
func Today() time.Time {
	return truncateToDate(time.Now())
}

// ParseDate parses a YYYY-MM-DD acquisition date
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithPrice returns a copy of the holding annotated with a current price
func (h Holding) WithPrice(price float64) Holding {
	h.CurrentPrice = price
	return h
}

// Snapshot is an ordered point-in-time view of holdings with current prices attached.
// Analytics treat it as immutable.
type Snapshot struct {
	TakenAt  time.Time `json:"taken_at"`
	Holdings []Holding `json:"holdings"`
}

// Symbols returns the holding symbols in snapshot order
func (s Snapshot) Symbols() []string {
	symbols := make([]string, 0, len(s.Holdings))
	for _, h := range s.Holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

// Quote is a price captured for a symbol
type Quote struct {
	CapturedAt time.Time `json:"captured_at" msgpack:"captured_at"`
	Symbol     string    `json:"symbol" msgpack:"symbol"`
	Price      float64   `json:"price" msgpack:"price"`
}
