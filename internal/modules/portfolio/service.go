// Package portfolio manages stored holdings and assembles priced portfolio views.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/analytics"
	"github.com/aristath/stockwise/internal/modules/suggestions"
)

// ErrInvalidHolding is returned for holdings rejected before reaching the store
var ErrInvalidHolding = errors.New("invalid holding")

// QuoteEvictor drops retained quotes for a symbol that is no longer held
type QuoteEvictor interface {
	Forget(symbol string) error
}

// SampleSource supplies the holdings used to seed an empty store
type SampleSource func() ([]domain.Holding, error)

// Analysis is a priced snapshot with its metrics and advisories
type Analysis struct {
	Snapshot    domain.Snapshot  `json:"snapshot"`
	Result      analytics.Result `json:"result"`
	Suggestions []string         `json:"suggestions"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Summary is the dashboard view of a portfolio
type Summary struct {
	Allocation        []analytics.Allocation `json:"allocation"`
	Suggestions       []string               `json:"suggestions"`
	Warnings          []string               `json:"warnings,omitempty"`
	RiskRating        string                 `json:"risk_rating"`
	TotalInvested     float64                `json:"total_invested"`
	CurrentValue      float64                `json:"current_value"`
	Unrealized        float64                `json:"unrealized"`
	UnrealizedPercent float64                `json:"unrealized_percent"`
	Volatility        float64                `json:"volatility"`
	Diversification   float64                `json:"diversification"`
}

// Movers are the best and worst performing holdings
type Movers struct {
	Gainers  []analytics.HoldingMetrics `json:"gainers"`
	Losers   []analytics.HoldingMetrics `json:"losers"`
	Warnings []string                   `json:"warnings,omitempty"`
}

// Service orchestrates holdings storage, pricing, analytics, and suggestions.
// Persistence failures never abort a read; the view is built from whatever
// data is available and the failure is reported in Warnings.
type Service struct {
	repo    HoldingRepository
	fetcher domain.PriceFetcher
	engine  *suggestions.Engine
	sample  SampleSource
	quotes  QuoteEvictor
	now     func() time.Time
	log     zerolog.Logger
}

// NewService creates a portfolio service. A nil sample disables seeding.
func NewService(
	repo HoldingRepository,
	fetcher domain.PriceFetcher,
	engine *suggestions.Engine,
	sample SampleSource,
	log zerolog.Logger,
) *Service {
	if engine == nil {
		engine = suggestions.NewEngine(suggestions.DefaultThresholds())
	}
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		engine:  engine,
		sample:  sample,
		now:     time.Now,
		log:     log.With().Str("service", "portfolio").Logger(),
	}
}

// SetQuoteEvictor registers the store whose quotes are dropped when a holding is removed
func (s *Service) SetQuoteEvictor(quotes QuoteEvictor) {
	s.quotes = quotes
}

// Holdings returns stored holdings, seeding the store from the sample when it is empty
func (s *Service) Holdings() ([]domain.Holding, []string) {
	var warnings []string

	holdings, err := s.repo.FindAll()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load holdings")
		return []domain.Holding{}, append(warnings, err.Error())
	}
	if len(holdings) > 0 || s.sample == nil {
		return holdings, warnings
	}

	sample, err := s.sample()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load sample portfolio")
		return holdings, warnings
	}
	if len(sample) == 0 {
		return holdings, warnings
	}

	if err := s.repo.ReplaceAll(sample); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist sample portfolio, serving it from memory")
		return sample, append(warnings, err.Error())
	}
	s.log.Info().Int("count", len(sample)).Msg("Seeded empty portfolio with sample holdings")

	stored, err := s.repo.FindAll()
	if err != nil {
		return sample, append(warnings, err.Error())
	}
	return stored, warnings
}

// Snapshot prices the stored holdings
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, []string) {
	holdings, warnings := s.Holdings()
	return s.price(ctx, holdings), warnings
}

func (s *Service) price(ctx context.Context, holdings []domain.Holding) domain.Snapshot {
	snapshot := domain.Snapshot{TakenAt: s.now(), Holdings: make([]domain.Holding, 0, len(holdings))}
	if len(holdings) == 0 {
		return snapshot
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	prices := s.fetcher.FetchPrices(ctx, symbols)

	for _, h := range holdings {
		snapshot.Holdings = append(snapshot.Holdings, h.WithPrice(prices[h.Symbol]))
	}
	return snapshot
}

// Analyze prices the stored holdings and evaluates them
func (s *Service) Analyze(ctx context.Context) Analysis {
	snapshot, warnings := s.Snapshot(ctx)
	return s.evaluate(snapshot, warnings)
}

// AnalyzeHoldings prices and evaluates holdings that are not in the store
func (s *Service) AnalyzeHoldings(ctx context.Context, holdings []domain.Holding) Analysis {
	return s.evaluate(s.price(ctx, holdings), nil)
}

func (s *Service) evaluate(snapshot domain.Snapshot, warnings []string) Analysis {
	result := analytics.Analyze(snapshot)

	return Analysis{
		Snapshot:    snapshot,
		Result:      result,
		Suggestions: s.engine.Evaluate(result),
		Warnings:    warnings,
	}
}

// Summary builds the dashboard summary. Its risk rating uses the summary scale.
func (s *Service) Summary(ctx context.Context) Summary {
	a := s.Analyze(ctx)
	r := a.Result

	return Summary{
		TotalInvested:     r.TotalInvested,
		CurrentValue:      r.TotalCurrentValue,
		Unrealized:        r.UnrealizedPL,
		UnrealizedPercent: r.UnrealizedPLPercent,
		Volatility:        r.VolatilityScore,
		Diversification:   r.DiversificationScore,
		Allocation:        r.Allocations,
		Suggestions:       a.Suggestions,
		RiskRating:        analytics.SummaryRiskRating(r.VolatilityScore),
		Warnings:          a.Warnings,
	}
}

// Movers returns up to n top gainers and losers, ignoring holdings with nothing invested
func (s *Service) Movers(ctx context.Context, n int) Movers {
	snapshot, warnings := s.Snapshot(ctx)

	invested := make([]domain.Holding, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		if analytics.InvestedAmount(h) != 0 {
			invested = append(invested, h)
		}
	}

	return Movers{
		Gainers:  withMetrics(analytics.TopGainers(invested, n)),
		Losers:   withMetrics(analytics.TopLosers(invested, n)),
		Warnings: warnings,
	}
}

func withMetrics(holdings []domain.Holding) []analytics.HoldingMetrics {
	out := make([]analytics.HoldingMetrics, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, analytics.HoldingMetrics{
			Holding:      h,
			Invested:     analytics.InvestedAmount(h),
			CurrentValue: analytics.CurrentValue(h),
			PL:           analytics.HoldingPL(h),
			PLPercent:    analytics.HoldingPLPercent(h),
		})
	}
	return out
}

// Prices returns current prices for arbitrary symbols, keyed by the normalized symbol.
// Blank symbols are dropped.
func (s *Service) Prices(ctx context.Context, symbols []string) map[string]float64 {
	normalized := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, raw := range symbols {
		symbol := domain.NormalizeSymbol(raw)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		normalized = append(normalized, symbol)
	}
	if len(normalized) == 0 {
		return map[string]float64{}
	}
	return s.fetcher.FetchPrices(ctx, normalized)
}

// AddHolding merges a lot into the store
func (s *Service) AddHolding(h domain.Holding) error {
	if domain.NormalizeSymbol(h.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	}
	if h.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidHolding)
	}
	if h.CostBasis < 0 {
		return fmt.Errorf("%w: cost basis must not be negative", ErrInvalidHolding)
	}
	return s.repo.Upsert(h)
}

// RemoveHolding deletes the holding for symbol
func (s *Service) RemoveHolding(symbol string) error {
	if domain.NormalizeSymbol(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	}
	if err := s.repo.DeleteBySymbol(symbol); err != nil {
		return err
	}
	if s.quotes != nil {
		if err := s.quotes.Forget(domain.NormalizeSymbol(symbol)); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to drop retained quote")
		}
	}
	return nil
}

// Import replaces all stored holdings
func (s *Service) Import(holdings []domain.Holding) error {
	return s.repo.ReplaceAll(holdings)
}
