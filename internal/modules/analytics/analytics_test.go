package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockwise/internal/domain"
)

func holding(symbol string, qty, cost, price float64, sector string) domain.Holding {
	h := domain.NewHolding(symbol, qty, cost, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), sector)
	return h.WithPrice(price)
}

func samplePortfolio() []domain.Holding {
	return []domain.Holding{
		holding("TCS", 10, 3000, 3600, "IT"),
		holding("HDFC", 20, 1500, 1350, "Banking"),
		holding("INFY", 5, 1400, 1400, "IT"),
	}
}

func TestHoldingFigures(t *testing.T) {
	h := holding("TCS", 10, 3000, 3600, "IT")

	assert.Equal(t, 30000.0, InvestedAmount(h))
	assert.Equal(t, 36000.0, CurrentValue(h))
	assert.Equal(t, 6000.0, HoldingPL(h))
	assert.InDelta(t, 20.0, HoldingPLPercent(h), 1e-9)
}

func TestHoldingPLPercent_ZeroInvested(t *testing.T) {
	assert.Zero(t, HoldingPLPercent(holding("FREE", 10, 0, 50, "")))
	assert.Zero(t, HoldingPLPercent(holding("NONE", 0, 100, 50, "")))
}

func TestTotals(t *testing.T) {
	hs := samplePortfolio()

	assert.Equal(t, 67000.0, TotalInvested(hs))
	assert.Equal(t, 70000.0, TotalCurrentValue(hs))
	assert.Equal(t, 3000.0, UnrealizedPL(hs))
	assert.InDelta(t, 3000.0/67000.0*100, UnrealizedPLPercent(hs), 1e-9)
}

func TestEmptyPortfolio(t *testing.T) {
	result := Analyze(domain.Snapshot{})

	assert.Zero(t, result.TotalInvested)
	assert.Zero(t, result.TotalCurrentValue)
	assert.Zero(t, result.UnrealizedPL)
	assert.Zero(t, result.UnrealizedPLPercent)
	assert.Zero(t, result.VolatilityScore)
	assert.Zero(t, result.DiversificationScore)
	assert.Empty(t, result.Allocations)
	assert.Empty(t, result.SectorWeights)
	assert.Equal(t, RiskLow, result.RiskRating)
	assert.False(t, math.IsNaN(result.UnrealizedPLPercent))
}

func TestAllocationPercent(t *testing.T) {
	alloc := AllocationPercent(samplePortfolio())

	require.Len(t, alloc, 3)
	assert.Equal(t, Allocation{Symbol: "TCS", Percent: 51.43}, alloc[0])
	assert.Equal(t, Allocation{Symbol: "HDFC", Percent: 38.57}, alloc[1])
	assert.Equal(t, Allocation{Symbol: "INFY", Percent: 10.0}, alloc[2])
}

func TestAllocationPercent_ZeroTotal(t *testing.T) {
	alloc := AllocationPercent([]domain.Holding{
		holding("A", 1, 10, 0, ""),
		holding("B", 1, 10, 0, ""),
	})

	for _, a := range alloc {
		assert.Zero(t, a.Percent)
	}
}

func TestAllocationPercent_SumsToHundred(t *testing.T) {
	hs := []domain.Holding{
		holding("A", 3, 10, 11.11, "X"),
		holding("B", 7, 10, 9.37, "Y"),
		holding("C", 13, 10, 4.01, "Z"),
		holding("D", 1, 10, 101.5, "X"),
	}

	var sum float64
	for _, a := range AllocationPercent(hs) {
		sum += a.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.01*float64(len(hs)))
}

func TestSectorWeights(t *testing.T) {
	hs := append(samplePortfolio(), holding("MISC", 1, 100, 1000, "  "))
	weights := SectorWeights(hs)

	require.Len(t, weights, 3)
	assert.Equal(t, "IT", weights[0].Sector)
	assert.Equal(t, "Banking", weights[1].Sector)
	assert.Equal(t, domain.UnknownSector, weights[2].Sector)
	assert.InDelta(t, 43000.0/71000.0*100, weights[0].Percent, 1e-9)

	var sum float64
	for _, w := range weights {
		sum += w.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestVolatilityScore(t *testing.T) {
	// P/L percents: +20, -10, 0 -> mean 3.333, population std-dev 12.472
	vol := VolatilityScore(samplePortfolio())
	assert.InDelta(t, 12.4722, vol, 1e-4)

	assert.Zero(t, VolatilityScore(nil))
	assert.Zero(t, VolatilityScore([]domain.Holding{holding("ONE", 1, 100, 150, "")}))
}

func TestDiversificationScore(t *testing.T) {
	even := []domain.Holding{
		holding("A", 1, 100, 100, "IT"),
		holding("B", 1, 100, 100, "Banking"),
	}
	assert.InDelta(t, 100.0, DiversificationScore(even), 1e-9)

	single := []domain.Holding{holding("A", 1, 100, 100, "IT")}
	assert.InDelta(t, 100.0, DiversificationScore(single), 1e-9)

	skewed := []domain.Holding{
		holding("A", 9, 100, 100, "IT"),
		holding("B", 1, 100, 100, "Banking"),
	}
	// weights 90/10, ideal 50 -> (60 + 60) / 2
	assert.InDelta(t, 60.0, DiversificationScore(skewed), 1e-9)

	assert.Zero(t, DiversificationScore(nil))
}

func TestDiversificationScore_Bounds(t *testing.T) {
	for _, hs := range [][]domain.Holding{samplePortfolio(), {holding("Z", 1, 1, 0, "")}} {
		score := DiversificationScore(hs)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestTopGainersAndLosers(t *testing.T) {
	hs := samplePortfolio()

	gainers := TopGainers(hs, 2)
	require.Len(t, gainers, 2)
	assert.Equal(t, "TCS", gainers[0].Symbol)
	assert.Equal(t, "INFY", gainers[1].Symbol)

	losers := TopLosers(hs, 5)
	require.Len(t, losers, 3)
	assert.Equal(t, "HDFC", losers[0].Symbol)

	assert.Empty(t, TopGainers(hs, 0))
	assert.Equal(t, "TCS", hs[0].Symbol, "input must not be reordered")
}

func TestAnalyzeDoesNotMutateSnapshot(t *testing.T) {
	hs := samplePortfolio()
	before := make([]domain.Holding, len(hs))
	copy(before, hs)

	result := Analyze(domain.Snapshot{Holdings: hs})

	assert.Equal(t, before, hs)
	require.Len(t, result.Holdings, 3)
	assert.Equal(t, "TCS", result.Holdings[0].Symbol)
	assert.InDelta(t, 20.0, result.Holdings[0].PLPercent, 1e-9)
	assert.Equal(t, RiskMedium, result.RiskRating)
}

func TestRiskRatings(t *testing.T) {
	tests := []struct {
		vol      float64
		snapshot string
		summary  string
	}{
		{0, RiskLow, RiskLow},
		{9.99, RiskLow, RiskLow},
		{10, RiskMedium, RiskLow},
		{25, RiskHigh, RiskLow},
		{30, RiskHigh, RiskMedium},
		{60, RiskHigh, RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.snapshot, SnapshotRiskRating(tt.vol), "snapshot rating for %v", tt.vol)
		assert.Equal(t, tt.summary, SummaryRiskRating(tt.vol), "summary rating for %v", tt.vol)
	}
	assert.Equal(t, RiskUnknown, SummaryRiskRating(math.NaN()))
}
