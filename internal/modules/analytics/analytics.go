// Package analytics computes portfolio metrics over holdings with current prices attached.
// All functions are pure and never mutate their input.
package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/stockwise/internal/domain"
)

// Allocation is a holding's share of total current value, in percent
type Allocation struct {
	Symbol  string  `json:"symbol"`
	Percent float64 `json:"percent"`
}

// SectorWeight is a sector's share of total current value, in percent
type SectorWeight struct {
	Sector  string  `json:"sector"`
	Percent float64 `json:"percent"`
}

// InvestedAmount is cost basis per unit times quantity
func InvestedAmount(h domain.Holding) float64 {
	return h.CostBasis * h.Quantity
}

// CurrentValue is current price times quantity
func CurrentValue(h domain.Holding) float64 {
	return h.CurrentPrice * h.Quantity
}

// HoldingPL is the unrealized profit or loss of one holding
func HoldingPL(h domain.Holding) float64 {
	return CurrentValue(h) - InvestedAmount(h)
}

// HoldingPLPercent is HoldingPL relative to the invested amount, 0 when nothing was invested
func HoldingPLPercent(h domain.Holding) float64 {
	invested := InvestedAmount(h)
	if invested <= 0 {
		return 0
	}
	return HoldingPL(h) / invested * 100
}

// TotalInvested sums InvestedAmount over holdings
func TotalInvested(holdings []domain.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += InvestedAmount(h)
	}
	return total
}

// TotalCurrentValue sums CurrentValue over holdings
func TotalCurrentValue(holdings []domain.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += CurrentValue(h)
	}
	return total
}

// UnrealizedPL is total current value minus total invested
func UnrealizedPL(holdings []domain.Holding) float64 {
	return TotalCurrentValue(holdings) - TotalInvested(holdings)
}

// UnrealizedPLPercent is UnrealizedPL relative to TotalInvested, 0 when nothing was invested
func UnrealizedPLPercent(holdings []domain.Holding) float64 {
	invested := TotalInvested(holdings)
	if invested <= 0 {
		return 0
	}
	return UnrealizedPL(holdings) / invested * 100
}

// AllocationPercent returns each holding's share of current value in holding
// order, rounded to 2 decimals. All shares are 0 when the total is 0.
func AllocationPercent(holdings []domain.Holding) []Allocation {
	total := TotalCurrentValue(holdings)

	out := make([]Allocation, 0, len(holdings))
	for _, h := range holdings {
		var pct float64
		if total > 0 {
			pct = CurrentValue(h) / total * 100
		}
		out = append(out, Allocation{Symbol: h.Symbol, Percent: round2(pct)})
	}
	return out
}

// SectorWeights groups current value by sector, in first-appearance order.
// A blank sector is reported as domain.UnknownSector.
func SectorWeights(holdings []domain.Holding) []SectorWeight {
	total := TotalCurrentValue(holdings)

	index := make(map[string]int)
	var out []SectorWeight
	for _, h := range holdings {
		sector := domain.NormalizeSector(h.Sector)
		i, ok := index[sector]
		if !ok {
			i = len(out)
			index[sector] = i
			out = append(out, SectorWeight{Sector: sector})
		}
		out[i].Percent += CurrentValue(h)
	}

	for i := range out {
		if total > 0 {
			out[i].Percent = out[i].Percent / total * 100
		} else {
			out[i].Percent = 0
		}
	}
	return out
}

// VolatilityScore is the population standard deviation of per-holding P/L
// percentages. It measures dispersion across holdings, not over time.
func VolatilityScore(holdings []domain.Holding) float64 {
	if len(holdings) == 0 {
		return 0
	}
	returns := make([]float64, len(holdings))
	for i, h := range holdings {
		returns[i] = HoldingPLPercent(h)
	}
	_, std := stat.PopMeanStdDev(returns, nil)
	return std
}

// DiversificationScore rates how evenly value spreads across sectors, 0 to 100.
func DiversificationScore(holdings []domain.Holding) float64 {
	return diversification(SectorWeights(holdings))
}

func diversification(weights []SectorWeight) float64 {
	if len(weights) == 0 {
		return 0
	}
	ideal := 100.0 / float64(len(weights))

	var score float64
	for _, w := range weights {
		score += 100 - math.Abs(w.Percent-ideal)
	}
	return math.Min(score/float64(len(weights)), 100)
}

// TopGainers returns up to n holdings with the highest P/L percent.
// Ties keep holding order.
func TopGainers(holdings []domain.Holding, n int) []domain.Holding {
	return ranked(holdings, n, func(a, b float64) bool { return a > b })
}

// TopLosers returns up to n holdings with the lowest P/L percent.
// Ties keep holding order.
func TopLosers(holdings []domain.Holding, n int) []domain.Holding {
	return ranked(holdings, n, func(a, b float64) bool { return a < b })
}

func ranked(holdings []domain.Holding, n int, before func(a, b float64) bool) []domain.Holding {
	if n <= 0 {
		return []domain.Holding{}
	}
	sorted := make([]domain.Holding, len(holdings))
	copy(sorted, holdings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return before(HoldingPLPercent(sorted[i]), HoldingPLPercent(sorted[j]))
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
