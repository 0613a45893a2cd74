// Package suggestions turns portfolio analytics into ordered advisory messages.
package suggestions

import (
	"fmt"

	"github.com/aristath/stockwise/internal/modules/analytics"
)

// Balanced is emitted when no rule fires
const Balanced = "No strong suggestions: portfolio appears balanced."

// Thresholds are the rule cut-offs, all in percent except volatility
type Thresholds struct {
	Overweight          float64
	Underweight         float64
	HighVolatility      float64
	MediumVolatility    float64
	BookProfits         float64
	ReviewLoss          float64
	SectorConcentration float64
}

// DefaultThresholds returns the standard rule cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{
		Overweight:          25,
		Underweight:         1,
		HighVolatility:      30,
		MediumVolatility:    15,
		BookProfits:         20,
		ReviewLoss:          -10,
		SectorConcentration: 60,
	}
}

// Engine evaluates rules in a fixed order
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Evaluate returns advisories in rule order: allocation, volatility, per-holding
// P/L, then sector concentration. Within a rule, holdings and sectors keep the
// order they have in result.
func (e *Engine) Evaluate(result analytics.Result) []string {
	t := e.thresholds
	var out []string

	for _, a := range result.Allocations {
		switch {
		case a.Percent > t.Overweight:
			out = append(out, fmt.Sprintf("%s is Overweight (%.2f%%)", a.Symbol, a.Percent))
		case a.Percent < t.Underweight:
			out = append(out, fmt.Sprintf("%s is Underweight (%.2f%%)", a.Symbol, a.Percent))
		}
	}

	vol := result.VolatilityScore
	level := "Low"
	switch {
	case vol > t.HighVolatility:
		level = "High"
	case vol > t.MediumVolatility:
		level = "Medium"
	}
	out = append(out, fmt.Sprintf("Portfolio volatility is %s (%.2f)", level, vol))

	for _, h := range result.Holdings {
		if h.PLPercent > t.BookProfits {
			out = append(out, fmt.Sprintf("%s: P/L %.2f%% — Consider booking profits", h.Symbol, h.PLPercent))
		}
		if h.PLPercent < t.ReviewLoss {
			out = append(out, fmt.Sprintf("%s: P/L %.2f%% — Review holding", h.Symbol, h.PLPercent))
		}
	}

	if result.TotalCurrentValue > 0 {
		for _, s := range result.SectorWeights {
			if s.Percent > t.SectorConcentration {
				out = append(out, fmt.Sprintf("Sector concentration: %s at %.2f%% — Diversify", s.Sector, s.Percent))
			}
		}
	}

	if len(out) == 0 {
		out = append(out, Balanced)
	}
	return out
}
