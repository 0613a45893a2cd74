// Package report renders human-readable portfolio reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aristath/stockwise/internal/modules/analytics"
)

// Currency is the reporting currency for all amounts
const Currency = money.INR

// Report is a rendered text report
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Body        string    `json:"body"`
	ID          string    `json:"id"`
}

// Filename is the suggested download name
func (r Report) Filename() string {
	return fmt.Sprintf("portfolio_report_%s.txt", r.GeneratedAt.Format("20060102_150405"))
}

// Generate renders result and its advisories as a plain-text report
func Generate(result analytics.Result, suggestions []string, generatedAt time.Time) Report {
	id := uuid.NewString()

	var sb strings.Builder
	sb.WriteString("StockWise - Portfolio Report\n")
	fmt.Fprintf(&sb, "Report ID: %s\n", id)
	fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.Format(time.RFC3339))

	fmt.Fprintf(&sb, "Total Invested: %s\n", Amount(result.TotalInvested))
	fmt.Fprintf(&sb, "Current Value: %s\n", Amount(result.TotalCurrentValue))
	fmt.Fprintf(&sb, "Unrealized P/L: %s (%.2f%%)\n\n", Amount(result.UnrealizedPL), result.UnrealizedPLPercent)

	sb.WriteString("Per-stock details:\n")
	if len(result.Holdings) == 0 {
		sb.WriteString("(no holdings)\n")
	}
	for _, h := range result.Holdings {
		fmt.Fprintf(&sb, "%s - Qty: %.2f, BuyPrice: %.2f, CurrPrice: %.2f, Invested: %s, CurrValue: %s, P/L: %s (%.2f%%)\n",
			h.Symbol, h.Quantity, h.CostBasis, h.CurrentPrice,
			Amount(h.Invested), Amount(h.CurrentValue), Amount(h.PL), h.PLPercent)
	}

	sb.WriteString("\nAllocation (%):\n")
	for _, a := range result.Allocations {
		fmt.Fprintf(&sb, "%s : %.2f%%\n", a.Symbol, a.Percent)
	}

	sb.WriteString("\nSector weights (%):\n")
	for _, s := range result.SectorWeights {
		fmt.Fprintf(&sb, "%s : %.2f%%\n", s.Sector, s.Percent)
	}

	fmt.Fprintf(&sb, "\nVolatility score: %.2f\n", result.VolatilityScore)
	fmt.Fprintf(&sb, "Diversification index: %.2f\n", result.DiversificationScore)
	fmt.Fprintf(&sb, "Risk rating: %s\n", result.RiskRating)

	if len(suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	return Report{ID: id, GeneratedAt: generatedAt, Body: sb.String()}
}

// Amount formats v in the reporting currency, e.g. ₹1,234.50
func Amount(v float64) string {
	cur := money.GetCurrency(Currency)
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, Currency).Display()
}
