package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/analytics"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "₹67,000.00", Amount(67000))
	assert.Equal(t, "₹0.01", Amount(0.005))
	assert.Contains(t, Amount(-1234.5), "1,234.50")
}

func TestGenerate(t *testing.T) {
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	snapshot := domain.Snapshot{Holdings: []domain.Holding{
		domain.NewHolding("TCS", 10, 3000, date, "IT").WithPrice(3600),
		domain.NewHolding("HDFC", 20, 1500, date, "Banking").WithPrice(1350),
	}}
	generated := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	rep := Generate(analytics.Analyze(snapshot), []string{"TCS is Overweight (57.14%)"}, generated)

	_, err := uuid.Parse(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, generated, rep.GeneratedAt)
	assert.Equal(t, "portfolio_report_20261015_093000.txt", rep.Filename())

	body := rep.Body
	assert.True(t, strings.HasPrefix(body, "StockWise - Portfolio Report\n"))
	assert.Contains(t, body, "Report ID: "+rep.ID)
	assert.Contains(t, body, "Generated: 2026-10-15T09:30:00Z")
	assert.Contains(t, body, "Total Invested: ₹60,000.00")
	assert.Contains(t, body, "Current Value: ₹63,000.00")
	assert.Contains(t, body, "Unrealized P/L: ₹3,000.00 (5.00%)")
	assert.Contains(t, body, "TCS - Qty: 10.00, BuyPrice: 3000.00, CurrPrice: 3600.00")
	assert.Contains(t, body, "TCS : 57.14%")
	assert.Contains(t, body, "Banking : 42.86%")
	assert.Contains(t, body, "Risk rating: Medium")
	assert.Contains(t, body, "- TCS is Overweight (57.14%)")
}

func TestGenerate_Empty(t *testing.T) {
	rep := Generate(analytics.Analyze(domain.Snapshot{}), nil, time.Now())

	assert.Contains(t, rep.Body, "(no holdings)")
	assert.Contains(t, rep.Body, "Total Invested: ₹0.00")
	assert.NotContains(t, rep.Body, "Suggestions:")
}

func TestGenerate_UniqueIDs(t *testing.T) {
	now := time.Now()
	a := Generate(analytics.Result{}, nil, now)
	b := Generate(analytics.Result{}, nil, now)
	assert.NotEqual(t, a.ID, b.ID)
}
