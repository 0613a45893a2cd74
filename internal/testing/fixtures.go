package testing

import (
	"time"

	"github.com/aristath/stockwise/internal/domain"
)

// FixtureDate is the acquisition date used by fixtures
var FixtureDate = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// SampleHoldings returns a small mixed-sector portfolio without prices
func SampleHoldings() []domain.Holding {
	return []domain.Holding{
		domain.NewHolding("HDFC", 20, 1500, FixtureDate, "Banking"),
		domain.NewHolding("INFY", 5, 1400, FixtureDate, "IT"),
		domain.NewHolding("TCS", 10, 3000, FixtureDate, "IT"),
	}
}

// SamplePrices are current prices matching SampleHoldings
func SamplePrices() map[string]float64 {
	return map[string]float64{
		"HDFC": 1350,
		"INFY": 1400,
		"TCS":  3600,
	}
}
