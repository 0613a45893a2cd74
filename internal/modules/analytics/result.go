package analytics

import (
	"github.com/aristath/stockwise/internal/domain"
)

// HoldingMetrics are the derived figures for one holding
type HoldingMetrics struct {
	domain.Holding
	Invested     float64 `json:"invested"`
	CurrentValue float64 `json:"current_value"`
	PL           float64 `json:"unrealized_pl"`
	PLPercent    float64 `json:"unrealized_pl_percent"`
}

// Result is the full analysis of a snapshot
type Result struct {
	Holdings             []HoldingMetrics `json:"holdings"`
	Allocations          []Allocation     `json:"allocations"`
	SectorWeights        []SectorWeight   `json:"sector_weights"`
	RiskRating           string           `json:"risk_rating"`
	TotalInvested        float64          `json:"total_invested"`
	TotalCurrentValue    float64          `json:"total_current_value"`
	UnrealizedPL         float64          `json:"unrealized_pl"`
	UnrealizedPLPercent  float64          `json:"unrealized_pl_percent"`
	VolatilityScore      float64          `json:"volatility_score"`
	DiversificationScore float64          `json:"diversification_score"`
}

// Analyze computes every metric for the snapshot
func Analyze(snapshot domain.Snapshot) Result {
	holdings := snapshot.Holdings

	metrics := make([]HoldingMetrics, 0, len(holdings))
	for _, h := range holdings {
		metrics = append(metrics, HoldingMetrics{
			Holding:      h,
			Invested:     InvestedAmount(h),
			CurrentValue: CurrentValue(h),
			PL:           HoldingPL(h),
			PLPercent:    HoldingPLPercent(h),
		})
	}

	sectors := SectorWeights(holdings)
	volatility := VolatilityScore(holdings)

	return Result{
		Holdings:             metrics,
		Allocations:          AllocationPercent(holdings),
		SectorWeights:        sectors,
		RiskRating:           SnapshotRiskRating(volatility),
		TotalInvested:        TotalInvested(holdings),
		TotalCurrentValue:    TotalCurrentValue(holdings),
		UnrealizedPL:         UnrealizedPL(holdings),
		UnrealizedPLPercent:  UnrealizedPLPercent(holdings),
		VolatilityScore:      volatility,
		DiversificationScore: diversification(sectors),
	}
}
