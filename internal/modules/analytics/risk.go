package analytics

import "math"

// Risk ratings
const (
	RiskLow     = "Low"
	RiskMedium  = "Medium"
	RiskHigh    = "High"
	RiskUnknown = "Unknown"
)

// SnapshotRiskRating classifies a volatility score for portfolio analysis
// and reports: below 10 is Low, below 25 Medium, otherwise High.
func SnapshotRiskRating(volatility float64) string {
	switch {
	case volatility < 10:
		return RiskLow
	case volatility < 25:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// SummaryRiskRating classifies a volatility score for the dashboard summary:
// below 30 is Low, below 60 Medium, otherwise High. NaN is Unknown.
//
// The two scales disagree for scores between 10 and 60. They are kept apart
// until the owners settle on one.
func SummaryRiskRating(volatility float64) string {
	switch {
	case math.IsNaN(volatility):
		return RiskUnknown
	case volatility < 30:
		return RiskLow
	case volatility < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}
