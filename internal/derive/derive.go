package derive

import (
	"github.com/equipsense/equipsense/internal/equipment"
)

// Risk levels, ordered from best to worst.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Score thresholds mapping a health score to a risk level.
const (
	ThresholdLow    = 85.0
	ThresholdMedium = 70.0
	ThresholdHigh   = 50.0
)

// Clamp restricts a health score to [0, 100].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RiskLevel maps a health score to its risk bucket. Monotonic: a lower
// score never yields a better risk level.
func RiskLevel(score float64) string {
	switch {
	case score >= ThresholdLow:
		return RiskLow
	case score >= ThresholdMedium:
		return RiskMedium
	case score >= ThresholdHigh:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// RemainingLifeDays estimates days until end-of-service: the equipment
// type's baseline lifespan scaled by the health score, truncated toward
// zero. Unrecognized types use the laptop baseline.
func RemainingLifeDays(score float64, t equipment.Type) int {
	base := equipment.ProfileFor(t).BaselineLifeDays
	return int(float64(base) * score / 100)
}

// MaintenanceDays returns the recommended maintenance window in days.
// Always positive; shrinks monotonically as the score drops.
func MaintenanceDays(score float64) int {
	switch {
	case RiskLevel(score) == RiskCritical:
		return 3
	case RiskLevel(score) == RiskHigh:
		return 7
	case score < 75:
		return 30
	case score < 85:
		return 60
	default:
		return 90
	}
}

// OverallCondition labels a health score for the analysis summary.
func OverallCondition(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Poor"
	default:
		return "Critical"
	}
}
