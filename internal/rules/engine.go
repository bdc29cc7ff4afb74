package rules

import (
	"github.com/equipsense/equipsense/internal/derive"
	"github.com/equipsense/equipsense/internal/equipment"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Subsystem status values used in the analysis map.
const (
	StatusGood     = "Good"
	StatusFair     = "Fair"
	StatusPoor     = "Poor"
	StatusCritical = "Critical"
	StatusOverload = "Overload"
	StatusHighLoad = "High Load"
	StatusHigh     = "High"
	StatusModerate = "Moderate"
	StatusNA       = "N/A"
)

// Analysis is the per-subsystem status breakdown included in every
// assessment, for either prediction path.
type Analysis struct {
	PowerStatus       string `json:"power_status"`
	ThermalStatus     string `json:"thermal_status"`
	MechanicalStatus  string `json:"mechanical_status"`
	PerformanceStatus string `json:"performance_status"`
	BatteryStatus     string `json:"battery_status"`
	OverallCondition  string `json:"overall_condition"`
}

// newAnalysis returns the baseline statuses before any sensor is evaluated.
func newAnalysis() Analysis {
	return Analysis{
		PowerStatus:       StatusGood,
		ThermalStatus:     StatusGood,
		MechanicalStatus:  StatusNA,
		PerformanceStatus: StatusGood,
		BatteryStatus:     StatusNA,
		OverallCondition:  StatusGood,
	}
}

// Penalty magnitudes for the canonical threshold table.
const (
	penaltyHoursCritical = 30
	penaltyHoursHigh     = 20
	penaltyHoursModerate = 10

	penaltyBatteryCritical = 30
	penaltyBatteryPoor     = 20
	penaltyBatteryFair     = 10
	penaltyCPUCritical     = 15
	penaltyCPUHigh         = 10
	penaltyThermalCritical = 25
	penaltyThermalHigh     = 15
	penaltyFanMax          = 10
	penaltyFanStalled      = 15

	penaltyOverload       = 20
	penaltyHighLoad       = 12
	penaltyNoiseCritical  = 18
	penaltyOilCritical    = 25
	penaltyOilPoor        = 15
	penaltyEfficiencyPoor = 18
)

// Result is the rule engine's output: the final clamped score and the
// subsystem analysis derived from the same thresholds.
type Result struct {
	Score    float64
	Analysis Analysis
}

// Evaluate scores rec from 100 downward. Penalties accumulate by plain
// subtraction and the running total is clamped only at the end, so heavy
// stacking may drive it negative mid-computation.
func Evaluate(rec *telemetry.Record) Result {
	eqType := rec.Type()
	profile := equipment.ProfileFor(eqType)
	analysis := newAnalysis()

	score := 100.0
	score -= hoursPenalty(rec.OperatingHours, profile.Hours)

	switch equipment.CategoryOf(eqType) {
	case equipment.CategoryConsumer:
		score -= consumerPenalty(rec, eqType, &analysis)
	case equipment.CategoryIndustrial:
		score -= industrialPenalty(rec, profile, &analysis)
	}

	score = derive.Clamp(score)
	analysis.OverallCondition = derive.OverallCondition(score)
	return Result{Score: score, Analysis: analysis}
}

// hoursPenalty applies the three-tier operating-hour wear penalty.
func hoursPenalty(hours *float64, t equipment.HourThresholds) float64 {
	if hours == nil {
		return 0
	}
	switch h := *hours; {
	case h >= t.Critical:
		return penaltyHoursCritical
	case h >= t.High:
		return penaltyHoursHigh
	case h >= t.Moderate:
		return penaltyHoursModerate
	default:
		return 0
	}
}

// consumerPenalty evaluates the consumer sensor set. Battery rules never
// apply to desktops.
func consumerPenalty(rec *telemetry.Record, eqType equipment.Type, analysis *Analysis) float64 {
	var penalty float64

	if rec.BatteryHealth != nil && eqType != equipment.Desktop {
		switch bh := *rec.BatteryHealth; {
		case bh < equipment.BatteryCriticalPct:
			penalty += penaltyBatteryCritical
			analysis.BatteryStatus = StatusCritical
		case bh < equipment.BatteryPoorPct:
			penalty += penaltyBatteryPoor
			analysis.BatteryStatus = StatusPoor
		case bh < equipment.BatteryFairPct:
			penalty += penaltyBatteryFair
			analysis.BatteryStatus = StatusFair
		default:
			analysis.BatteryStatus = StatusGood
		}
	}

	if rec.CPUUsage != nil {
		switch cpu := *rec.CPUUsage; {
		case cpu > equipment.CPUCriticalPct:
			penalty += penaltyCPUCritical
		case cpu > equipment.CPUHighPct:
			penalty += penaltyCPUHigh
		}
	}

	if rec.ThermalThrottling != nil {
		switch tt := *rec.ThermalThrottling; {
		case tt > equipment.ThermalCriticalPct:
			penalty += penaltyThermalCritical
			analysis.ThermalStatus = StatusCritical
		case tt > equipment.ThermalHighPct:
			penalty += penaltyThermalHigh
			analysis.ThermalStatus = StatusHigh
		case tt > equipment.ThermalModeratePct:
			analysis.ThermalStatus = StatusModerate
		}
	}

	if rec.FanSpeed != nil {
		switch fs := *rec.FanSpeed; {
		case fs > equipment.FanMaxRPM:
			penalty += penaltyFanMax
		case fs < equipment.FanMinRPM && fs > 0:
			penalty += penaltyFanStalled
		}
	}

	return penalty
}

// industrialPenalty evaluates the industrial sensor set. An oil-quality
// critical overrides an earlier load-based mechanical status.
func industrialPenalty(rec *telemetry.Record, profile equipment.Profile, analysis *Analysis) float64 {
	var penalty float64

	if rec.LoadPercentage != nil {
		switch load := *rec.LoadPercentage; {
		case load > equipment.LoadOverloadPct:
			penalty += penaltyOverload
			analysis.MechanicalStatus = StatusOverload
		case load > equipment.LoadHighPct:
			penalty += penaltyHighLoad
			analysis.MechanicalStatus = StatusHighLoad
		default:
			analysis.MechanicalStatus = StatusGood
		}
	}

	if rec.NoiseLevel != nil {
		if *rec.NoiseLevel > profile.NoiseThresholdDB+equipment.NoiseMarginDB {
			penalty += penaltyNoiseCritical
		}
	}

	if rec.OilQuality != nil {
		switch oil := *rec.OilQuality; {
		case oil < equipment.OilCriticalPct:
			penalty += penaltyOilCritical
			analysis.MechanicalStatus = StatusCritical
		case oil < equipment.OilPoorPct:
			penalty += penaltyOilPoor
		}
	}

	if rec.EfficiencyRating != nil {
		if *rec.EfficiencyRating < equipment.EfficiencyPoorPct {
			penalty += penaltyEfficiencyPoor
		}
	}

	return penalty
}
