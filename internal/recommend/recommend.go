package recommend

import (
	"fmt"
	"strings"

	"github.com/equipsense/equipsense/internal/equipment"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Severity markers. A recommendation containing criticalMarker is a critical
// issue; one starting with warningMarker (and not critical) is a warning;
// everything else is informational.
const (
	criticalMarker = "CRITICAL"
	warningMarker  = "WARNING"
)

// Nominal is appended when no other advisory applies, so the recommendation
// list is never empty.
const Nominal = "Equipment is operating within normal parameters; continue the regular monitoring and maintenance schedule."

// Generate produces the ordered advisory list for rec and the final health
// score. Sensor advisories come first, mirroring the rule engine's
// thresholds and category dispatch; score-banded generic advisories are
// appended last.
func Generate(rec *telemetry.Record, score float64) []string {
	eqType := rec.Type()
	var recs []string

	recs = append(recs, hoursAdvisories(rec, eqType)...)
	switch equipment.CategoryOf(eqType) {
	case equipment.CategoryConsumer:
		recs = append(recs, consumerAdvisories(rec, eqType)...)
	case equipment.CategoryIndustrial:
		recs = append(recs, industrialAdvisories(rec, eqType)...)
	}
	recs = append(recs, scoreAdvisories(score)...)

	if len(recs) == 0 {
		recs = append(recs, Nominal)
	}
	return recs
}

// Split partitions recs into critical issues and warnings by severity
// marker. The two subsets are disjoint by construction; informational
// entries appear in neither.
func Split(recs []string) (critical, warnings []string) {
	for _, r := range recs {
		switch {
		case strings.Contains(r, criticalMarker):
			critical = append(critical, r)
		case strings.HasPrefix(r, warningMarker):
			warnings = append(warnings, r)
		}
	}
	return critical, warnings
}

func hoursAdvisories(rec *telemetry.Record, eqType equipment.Type) []string {
	if rec.OperatingHours == nil {
		return nil
	}
	t := equipment.ProfileFor(eqType).Hours
	switch h := *rec.OperatingHours; {
	case h >= t.Critical:
		return []string{"CRITICAL: Operating hours exceed the rated lifespan. Plan immediate replacement."}
	case h >= t.High:
		return []string{"WARNING: Operating hours are very high. Plan for replacement."}
	case h >= t.Moderate:
		return []string{"Moderate operating hours. Monitor wear closely."}
	default:
		return nil
	}
}

func consumerAdvisories(rec *telemetry.Record, eqType equipment.Type) []string {
	var recs []string

	if rec.BatteryHealth != nil && eqType != equipment.Desktop {
		switch bh := *rec.BatteryHealth; {
		case bh < equipment.BatteryCriticalPct:
			recs = append(recs, "CRITICAL: Battery health critically low. Replace the battery immediately.")
		case bh < equipment.BatteryPoorPct:
			recs = append(recs, "WARNING: Battery health is poor. Plan for replacement soon.")
		case bh < equipment.BatteryFairPct:
			recs = append(recs, "Battery is degrading. Expect reduced runtime.")
		}
	}

	if rec.CPUUsage != nil {
		switch cpu := *rec.CPUUsage; {
		case cpu > equipment.CPUCriticalPct:
			recs = append(recs, "CRITICAL: CPU is pinned at maximum load.")
		case cpu > equipment.CPUHighPct:
			recs = append(recs, "WARNING: CPU usage is very high.")
		}
	}

	if rec.ThermalThrottling != nil {
		switch tt := *rec.ThermalThrottling; {
		case tt > equipment.ThermalCriticalPct:
			recs = append(recs, "CRITICAL: Severe thermal throttling detected. Clean the cooling system.")
		case tt > equipment.ThermalHighPct:
			recs = append(recs, "WARNING: High thermal throttling. Improve cooling.")
		}
	}

	if rec.FanSpeed != nil {
		switch fs := *rec.FanSpeed; {
		case fs > equipment.FanMaxRPM:
			recs = append(recs, "WARNING: Fan is running at maximum speed.")
		case fs < equipment.FanMinRPM && fs > 0:
			recs = append(recs, "CRITICAL: Fan speed is too low. Check for fan failure.")
		}
	}

	return recs
}

func industrialAdvisories(rec *telemetry.Record, eqType equipment.Type) []string {
	var recs []string

	if rec.LoadPercentage != nil {
		switch load := *rec.LoadPercentage; {
		case load > equipment.LoadOverloadPct:
			recs = append(recs, "CRITICAL: Equipment is overloaded. Reduce the load immediately.")
		case load > equipment.LoadHighPct:
			recs = append(recs, "WARNING: High load detected. Review duty cycle.")
		}
	}

	if rec.NoiseLevel != nil {
		limit := equipment.ProfileFor(eqType).NoiseThresholdDB + equipment.NoiseMarginDB
		if *rec.NoiseLevel > limit {
			recs = append(recs, fmt.Sprintf("CRITICAL: Noise level at %.0f dB. Inspect for imminent mechanical failure.", *rec.NoiseLevel))
		}
	}

	if rec.OilQuality != nil {
		switch oil := *rec.OilQuality; {
		case oil < equipment.OilCriticalPct:
			recs = append(recs, "CRITICAL: Oil quality critical. Change oil immediately.")
		case oil < equipment.OilPoorPct:
			recs = append(recs, "WARNING: Oil quality is poor. Schedule an oil change.")
		}
	}

	if rec.EfficiencyRating != nil {
		if eff := *rec.EfficiencyRating; eff < equipment.EfficiencyPoorPct {
			recs = append(recs, fmt.Sprintf("WARNING: Efficiency at %.0f%% is poor. Service is recommended.", eff))
		}
	}

	return recs
}

// scoreAdvisories appends the health-score-banded generic advisories.
func scoreAdvisories(score float64) []string {
	switch {
	case score < 50:
		return []string{"CRITICAL: Schedule immediate inspection and maintenance."}
	case score < 70:
		return []string{"WARNING: Schedule maintenance within the next week."}
	case score < 85:
		return []string{"Plan preventive maintenance within the next 30 days."}
	default:
		return nil
	}
}
