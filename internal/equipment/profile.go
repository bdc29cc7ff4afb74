package equipment

// HourThresholds are the three operating-hour tiers that trigger escalating
// wear penalties. Crossing Critical is a blocking issue.
type HourThresholds struct {
	Moderate float64 `json:"moderate"`
	High     float64 `json:"high"`
	Critical float64 `json:"critical"`
}

// Profile holds the per-type configuration the rule engine and score
// derivation read. Profiles are immutable after process start.
type Profile struct {
	Type             Type           `json:"equipment_type"`
	Category         string         `json:"category"`
	Hours            HourThresholds `json:"operating_hour_thresholds"`
	BaselineLifeDays int            `json:"baseline_life_days"`

	// NoiseThresholdDB is the nominal noise ceiling in dB for industrial
	// types. The rule engine flags a critical issue at threshold + 15 dB.
	// Zero for consumer types.
	NoiseThresholdDB float64 `json:"noise_threshold_db,omitempty"`
}

// defaultNoiseDB is used for industrial types without an explicit noise
// ceiling in the table.
const defaultNoiseDB = 80

var profiles = map[Type]Profile{
	Laptop:            {Type: Laptop, Hours: HourThresholds{10000, 15000, 20000}, BaselineLifeDays: 1825},
	Phone:             {Type: Phone, Hours: HourThresholds{15000, 20000, 25000}, BaselineLifeDays: 1095},
	Tablet:            {Type: Tablet, Hours: HourThresholds{12000, 18000, 22000}, BaselineLifeDays: 1460},
	Desktop:           {Type: Desktop, Hours: HourThresholds{20000, 30000, 40000}, BaselineLifeDays: 2555},
	IndustrialMachine: {Type: IndustrialMachine, Hours: HourThresholds{30000, 50000, 70000}, BaselineLifeDays: 5475, NoiseThresholdDB: defaultNoiseDB},
	Motor:             {Type: Motor, Hours: HourThresholds{40000, 60000, 80000}, BaselineLifeDays: 7300, NoiseThresholdDB: 80},
	Pump:              {Type: Pump, Hours: HourThresholds{35000, 55000, 75000}, BaselineLifeDays: 5475, NoiseThresholdDB: 75},
	Compressor:        {Type: Compressor, Hours: HourThresholds{30000, 50000, 70000}, BaselineLifeDays: 5475, NoiseThresholdDB: 90},
	HVAC:              {Type: HVAC, Hours: HourThresholds{25000, 40000, 60000}, BaselineLifeDays: 5475, NoiseThresholdDB: 70},
}

// ProfileFor returns the profile for t. Unrecognized types fall back to the
// laptop profile, which also supplies the default baseline lifespan.
func ProfileFor(t Type) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[Laptop]
}

// Profiles returns the full table in AllTypes order, for the profiles API.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, t := range AllTypes() {
		p := profiles[t]
		p.Category = CategoryOf(t).String()
		out = append(out, p)
	}
	return out
}

// Sensor thresholds shared by the rule engine and the recommendation
// generator. Keeping them here is what stops the two paths from diverging.
const (
	// Consumer thresholds.
	BatteryCriticalPct = 40
	BatteryPoorPct     = 60
	BatteryFairPct     = 80
	CPUCriticalPct     = 95
	CPUHighPct         = 80
	ThermalCriticalPct = 30
	ThermalHighPct     = 15
	ThermalModeratePct = 5
	FanMaxRPM          = 4500
	FanMinRPM          = 500

	// Industrial thresholds.
	LoadOverloadPct   = 95
	LoadHighPct       = 85
	NoiseMarginDB     = 15
	OilCriticalPct    = 40
	OilPoorPct        = 60
	EfficiencyPoorPct = 60
)
