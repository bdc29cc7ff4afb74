package feature

import (
	"github.com/equipsense/equipsense/internal/equipment"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Names is the exact feature order used at training time. The model bundle
// refuses to load if its persisted feature list differs from this one.
var Names = []string{
	"equipment_type_encoded",
	"operating_hours",
	"battery_health",
	"cpu_usage",
	"ram_usage",
	"thermal_throttling",
	"gpu_usage",
	"fan_speed",
	"power_consumption",
	"screen_brightness",
	"network_activity",
	"load_percentage",
	"noise_level",
	"rotation_speed",
	"current_draw",
	"oil_quality",
	"efficiency_rating",
}

// VectorLen is the length of every encoded feature vector.
const VectorLen = 17

// Training-time defaults substituted for missing sensor fields. These are
// the neutral values the synthetic trainer fills in for the non-applicable
// family, so a missing field and a neutral reading encode identically.
const (
	defOperatingHours    = 0
	defBatteryHealth     = 100
	defCPUUsage          = 50
	defRAMUsage          = 8
	defThermalThrottling = 0
	defGPUUsage          = 0
	defFanSpeed          = 2000
	defPowerConsumption  = 50
	defScreenBrightness  = 50
	defNetworkActivity   = 0
	defLoadPercentage    = 0
	defNoiseLevel        = 0
	defRotationSpeed     = 0
	defCurrentDraw       = 0
	defOilQuality        = 100
	defEfficiencyRating  = 100
)

// Vocabulary maps an equipment type to its categorical code, as fitted and
// persisted by the trainer's label encoder.
type Vocabulary map[string]int

// DefaultVocabulary returns the label-encoder mapping the trainer produces
// over the closed type set: classes are assigned codes in lexicographic
// order.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		string(equipment.Compressor):        0,
		string(equipment.Desktop):           1,
		string(equipment.HVAC):              2,
		string(equipment.IndustrialMachine): 3,
		string(equipment.Laptop):            4,
		string(equipment.Motor):             5,
		string(equipment.Phone):             6,
		string(equipment.Pump):              7,
		string(equipment.Tablet):            8,
	}
}

// Encoder turns telemetry records into model-ready feature vectors.
type Encoder struct {
	vocab Vocabulary
}

// NewEncoder returns an Encoder over the given vocabulary. A nil vocabulary
// falls back to DefaultVocabulary.
func NewEncoder(vocab Vocabulary) *Encoder {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Encoder{vocab: vocab}
}

// Encode maps rec to the ordered feature vector. The boolean reports
// whether the equipment type was found in the vocabulary; unknown types
// degrade to code 0 rather than failing, and the caller is expected to log
// the degradation.
func (e *Encoder) Encode(rec *telemetry.Record) ([]float64, bool) {
	code, known := e.vocab[rec.EquipmentType]
	if !known {
		code = 0
	}
	vec := []float64{
		float64(code),
		telemetry.Value(rec.OperatingHours, defOperatingHours),
		telemetry.Value(rec.BatteryHealth, defBatteryHealth),
		telemetry.Value(rec.CPUUsage, defCPUUsage),
		telemetry.Value(rec.RAMUsage, defRAMUsage),
		telemetry.Value(rec.ThermalThrottling, defThermalThrottling),
		telemetry.Value(rec.GPUUsage, defGPUUsage),
		telemetry.Value(rec.FanSpeed, defFanSpeed),
		telemetry.Value(rec.PowerConsumption, defPowerConsumption),
		telemetry.Value(rec.ScreenBrightness, defScreenBrightness),
		telemetry.Value(rec.NetworkActivity, defNetworkActivity),
		telemetry.Value(rec.LoadPercentage, defLoadPercentage),
		telemetry.Value(rec.NoiseLevel, defNoiseLevel),
		telemetry.Value(rec.RotationSpeed, defRotationSpeed),
		telemetry.Value(rec.CurrentDraw, defCurrentDraw),
		telemetry.Value(rec.OilQuality, defOilQuality),
		telemetry.Value(rec.EfficiencyRating, defEfficiencyRating),
	}
	return vec, known
}
