package telemetry

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/equipsense/equipsense/internal/equipment"
)

// Record is one telemetry reading. Sensor fields are pointers so that the
// feature encoder can substitute training-time defaults for missing values
// while the rule engine simply skips them — the two treatments differ and
// both need to see true absence.
type Record struct {
	// EquipmentID identifies the unit for service-side retention. Optional;
	// the one-shot assessment path ignores it.
	EquipmentID string `json:"equipment_id,omitempty"`

	// EquipmentType is required on every record.
	EquipmentType string `json:"equipment_type"`

	OperatingHours    *float64 `json:"operating_hours,omitempty"`
	BatteryHealth     *float64 `json:"battery_health,omitempty"`
	CPUUsage          *float64 `json:"cpu_usage,omitempty"`
	RAMUsage          *float64 `json:"ram_usage,omitempty"`
	ThermalThrottling *float64 `json:"thermal_throttling,omitempty"`
	GPUUsage          *float64 `json:"gpu_usage,omitempty"`
	FanSpeed          *float64 `json:"fan_speed,omitempty"`
	PowerConsumption  *float64 `json:"power_consumption,omitempty"`
	ScreenBrightness  *float64 `json:"screen_brightness,omitempty"`
	NetworkActivity   *float64 `json:"network_activity,omitempty"`
	LoadPercentage    *float64 `json:"load_percentage,omitempty"`
	NoiseLevel        *float64 `json:"noise_level,omitempty"`
	RotationSpeed     *float64 `json:"rotation_speed,omitempty"`
	CurrentDraw       *float64 `json:"current_draw,omitempty"`
	OilQuality        *float64 `json:"oil_quality,omitempty"`
	EfficiencyRating  *float64 `json:"efficiency_rating,omitempty"`
}

// Type returns the record's equipment type tag.
func (r *Record) Type() equipment.Type {
	return equipment.Type(r.EquipmentType)
}

// Validate checks the structural requirements for an assessment request.
func (r *Record) Validate() error {
	if r.EquipmentType == "" {
		return fmt.Errorf("telemetry: equipment_type is required")
	}
	return nil
}

// Decode reads one JSON telemetry request from r and validates it.
func Decode(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("telemetry: read request: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses one JSON telemetry request and validates it.
func DecodeBytes(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("telemetry: invalid JSON input: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Value dereferences an optional sensor field, substituting def when the
// field was not provided.
func Value(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// F is a convenience constructor for optional sensor values, mainly used by
// tests and the scrape ingester.
func F(v float64) *float64 { return &v }
