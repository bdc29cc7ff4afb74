package feature

import (
	"testing"

	"github.com/equipsense/equipsense/internal/telemetry"
)

func TestNamesAndVectorLenAgree(t *testing.T) {
	if len(Names) != VectorLen {
		t.Fatalf("len(Names) = %d, want VectorLen = %d", len(Names), VectorLen)
	}
	if Names[0] != "equipment_type_encoded" {
		t.Errorf("Names[0] = %q, want equipment_type_encoded", Names[0])
	}
}

func TestDefaultVocabulary_LexicographicCodes(t *testing.T) {
	// The trainer's label encoder assigns codes in lexicographic class order.
	want := map[string]int{
		"compressor":         0,
		"desktop":            1,
		"hvac":               2,
		"industrial_machine": 3,
		"laptop":             4,
		"motor":              5,
		"phone":              6,
		"pump":               7,
		"tablet":             8,
	}
	vocab := DefaultVocabulary()
	if len(vocab) != len(want) {
		t.Fatalf("vocabulary has %d classes, want %d", len(vocab), len(want))
	}
	for typ, code := range want {
		if got := vocab[typ]; got != code {
			t.Errorf("vocab[%q] = %d, want %d", typ, got, code)
		}
	}
}

func TestEncode_PumpWithPartialSensors(t *testing.T) {
	rec := &telemetry.Record{
		EquipmentType:  "pump",
		OperatingHours: telemetry.F(20000),
		LoadPercentage: telemetry.F(97),
		OilQuality:     telemetry.F(35),
	}
	vec, known := NewEncoder(nil).Encode(rec)
	if !known {
		t.Fatal("Encode: pump should be in the default vocabulary")
	}

	// Slot order follows Names; absent sensors take training-time defaults.
	want := []float64{
		7,     // equipment_type_encoded (pump)
		20000, // operating_hours
		100,   // battery_health default
		50,    // cpu_usage default
		8,     // ram_usage default
		0,     // thermal_throttling default
		0,     // gpu_usage default
		2000,  // fan_speed default
		50,    // power_consumption default
		50,    // screen_brightness default
		0,     // network_activity default
		97,    // load_percentage
		0,     // noise_level default
		0,     // rotation_speed default
		0,     // current_draw default
		35,    // oil_quality
		100,   // efficiency_rating default
	}
	if len(vec) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(want))
	}
	for i, w := range want {
		if vec[i] != w {
			t.Errorf("vec[%d] (%s) = %.1f, want %.1f", i, Names[i], vec[i], w)
		}
	}
}

func TestEncode_PresentZeroIsNotDefaulted(t *testing.T) {
	rec := &telemetry.Record{
		EquipmentType: "laptop",
		BatteryHealth: telemetry.F(0),
	}
	vec, _ := NewEncoder(nil).Encode(rec)
	if vec[2] != 0 {
		t.Errorf("battery_health slot = %.1f, want 0 (explicit reading, not the 100 default)", vec[2])
	}
}

func TestEncode_UnknownTypeDegradesToZero(t *testing.T) {
	rec := &telemetry.Record{EquipmentType: "toaster"}
	vec, known := NewEncoder(nil).Encode(rec)
	if known {
		t.Error("Encode: unknown type reported as known")
	}
	if vec[0] != 0 {
		t.Errorf("unknown type code = %.1f, want 0", vec[0])
	}
	if len(vec) != VectorLen {
		t.Errorf("vector length = %d, want %d", len(vec), VectorLen)
	}
}

func TestEncode_CustomVocabulary(t *testing.T) {
	enc := NewEncoder(Vocabulary{"laptop": 3})
	vec, known := enc.Encode(&telemetry.Record{EquipmentType: "laptop"})
	if !known || vec[0] != 3 {
		t.Errorf("custom vocab: code = %.1f known = %v, want 3 true", vec[0], known)
	}
}
