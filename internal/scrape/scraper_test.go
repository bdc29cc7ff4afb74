package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/equipsense/equipsense/internal/config"
)

const pumpExposition = `# HELP equipment_operating_hours_total Total operating hours.
# TYPE equipment_operating_hours_total counter
equipment_operating_hours_total 31250
# HELP equipment_load_percent Current load.
# TYPE equipment_load_percent gauge
equipment_load_percent 88.5
# TYPE equipment_oil_quality_percent gauge
equipment_oil_quality_percent 72
# TYPE equipment_noise_level_db gauge
equipment_noise_level_db 71.2
unrelated_metric 42
`

func metricsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_BuildsRecordFromExposition(t *testing.T) {
	srv := metricsServer(t, pumpExposition)

	s := New(config.ScrapeSource{
		ID:            "pump-07",
		EquipmentID:   "coolant-pump-07",
		EquipmentType: "pump",
		Endpoint:      srv.URL,
	})
	rec, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	if rec.EquipmentID != "coolant-pump-07" {
		t.Errorf("EquipmentID = %q, want coolant-pump-07", rec.EquipmentID)
	}
	if rec.EquipmentType != "pump" {
		t.Errorf("EquipmentType = %q, want pump", rec.EquipmentType)
	}
	if rec.OperatingHours == nil || *rec.OperatingHours != 31250 {
		t.Errorf("OperatingHours = %v, want 31250", rec.OperatingHours)
	}
	if rec.LoadPercentage == nil || *rec.LoadPercentage != 88.5 {
		t.Errorf("LoadPercentage = %v, want 88.5", rec.LoadPercentage)
	}
	if rec.OilQuality == nil || *rec.OilQuality != 72 {
		t.Errorf("OilQuality = %v, want 72", rec.OilQuality)
	}
	if rec.NoiseLevel == nil || *rec.NoiseLevel != 71.2 {
		t.Errorf("NoiseLevel = %v, want 71.2", rec.NoiseLevel)
	}

	// Families absent from the exposition stay absent fields.
	if rec.BatteryHealth != nil {
		t.Errorf("BatteryHealth = %v, want nil", *rec.BatteryHealth)
	}
	if rec.EfficiencyRating != nil {
		t.Errorf("EfficiencyRating = %v, want nil", *rec.EfficiencyRating)
	}
}

func TestScrape_EquipmentIDDefaultsToSourceID(t *testing.T) {
	srv := metricsServer(t, "equipment_load_percent 50\n")

	s := New(config.ScrapeSource{ID: "press-01", EquipmentType: "industrial_machine", Endpoint: srv.URL})
	rec, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if rec.EquipmentID != "press-01" {
		t.Errorf("EquipmentID = %q, want the source id press-01", rec.EquipmentID)
	}
}

func TestScrape_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(config.ScrapeSource{ID: "x", EquipmentType: "pump", Endpoint: srv.URL})
	if _, err := s.Scrape(context.Background()); err == nil {
		t.Fatal("Scrape on 500: expected error, got nil")
	}
}

func TestScrape_UnreachableEndpoint(t *testing.T) {
	s := New(config.ScrapeSource{ID: "x", EquipmentType: "pump", Endpoint: "http://127.0.0.1:1/metrics"})
	if _, err := s.Scrape(context.Background()); err == nil {
		t.Fatal("Scrape on unreachable endpoint: expected error, got nil")
	}
}

func TestScrape_EmptyExposition(t *testing.T) {
	srv := metricsServer(t, "")

	s := New(config.ScrapeSource{ID: "idle", EquipmentType: "motor", Endpoint: srv.URL})
	rec, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	// A valid but empty exposition yields a record with only the tags set.
	if rec.EquipmentType != "motor" || rec.LoadPercentage != nil {
		t.Errorf("rec = %+v, want tags only", rec)
	}
}
