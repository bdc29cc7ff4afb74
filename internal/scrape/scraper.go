package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/equipsense/equipsense/internal/config"
	"github.com/equipsense/equipsense/internal/telemetry"
)

const defaultScrapeTimeout = 10 * time.Second

// Metric family names equipment exporters publish, one gauge per sensor
// field. Absent families map to absent fields, so the rule engine skips
// them rather than seeing defaults.
var sensorMetrics = map[string]func(*telemetry.Record, float64){
	"equipment_operating_hours_total":       func(r *telemetry.Record, v float64) { r.OperatingHours = &v },
	"equipment_battery_health_percent":      func(r *telemetry.Record, v float64) { r.BatteryHealth = &v },
	"equipment_cpu_usage_percent":           func(r *telemetry.Record, v float64) { r.CPUUsage = &v },
	"equipment_ram_usage_gb":                func(r *telemetry.Record, v float64) { r.RAMUsage = &v },
	"equipment_thermal_throttling_percent":  func(r *telemetry.Record, v float64) { r.ThermalThrottling = &v },
	"equipment_gpu_usage_percent":           func(r *telemetry.Record, v float64) { r.GPUUsage = &v },
	"equipment_fan_speed_rpm":               func(r *telemetry.Record, v float64) { r.FanSpeed = &v },
	"equipment_power_consumption_watts":     func(r *telemetry.Record, v float64) { r.PowerConsumption = &v },
	"equipment_screen_brightness_percent":   func(r *telemetry.Record, v float64) { r.ScreenBrightness = &v },
	"equipment_network_activity_mbps":       func(r *telemetry.Record, v float64) { r.NetworkActivity = &v },
	"equipment_load_percent":                func(r *telemetry.Record, v float64) { r.LoadPercentage = &v },
	"equipment_noise_level_db":              func(r *telemetry.Record, v float64) { r.NoiseLevel = &v },
	"equipment_rotation_speed_rpm":          func(r *telemetry.Record, v float64) { r.RotationSpeed = &v },
	"equipment_current_draw_amperes":        func(r *telemetry.Record, v float64) { r.CurrentDraw = &v },
	"equipment_oil_quality_percent":         func(r *telemetry.Record, v float64) { r.OilQuality = &v },
	"equipment_efficiency_rating_percent":   func(r *telemetry.Record, v float64) { r.EfficiencyRating = &v },
}

// Scraper polls one equipment metrics endpoint.
type Scraper struct {
	src    config.ScrapeSource
	client *http.Client
}

// New returns a Scraper for the given source. The HTTP client is built
// once and reused across scrape calls.
func New(src config.ScrapeSource) *Scraper {
	return &Scraper{
		src:    src,
		client: &http.Client{Timeout: defaultScrapeTimeout},
	}
}

// Scrape fetches the source's metrics endpoint and builds a telemetry
// record from the sensor gauges present in the exposition.
func (s *Scraper) Scrape(ctx context.Context) (*telemetry.Record, error) {
	mfs, err := fetchMetrics(ctx, s.client, s.src.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("scrape %q: %w", s.src.ID, err)
	}

	rec := &telemetry.Record{
		EquipmentID:   s.src.EquipmentID,
		EquipmentType: s.src.EquipmentType,
	}
	if rec.EquipmentID == "" {
		rec.EquipmentID = s.src.ID
	}

	for name, set := range sensorMetrics {
		if mf, ok := mfs[name]; ok {
			if v, ok := firstValue(mf); ok {
				set(rec, v)
			}
		}
	}
	return rec, nil
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric
// families. A partial result with a non-fatal parse warning is still
// returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// firstValue extracts the first gauge, counter, or untyped sample in a
// family. Equipment exporters publish one unlabelled sample per sensor.
func firstValue(mf *dto.MetricFamily) (float64, bool) {
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			return m.Gauge.GetValue(), true
		case m.Counter != nil:
			return m.Counter.GetValue(), true
		case m.Untyped != nil:
			return m.Untyped.GetValue(), true
		}
	}
	return 0, false
}
