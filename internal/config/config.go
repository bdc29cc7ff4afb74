package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/equipsense/equipsense/internal/equipment"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8080
	DefaultStoreTTL          = 5 * time.Minute
	DefaultBroadcastInterval = 5 * time.Second
	DefaultScrapeInterval    = 30 * time.Second
	DefaultModelDir          = "models"
	DefaultRequestTopic      = "equipsense/telemetry"
	DefaultResultTopic       = "equipsense/assessments"
)

// Config is the top-level service configuration. Fields map 1:1 to
// config.example.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Model  ModelConfig  `yaml:"model"`
	Store  StoreConfig  `yaml:"store"`
	Scrape ScrapeConfig `yaml:"scrape"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the hub pushes the fleet
	// snapshot to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// ModelConfig locates the regression artifact bundle.
type ModelConfig struct {
	// Dir is the bundle directory. If loading fails for any reason the
	// service runs rule-only; a missing bundle is not an error.
	Dir string `yaml:"dir"`
}

// StoreConfig controls in-memory assessment retention.
type StoreConfig struct {
	// TTL is how long a unit's assessment stays in the fleet views after
	// its last update.
	TTL time.Duration `yaml:"ttl"`
}

// ScrapeConfig configures pull-based telemetry ingestion.
type ScrapeConfig struct {
	// Interval is the default poll period for sources without their own.
	Interval time.Duration `yaml:"interval"`

	// Sources lists equipment metric endpoints to poll.
	Sources []ScrapeSource `yaml:"sources"`
}

// ScrapeSource is one polled equipment metrics endpoint exposing sensor
// gauges in Prometheus text exposition format.
type ScrapeSource struct {
	// ID is a unique, human-readable identifier for this source.
	ID string `yaml:"id"`

	// EquipmentID keys the resulting assessments in the store. Defaults
	// to ID.
	EquipmentID string `yaml:"equipment_id"`

	// EquipmentType tags every record built from this source.
	EquipmentType string `yaml:"equipment_type"`

	// Endpoint is the full URL of the metrics endpoint.
	Endpoint string `yaml:"endpoint"`

	// Interval overrides the global scrape interval when positive.
	Interval time.Duration `yaml:"interval"`
}

// MQTTConfig configures push-based telemetry ingestion. An empty Broker
// disables MQTT entirely.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`

	// Credentials are resolved from the environment so the config file
	// stays free of secrets.
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`

	// RequestTopic carries incoming telemetry JSON; ResultTopic receives
	// the assessment envelope for each request.
	RequestTopic string `yaml:"request_topic"`
	ResultTopic  string `yaml:"result_topic"`
}

// Username returns the MQTT username resolved from the environment.
func (m MQTTConfig) Username() string {
	if m.UsernameEnv == "" {
		return ""
	}
	return os.Getenv(m.UsernameEnv)
}

// Password returns the MQTT password resolved from the environment.
func (m MQTTConfig) Password() string {
	if m.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(m.PasswordEnv)
}

// Enabled reports whether MQTT ingestion is configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// Load reads and parses the YAML config file at path. Missing optional
// fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
		},
		Model: ModelConfig{Dir: DefaultModelDir},
		Store: StoreConfig{TTL: DefaultStoreTTL},
		Scrape: ScrapeConfig{
			Interval: DefaultScrapeInterval,
		},
		MQTT: MQTTConfig{
			RequestTopic: DefaultRequestTopic,
			ResultTopic:  DefaultResultTopic,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if cfg.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must not be negative")
	}
	if cfg.Scrape.Interval <= 0 {
		return fmt.Errorf("scrape.interval must be positive")
	}
	for i, src := range cfg.Scrape.Sources {
		if src.ID == "" {
			return fmt.Errorf("scrape.sources[%d]: id is required", i)
		}
		if src.Endpoint == "" {
			return fmt.Errorf("scrape.sources[%d] %q: endpoint is required", i, src.ID)
		}
		if !equipment.Known(equipment.Type(src.EquipmentType)) {
			return fmt.Errorf("scrape.sources[%d] %q: unknown equipment_type %q", i, src.ID, src.EquipmentType)
		}
	}
	if cfg.MQTT.Enabled() {
		if cfg.MQTT.ClientID == "" {
			return fmt.Errorf("mqtt.client_id is required when mqtt.broker is set")
		}
		if cfg.MQTT.RequestTopic == "" || cfg.MQTT.ResultTopic == "" {
			return fmt.Errorf("mqtt request_topic and result_topic are required when mqtt.broker is set")
		}
	}
	return nil
}
