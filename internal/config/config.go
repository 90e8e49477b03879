// internal/config/config.go
package config

type Config struct {
	Poller PollerConfig `yaml:"poller"`
}

type PollerConfig struct {
	// ConfigDir holds per-device files named by DeviceFileName.
	ConfigDir string       `yaml:"config_dir"`
	Lines     []LineConfig `yaml:"lines"`
}

// ---- LINE ----

// LineConfig describes one communication line: one laser controller polled by one engine.
type LineConfig struct {
	ID     string `yaml:"id"`
	Device int    `yaml:"device"`

	// DeviceConfig overrides the path derived from ConfigDir and Device.
	DeviceConfig string `yaml:"device_config"`

	IntervalMs int   `yaml:"interval_ms"`
	TimeoutMs  int   `yaml:"timeout_ms"`
	UnitID     uint8 `yaml:"unit_id"`

	// Publish is optional; nil keeps tags in memory only.
	Publish *PublishConfig `yaml:"publish"`
}

// ---- PUBLISH ----

const (
	TransportModbus = "modbus"
	TransportIngest = "ingest"
)

type PublishConfig struct {
	Transport string `yaml:"transport"`
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
}
