// internal/config/load.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the daemon configuration file.
// Unknown keys are rejected.
// The result is not validated; callers run Validate then Normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}

// DevicePath resolves where the device file of a line lives.
func (c *Config) DevicePath(l LineConfig) string {
	if l.DeviceConfig != "" {
		return l.DeviceConfig
	}
	return DeviceFileName(c.Poller.ConfigDir, l.Device)
}
