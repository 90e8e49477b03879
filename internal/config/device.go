// internal/config/device.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Device is the connection configuration of one laser controller.
// It is immutable for the lifetime of a connection.
type Device struct {
	Host             string   `yaml:"host" toml:"host"`
	Port             int      `yaml:"port" toml:"port"`
	ReqDelay         Duration `yaml:"req_delay" toml:"req_delay"`
	CheckTimeSession bool     `yaml:"check_time_session" toml:"check_time_session"`
}

// Address returns host:port.
func (d Device) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// DeviceFileName returns the file holding the configuration of device number n.
func DeviceFileName(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("kba_%03d.yaml", n))
}

// LoadDevice reads and validates one device file.
// All-or-nothing: on any error the zero Device is returned.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func LoadDevice(path string) (Device, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Device{}, fmt.Errorf("config: read device %s: %w", path, err)
	}

	var d Device
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(raw), &d)
		if err != nil {
			return Device{}, fmt.Errorf("config: parse device %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Device{}, fmt.Errorf("config: parse device %s: unknown key %q", path, undec[0].String())
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return Device{}, fmt.Errorf("config: parse device %s: %w", path, err)
		}
	}

	if err := ValidateDevice(d); err != nil {
		return Device{}, fmt.Errorf("config: device %s: %w", path, err)
	}

	return d, nil
}

// ValidateDevice checks a device configuration without mutating it.
func ValidateDevice(d Device) error {
	if strings.TrimSpace(d.Host) == "" {
		return errors.New("host is required")
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", d.Port)
	}
	if d.ReqDelay.Duration() < 0 {
		return fmt.Errorf("req_delay must not be negative, got %s", d.ReqDelay.Duration())
	}
	return nil
}

// ---- DURATION ----

// Duration wraps time.Duration so files can use "50ms" style strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler (used by the TOML decoder).
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
