package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDeviceFileName(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/kba", "kba_003.yaml"), DeviceFileName("/etc/kba", 3))
	assert.Equal(t, filepath.Join("cfg", "kba_120.yaml"), DeviceFileName("cfg", 120))
}

func TestLoadDevice_YAML(t *testing.T) {
	path := writeFile(t, "kba_001.yaml", `
host: 10.0.0.20
port: 3000
req_delay: 50ms
check_time_session: true
`)

	d, err := LoadDevice(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.20", d.Host)
	assert.Equal(t, 3000, d.Port)
	assert.Equal(t, 50*time.Millisecond, d.ReqDelay.Duration())
	assert.True(t, d.CheckTimeSession)
	assert.Equal(t, "10.0.0.20:3000", d.Address())
}

func TestLoadDevice_TOML(t *testing.T) {
	path := writeFile(t, "kba_001.toml", `
host = "laser.local"
port = 502
req_delay = "120ms"
`)

	d, err := LoadDevice(path)
	require.NoError(t, err)

	assert.Equal(t, "laser.local", d.Host)
	assert.Equal(t, 502, d.Port)
	assert.Equal(t, 120*time.Millisecond, d.ReqDelay.Duration())
	assert.False(t, d.CheckTimeSession)
}

func TestLoadDevice_AllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"missing host", "a.yaml", "port: 502\n"},
		{"bad port", "b.yaml", "host: x\nport: 70000\n"},
		{"bad delay", "c.yaml", "host: x\nport: 502\nreq_delay: soon\n"},
		{"negative delay", "d.yaml", "host: x\nport: 502\nreq_delay: -5ms\n"},
		{"unknown yaml key", "e.yaml", "host: x\nport: 502\nspeed: 9\n"},
		{"unknown toml key", "f.toml", "host = \"x\"\nport = 502\nspeed = 9\n"},
		{"broken yaml", "g.yaml", "host: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := LoadDevice(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Equal(t, Device{}, d)
		})
	}
}

func TestLoadDevice_MissingFile(t *testing.T) {
	d, err := LoadDevice(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Device{}, d)
}

func TestLoad_DaemonConfig(t *testing.T) {
	path := writeFile(t, "kbapoller.yaml", `
poller:
  config_dir: /etc/kba
  lines:
    - id: laser-1
      device: 3
      interval_ms: 1000
      unit_id: 1
      publish:
        transport: ingest
        endpoint: 127.0.0.1:9000
        base_slot: 2
    - id: laser-2
      device: 4
      device_config: /tmp/laser2.toml
      interval_ms: 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	require.Len(t, cfg.Poller.Lines, 2)
	l1 := cfg.Poller.Lines[0]
	require.NotNil(t, l1.Publish)
	assert.Equal(t, TransportIngest, l1.Publish.Transport)
	assert.Equal(t, uint16(2), l1.Publish.BaseSlot)
	assert.Equal(t, DefaultTimeoutMs, l1.TimeoutMs)

	assert.Equal(t, filepath.Join("/etc/kba", "kba_003.yaml"), cfg.DevicePath(l1))
	assert.Equal(t, "/tmp/laser2.toml", cfg.DevicePath(cfg.Poller.Lines[1]))
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeFile(t, "kbapoller.yaml", "poller:\n  lines: []\n  extra: 1\n")

	_, err := Load(path)
	assert.Error(t, err)
}
