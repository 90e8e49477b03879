// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"github.com/tamzrod/kba-poller/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil configuration")
	}
	if len(cfg.Poller.Lines) == 0 {
		return errors.New("config: at least one line is required")
	}

	type span struct {
		start int
		end   int
		line  string
	}

	ids := make(map[string]struct{})
	devices := make(map[int]string)

	// key = transport | endpoint | unit_id
	spans := make(map[string][]span)

	for _, l := range cfg.Poller.Lines {
		// ------------------------------------------------------------
		// LINE IDENTITY
		// ------------------------------------------------------------

		if l.ID == "" {
			return errors.New("config: line id is required")
		}
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("config: duplicate line id %q", l.ID)
		}
		ids[l.ID] = struct{}{}

		if l.Device < 0 {
			return fmt.Errorf("line %q: device must not be negative", l.ID)
		}
		if l.DeviceConfig == "" {
			// one engine per device instance
			if prev, dup := devices[l.Device]; dup {
				return fmt.Errorf("line %q: device %d already used by line %q", l.ID, l.Device, prev)
			}
			devices[l.Device] = l.ID
		}

		// ------------------------------------------------------------
		// TIMING
		// ------------------------------------------------------------

		if l.IntervalMs <= 0 {
			return fmt.Errorf("line %q: interval_ms must be > 0", l.ID)
		}
		if l.TimeoutMs < 0 {
			return fmt.Errorf("line %q: timeout_ms must not be negative", l.ID)
		}

		// ------------------------------------------------------------
		// PUBLISH (OPT-IN)
		// ------------------------------------------------------------

		p := l.Publish
		if p == nil {
			continue
		}

		transport := p.Transport
		if transport == "" {
			transport = TransportModbus
		}
		if transport != TransportModbus && transport != TransportIngest {
			return fmt.Errorf("line %q: unknown publish transport %q", l.ID, p.Transport)
		}
		if p.Endpoint == "" {
			return fmt.Errorf("line %q: publish endpoint is required", l.ID)
		}

		start := int(p.BaseSlot) * status.SlotsPerLine
		end := start + status.SlotsPerLine - 1
		if end > 0xFFFF {
			return fmt.Errorf("line %q: publish base_slot %d overflows the register space", l.ID, p.BaseSlot)
		}

		key := fmt.Sprintf("%s|%s|%d", transport, p.Endpoint, p.UnitID)
		for _, s := range spans[key] {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"publish block collision: endpoint=%s unit_id=%d base_slot=%d used by lines %q and %q",
					p.Endpoint,
					p.UnitID,
					p.BaseSlot,
					s.line,
					l.ID,
				)
			}
		}
		spans[key] = append(spans[key], span{start: start, end: end, line: l.ID})
	}

	return nil
}
