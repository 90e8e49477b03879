// internal/poller/builder.go
package poller

import (
	"errors"
	"log/slog"
	"time"

	cfg "github.com/tamzrod/kba-poller/internal/config"
	"github.com/tamzrod/kba-poller/internal/laser"
	lmodbus "github.com/tamzrod/kba-poller/internal/laser/modbus"
	"github.com/tamzrod/kba-poller/internal/tags"
)

// Line is one engine plus the tag table it feeds.
type Line struct {
	ID       string
	Interval time.Duration
	Engine   *Engine
	Tags     *tags.Table
}

// Build constructs a Line for one configured laser.
// Nothing is loaded or dialed here; that happens in Line.Start.
func Build(lc cfg.LineConfig, devicePath string, logger *slog.Logger) (*Line, error) {
	if lc.ID == "" {
		return nil, errors.New("poller: line id required")
	}
	if lc.IntervalMs <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(lc.TimeoutMs) * time.Millisecond

	// client factory: one client per StartLine, reused for every session
	dial := func(dev cfg.Device) (laser.Client, error) {
		return lmodbus.New(lmodbus.Config{
			Endpoint: dev.Address(),
			UnitID:   lc.UnitID,
			Timeout:  timeout,
		})
	}

	table := tags.NewTable()

	e, err := NewEngine(EngineConfig{
		LineID:     lc.ID,
		DevicePath: devicePath,
		Load:       cfg.LoadDevice,
		Dial:       dial,
		Sink:       table,
		Logger:     logger.With("line", lc.ID, "device", lc.Device),
	})
	if err != nil {
		return nil, err
	}

	return &Line{
		ID:       lc.ID,
		Interval: time.Duration(lc.IntervalMs) * time.Millisecond,
		Engine:   e,
		Tags:     table,
	}, nil
}

// Start runs the connection-line start hook.
func (l *Line) Start() error {
	return l.Engine.StartLine()
}

// Close releases the controller connection.
func (l *Line) Close() error {
	return l.Engine.Close()
}
