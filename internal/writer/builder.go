// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/kba-poller/internal/config"
	"github.com/tamzrod/kba-poller/internal/writer/ingest"
	wmodbus "github.com/tamzrod/kba-poller/internal/writer/modbus"
)

// BuildPlan converts one line config into a Plan.
// Assumes config has already passed Validate and Normalize.
func BuildPlan(l cfg.LineConfig) (Plan, error) {
	if l.ID == "" {
		return Plan{}, errors.New("writer: line id required")
	}
	if l.Publish == nil {
		return Plan{}, fmt.Errorf("writer: line %q has no publish block", l.ID)
	}

	return Plan{
		LineID:    l.ID,
		Transport: l.Publish.Transport,
		Endpoint:  l.Publish.Endpoint,
		UnitID:    l.Publish.UnitID,
		BaseSlot:  l.Publish.BaseSlot,
	}, nil
}

// Build creates the writer and its endpoint client for one line.
// Clients connect on first write; the caller must Close the writer.
func Build(l cfg.LineConfig) (*Writer, error) {
	plan, err := BuildPlan(l)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(l.TimeoutMs) * time.Millisecond

	var (
		cli    endpointClient
		closer func() error
	)

	switch plan.Transport {
	case cfg.TransportIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{Endpoint: plan.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, err
		}
		cli, closer = c, c.Close

	case cfg.TransportModbus, "":
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: plan.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, err
		}
		cli, closer = c, c.Close

	default:
		return nil, fmt.Errorf("writer: unknown transport %q", plan.Transport)
	}

	w := New(plan, cli)
	w.closer = closer
	return w, nil
}
