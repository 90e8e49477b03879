// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// maxRegistersPerWrite is the FC16 limit.
const maxRegistersPerWrite = 123

// registerWriter is the subset of modbus.Client used here.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// EndpointClient is a single TCP connection to one publish endpoint.
// It serializes requests because it mutates SlaveId per write.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  registerWriter
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewEndpointClient prepares the handler; the connection is opened by the first write.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}

	return &EndpointClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes holding registers (area 3) with FC16.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if area != 3 {
		return fmt.Errorf("writer modbus: area %d not writable", area)
	}
	if len(regs) == 0 {
		return nil
	}
	if len(regs) > maxRegistersPerWrite {
		return fmt.Errorf("writer modbus: %d registers exceed the %d per write limit", len(regs), maxRegistersPerWrite)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler != nil {
		c.handler.SlaveId = unitID
	}

	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
