// internal/laser/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/kba-poller/internal/laser"
)

// Holding register map of the controller gateway (big-endian words).
const (
	addrRollIndexLine1 uint16 = 0
	addrRollIndexLine2 uint16 = 2
	qtyRollIndex       uint16 = 2

	addrStatus uint16 = 16
	qtyStatus  uint16 = 6
)

// status flag bits (status register 4)
const (
	flagPrintStarted uint16 = 1 << 0
	flagPrinting     uint16 = 1 << 1
	flagAlarm        uint16 = 1 << 2
)

// registerReader is the subset of modbus.Client the adapter needs.
type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// Client implements laser.Client over Modbus TCP.
// The handler connects lazily on the first request and reconnects after a transport failure.
type Client struct {
	handler *modbus.TCPClientHandler
	regs    registerReader
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a client. No connection is made until the first request.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("laser modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.SlaveId = cfg.UnitID
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}

	return &Client{
		handler: h,
		regs:    modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- laser.Client interface ----

func (c *Client) FetchRollIndex(line int) (float64, error) {
	if !laser.ValidLine(line) {
		return 0, laser.ErrInvalidLine
	}

	addr := addrRollIndexLine1
	if line == 2 {
		addr = addrRollIndexLine2
	}

	regs, err := c.readRegisters(addr, qtyRollIndex)
	if err != nil {
		return 0, fmt.Errorf("laser modbus: roll index line %d: %w", line, err)
	}

	return float64(uint32(regs[0])<<16 | uint32(regs[1])), nil
}

func (c *Client) FetchStatus() (laser.Status, error) {
	regs, err := c.readRegisters(addrStatus, qtyStatus)
	if err != nil {
		return laser.Status{}, fmt.Errorf("laser modbus: status: %w", err)
	}

	flags := regs[4]

	return laser.Status{
		PrintCount:     int(uint32(regs[0])<<16 | uint32(regs[1])),
		OKPrintCount:   int(uint32(regs[2])<<16 | uint32(regs[3])),
		PrintIsStarted: flags&flagPrintStarted != 0,
		IsPrinting:     flags&flagPrinting != 0,
		IsAlarm:        flags&flagAlarm != 0,
		AlarmCode:      int(regs[5]),
	}, nil
}

// ---- internal helpers ----

func (c *Client) readRegisters(addr, qty uint16) ([]uint16, error) {
	if c == nil || c.regs == nil {
		return nil, errors.New("not connected")
	}

	raw, err := c.regs.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(raw) != int(qty)*2 {
		return nil, fmt.Errorf("short read: got %d bytes, want %d", len(raw), int(qty)*2)
	}

	return unpackRegisters(raw), nil
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
