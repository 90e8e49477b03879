// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 header.
const (
	magic     = "RI"
	versionV1 = 0x01
	headerLen = 10
)

// Raw Ingest v1 response codes.
const (
	respOK       byte = 0x00
	respRejected byte = 0x01
)

// ErrRejected is returned when the endpoint answers with the rejected status.
var ErrRejected = errors.New("writer ingest: rejected")

// EndpointClient sends Raw Ingest v1 packets. One packet per connection, no state.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// WriteRegisters sends one register packet and waits for the status byte.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	pkt := encodePacket(area, unitID, addr, regs)

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}

// encodePacket builds a Raw Ingest v1 packet.
//
//	0-1  magic "RI"
//	2    version
//	3    area
//	4-5  unit id
//	6-7  address
//	8-9  register count
//	10+  registers, big-endian
func encodePacket(area byte, unitID uint8, addr uint16, regs []uint16) []byte {
	pkt := make([]byte, headerLen, headerLen+2*len(regs))

	copy(pkt[0:2], magic)
	pkt[2] = versionV1
	pkt[3] = area
	binary.BigEndian.PutUint16(pkt[4:6], uint16(unitID))
	binary.BigEndian.PutUint16(pkt[6:8], addr)
	binary.BigEndian.PutUint16(pkt[8:10], uint16(len(regs)))

	for _, r := range regs {
		pkt = binary.BigEndian.AppendUint16(pkt, r)
	}
	return pkt
}
