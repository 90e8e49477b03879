// internal/writer/types.go
package writer

import (
	"github.com/tamzrod/kba-poller/internal/status"
	"github.com/tamzrod/kba-poller/internal/tags"
)

// Plan is where one line block is delivered.
type Plan struct {
	LineID    string
	Transport string
	Endpoint  string
	UnitID    uint8
	BaseSlot  uint16
}

// BlockWriter is the delivery-only contract for a line block.
// It receives a snapshot and writes it verbatim.
// No interpretation of values.
type BlockWriter interface {
	WriteBlock(s status.Snapshot, vals []tags.Value) error
}
