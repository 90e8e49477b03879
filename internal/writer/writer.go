// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tamzrod/kba-poller/internal/status"
	"github.com/tamzrod/kba-poller/internal/tags"
)

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

const areaHoldingRegisters byte = 3

// Writer delivers line blocks into one endpoint.
// The first write, and the first write after any failure, re-asserts the full block.
// Otherwise only changed header slots and changed tags are written.
type Writer struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     []uint16
	closer   func() error
}

// New creates a writer over an endpoint client.
func New(plan Plan, cli endpointClient) *Writer {
	return &Writer{
		plan:     plan,
		cli:      cli,
		needFull: true,
	}
}

// Close releases the endpoint client, if the writer owns it.
func (w *Writer) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer()
}

// WriteBlock implements BlockWriter.
func (w *Writer) WriteBlock(s status.Snapshot, vals []tags.Value) error {
	if w == nil || w.cli == nil {
		return errors.New("writer: no endpoint client")
	}

	regs := status.Encode(s, vals)
	base := w.baseAddr()

	// ------------------------------------------------------------
	// Full block write (re-assert)
	// ------------------------------------------------------------
	if w.needFull {
		if err := w.cli.WriteRegisters(areaHoldingRegisters, w.plan.UnitID, base, regs); err != nil {
			return fmt.Errorf("writer: line %s: full block write failed: %w", w.plan.LineID, err)
		}

		w.needFull = false
		w.last = regs
		return nil
	}

	var errs []string

	// Header slots, one register each
	for slot := 0; slot < status.HeaderSlots; slot++ {
		if w.last[slot] == regs[slot] {
			continue
		}
		if err := w.cli.WriteRegisters(
			areaHoldingRegisters,
			w.plan.UnitID,
			base+uint16(slot),
			regs[slot:slot+1],
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
			continue
		}
		w.last[slot] = regs[slot]
	}

	// Tags, one quality+value triple each
	for id := 0; id < tags.Count; id++ {
		at := status.TagSlot(id)
		seg := regs[at : at+status.SlotsPerTag]
		if slices.Equal(w.last[at:at+status.SlotsPerTag], seg) {
			continue
		}
		if err := w.cli.WriteRegisters(
			areaHoldingRegisters,
			w.plan.UnitID,
			base+uint16(at),
			seg,
		); err != nil {
			errs = append(errs, fmt.Sprintf("tag%d write failed: %v", id, err))
			continue
		}
		copy(w.last[at:], seg)
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next write.
		w.needFull = true
		return fmt.Errorf("writer: line %s: %s", w.plan.LineID, strings.Join(errs, " | "))
	}

	return nil
}

func (w *Writer) baseAddr() uint16 {
	// Each line owns a fixed SlotsPerLine block.
	return w.plan.BaseSlot * status.SlotsPerLine
}
