package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/kba-poller/internal/config"
	"github.com/tamzrod/kba-poller/internal/status"
	"github.com/tamzrod/kba-poller/internal/tags"
)

// ---- fake endpoint client ----

type writeCall struct {
	area   byte
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeEndpointClient struct {
	writes []writeCall
	fail   bool
}

func (f *fakeEndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("endpoint down")
	}
	f.writes = append(f.writes, writeCall{
		area:   area,
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	return nil
}

func (f *fakeEndpointClient) reset() { f.writes = nil }

func testPlan() Plan {
	return Plan{LineID: "laser-1", Endpoint: "ep1", UnitID: 4, BaseSlot: 2}
}

func values(set map[int]float64) []tags.Value {
	tbl := tags.NewTable()
	for id, v := range set {
		_ = tbl.Set(id, v)
	}
	return tbl.Snapshot()
}

// ---- tests ----

func TestWriteBlock_FirstWriteIsFullBlock(t *testing.T) {
	cli := &fakeEndpointClient{}
	w := New(testPlan(), cli)

	snap := status.Snapshot{Health: status.HealthOK, Sessions: 1}
	if err := w.WriteBlock(snap, values(map[int]float64{tags.PrintCount: 10})); err != nil {
		t.Fatalf("full block write failed: %v", err)
	}

	if len(cli.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(cli.writes))
	}
	wc := cli.writes[0]
	if len(wc.regs) != status.SlotsPerLine {
		t.Fatalf("expected full block (%d regs), got %d", status.SlotsPerLine, len(wc.regs))
	}
	if wc.area != 3 || wc.unitID != 4 {
		t.Fatalf("unexpected area/unit: %d/%d", wc.area, wc.unitID)
	}
	if want := uint16(2 * status.SlotsPerLine); wc.addr != want {
		t.Fatalf("unexpected base addr: got=%d want=%d", wc.addr, want)
	}
}

func TestWriteBlock_IncrementalOnlyChanged(t *testing.T) {
	cli := &fakeEndpointClient{}
	w := New(testPlan(), cli)
	base := uint16(2 * status.SlotsPerLine)

	first := values(map[int]float64{tags.PrintCount: 10, tags.LiveBit: 1})
	if err := w.WriteBlock(status.Snapshot{Health: status.HealthOK, Sessions: 1}, first); err != nil {
		t.Fatalf("full block write failed: %v", err)
	}
	cli.reset()

	second := values(map[int]float64{tags.PrintCount: 10, tags.LiveBit: 0})
	if err := w.WriteBlock(status.Snapshot{Health: status.HealthOK, Sessions: 2}, second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	// sessions slot + live bit triple
	if len(cli.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d: %+v", len(cli.writes), cli.writes)
	}
	if cli.writes[0].addr != base+status.SlotSessions || len(cli.writes[0].regs) != 1 || cli.writes[0].regs[0] != 2 {
		t.Fatalf("unexpected sessions write: %+v", cli.writes[0])
	}
	if want := base + uint16(status.TagSlot(tags.LiveBit)); cli.writes[1].addr != want {
		t.Fatalf("unexpected live bit addr: got=%d want=%d", cli.writes[1].addr, want)
	}
	if len(cli.writes[1].regs) != status.SlotsPerTag {
		t.Fatalf("expected tag triple, got %d regs", len(cli.writes[1].regs))
	}
}

func TestWriteBlock_NoChangeNoWrite(t *testing.T) {
	cli := &fakeEndpointClient{}
	w := New(testPlan(), cli)

	snap := status.Snapshot{Health: status.HealthOK}
	vals := values(map[int]float64{tags.Alarm: 1})

	if err := w.WriteBlock(snap, vals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cli.reset()

	if err := w.WriteBlock(snap, vals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cli.writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(cli.writes))
	}
}

func TestWriteBlock_FailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	w := New(testPlan(), cli)

	if err := w.WriteBlock(status.Snapshot{Health: status.HealthOK}, values(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cli.fail = true
	if err := w.WriteBlock(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}, values(nil)); err == nil {
		t.Fatalf("expected error, got nil")
	}

	cli.fail = false
	cli.reset()
	if err := w.WriteBlock(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}, values(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cli.writes) != 1 || len(cli.writes[0].regs) != status.SlotsPerLine {
		t.Fatalf("expected full block re-assert, got %+v", cli.writes)
	}
}

func TestWriteBlock_NoClient(t *testing.T) {
	w := New(testPlan(), nil)
	if err := w.WriteBlock(status.Snapshot{}, nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestBuildPlan(t *testing.T) {
	l := config.LineConfig{
		ID: "laser-1",
		Publish: &config.PublishConfig{
			Transport: config.TransportIngest,
			Endpoint:  "127.0.0.1:9000",
			UnitID:    2,
			BaseSlot:  5,
		},
	}

	plan, err := BuildPlan(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Plan{LineID: "laser-1", Transport: "ingest", Endpoint: "127.0.0.1:9000", UnitID: 2, BaseSlot: 5}
	if plan != want {
		t.Fatalf("plan mismatch: got=%+v want=%+v", plan, want)
	}

	if _, err := BuildPlan(config.LineConfig{ID: "x"}); err == nil {
		t.Fatalf("expected error for line without publish block")
	}
}

func TestBuild_Transports(t *testing.T) {
	for _, tr := range []string{config.TransportModbus, config.TransportIngest} {
		l := config.LineConfig{
			ID:        "laser-1",
			TimeoutMs: 500,
			Publish:   &config.PublishConfig{Transport: tr, Endpoint: "127.0.0.1:1502"},
		}

		w, err := Build(l)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tr, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("%s: close: %v", tr, err)
		}
	}

	l := config.LineConfig{ID: "laser-1", Publish: &config.PublishConfig{Transport: "mqtt", Endpoint: "x"}}
	if _, err := Build(l); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}
