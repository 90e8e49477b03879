// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/kba-poller/internal/config"
	"github.com/tamzrod/kba-poller/internal/laser"
	"github.com/tamzrod/kba-poller/internal/tags"
)

const (
	msgWaiting    = "Waiting for data..."
	msgImpossible = "connecting to KBA is impossible"
)

// LoadFunc loads the device configuration from path. All-or-nothing.
type LoadFunc func(path string) (config.Device, error)

// DialFunc builds the controller client for a loaded configuration.
type DialFunc func(dev config.Device) (laser.Client, error)

// EngineConfig is what an engine needs from its host.
type EngineConfig struct {
	LineID     string
	DevicePath string

	Load LoadFunc
	Dial DialFunc
	Sink tags.Sink

	// Optional. Defaults: slog.Default(), time.Sleep, time.Now.
	Logger *slog.Logger
	Sleep  func(time.Duration)
	Now    func() time.Time
}

// sessionState persists across sessions and is touched only by StartLine and RunSession.
type sessionState struct {
	liveBit         bool
	printingCount   int
	startedAt       time.Time
	fatal           bool
	pendingAnnounce bool
}

// Engine runs polling sessions against one laser controller.
// Not safe for concurrent use: the host must not overlap calls.
type Engine struct {
	cfg     EngineConfig
	baseLog *slog.Logger
	log     *slog.Logger // baseLog tagged with the current run id

	state    State
	stateMsg string
	runID    string

	dev    config.Device
	client laser.Client

	st    sessionState
	stats Stats
}

// NewEngine creates an engine in StateUninitialized.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Load == nil {
		return nil, errors.New("poller: load function required")
	}
	if cfg.Dial == nil {
		return nil, errors.New("poller: dial function required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("poller: tag sink required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Engine{
		cfg:     cfg,
		baseLog: cfg.Logger,
		log:     cfg.Logger,
	}, nil
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// StateMessage returns the last run-state message.
func (e *Engine) StateMessage() string { return e.stateMsg }

// Fatal reports whether the last StartLine failed.
func (e *Engine) Fatal() bool { return e.st.fatal }

// Stats returns a copy of the session counters.
func (e *Engine) Stats() Stats { return e.stats }

// Device returns the configuration loaded by the last successful StartLine.
func (e *Engine) Device() config.Device { return e.dev }

// StartLine is the connection-line start hook.
// It reloads the device configuration and rebuilds the client.
// On failure the engine enters StateFailed and refuses sessions until the next StartLine.
func (e *Engine) StartLine() error {
	e.runID = uuid.NewString()
	e.log = e.baseLog.With("run_id", e.runID)
	e.st.pendingAnnounce = true

	if err := e.Close(); err != nil {
		e.log.Warn("closing previous client failed", "error", err)
	}

	dev, err := e.cfg.Load(e.cfg.DevicePath)
	if err != nil {
		return e.fail(err)
	}

	client, err := e.cfg.Dial(dev)
	if err != nil {
		return e.fail(fmt.Errorf("client for %s: %w", dev.Address(), err))
	}

	e.dev = dev
	e.client = client
	e.st.fatal = false
	e.stateMsg = msgWaiting
	e.state = StateActive

	e.log.Debug("line started",
		"device", dev.Address(),
		"req_delay", dev.ReqDelay.Duration().String(),
		"check_time_session", dev.CheckTimeSession,
	)
	return nil
}

func (e *Engine) fail(cause error) error {
	e.dev = config.Device{}
	e.st.fatal = true
	e.stateMsg = msgImpossible
	e.state = StateFailed
	return fmt.Errorf("%w: %s: %w", ErrConfigFatal, e.stateMsg, cause)
}

// Close releases the client, if it holds a connection.
func (e *Engine) Close() error {
	c, ok := e.client.(io.Closer)
	e.client = nil
	if !ok {
		return nil
	}
	return c.Close()
}

// RunSession performs exactly one polling session.
// A failed request aborts the rest of the session; tags already emitted stay,
// the printing filter and the live bit are left untouched.
func (e *Engine) RunSession() error {
	if e.state != StateActive {
		return ErrNotActive
	}

	if e.st.pendingAnnounce {
		e.log.Info(e.stateMsg)
		e.st.pendingAnnounce = false
	}

	e.stats.Sessions++

	timing := e.dev.CheckTimeSession
	if timing {
		e.st.startedAt = e.cfg.Now()
	}

	roll1, err := e.client.FetchRollIndex(1)
	if err != nil {
		return e.abort("roll index line 1", err)
	}
	e.emit(tags.RollIndexLine1, roll1)
	e.pause()

	roll2, err := e.client.FetchRollIndex(2)
	if err != nil {
		return e.abort("roll index line 2", err)
	}
	e.emit(tags.RollIndexLine2, roll2)
	e.pause()

	st, err := e.client.FetchStatus()
	if err != nil {
		return e.abort("status", err)
	}

	for _, m := range statusTags {
		e.emit(m.id, m.value(st))
	}

	var printing bool
	e.st.printingCount, printing = Debounce(e.st.printingCount, st.IsPrinting)
	e.emit(tags.Printing, tags.Bool(printing))

	e.st.liveBit = !e.st.liveBit
	e.emit(tags.LiveBit, tags.Bool(e.st.liveBit))

	if timing {
		elapsed := e.cfg.Now().Sub(e.st.startedAt)
		e.emit(tags.SessionTime, float64(elapsed.Milliseconds()))
	}

	e.stats.Completed++
	return nil
}

func (e *Engine) abort(step string, err error) error {
	e.stats.Failed++
	return fmt.Errorf("%w: %s: %w", ErrDevice, step, err)
}

// pause waits the configured settling time between two requests.
func (e *Engine) pause() {
	if d := e.dev.ReqDelay.Duration(); d > 0 {
		e.cfg.Sleep(d)
	}
}

func (e *Engine) emit(id int, v float64) {
	if err := e.cfg.Sink.Set(id, v); err != nil {
		e.log.Warn("tag rejected", "tag", id, "name", tags.Name(id), "error", err)
	}
}
