// internal/poller/types.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/kba-poller/internal/tags"
)

var (
	// ErrConfigFatal marks a line that could not start. Terminal until the next StartLine.
	ErrConfigFatal = errors.New("poller: configuration fatal")

	// ErrDevice marks a session aborted by a failed controller request.
	ErrDevice = errors.New("poller: device communication failure")

	// ErrNotActive is returned when a session is requested before a successful StartLine.
	ErrNotActive = errors.New("poller: line not active")
)

// State is the lifecycle state of an engine.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Stats are the host-visible session counters.
type Stats struct {
	Sessions  uint64 // every started session, aborted ones included
	Completed uint64
	Failed    uint64
}

// SessionResult is what one session hands to the host.
type SessionResult struct {
	LineID string
	At     time.Time
	Stats  Stats

	// Tags is a copy of the line's tag table after the session.
	Tags []tags.Value

	Err error // non-nil means the session was aborted or refused
}
