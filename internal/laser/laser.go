// internal/laser/laser.go
package laser

import "errors"

// ErrInvalidLine is returned for feed lines other than 1 and 2.
var ErrInvalidLine = errors.New("laser: feed line must be 1 or 2")

// Status is the controller state read in one request.
// Content is passed through as the controller reports it.
type Status struct {
	PrintCount     int
	OKPrintCount   int
	PrintIsStarted bool
	IsPrinting     bool
	IsAlarm        bool
	AlarmCode      int
}

// Client abstracts the controller requests needed by the poller.
// Calls are synchronous and may block up to the transport timeout.
type Client interface {
	// FetchRollIndex returns the actual roll number of feed line 1 or 2.
	FetchRollIndex(line int) (float64, error)
	FetchStatus() (Status, error)
}

// ValidLine reports whether line names a physical feed line.
func ValidLine(line int) bool {
	return line == 1 || line == 2
}
