// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// PollOnce runs one session and packages the outcome for the host.
func (l *Line) PollOnce() SessionResult {
	err := l.Engine.RunSession()

	return SessionResult{
		LineID: l.ID,
		At:     time.Now(),
		Stats:  l.Engine.Stats(),
		Tags:   l.Tags.Snapshot(),
		Err:    err,
	}
}

// Run polls once immediately, then on every tick, and emits SessionResult on out.
// One goroutine per line. No overlap. No retries.
func (l *Line) Run(ctx context.Context, out chan<- SessionResult) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		res := l.PollOnce()

		select {
		case <-ctx.Done():
			return
		case out <- res:
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
