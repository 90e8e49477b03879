// internal/tags/table.go
package tags

import (
	"fmt"
	"sync"
)

// Sink receives tag values keyed by id.
type Sink interface {
	Set(id int, value float64) error
}

// Table holds the current value of every tag of one line.
// Values not set since creation (or Reset) are Undefined.
// Safe for concurrent use: the engine writes, the publisher reads.
type Table struct {
	mu   sync.RWMutex
	vals [Count]Value
}

// NewTable creates a table with all tags Undefined.
func NewTable() *Table {
	t := &Table{}
	t.Reset()
	return t
}

// Set stores a defined value for id.
func (t *Table) Set(id int, value float64) error {
	if id < 0 || id >= Count {
		return fmt.Errorf("tags: id %d out of range", id)
	}

	t.mu.Lock()
	t.vals[id] = Value{ID: id, Value: value, Quality: Defined}
	t.mu.Unlock()
	return nil
}

// Get returns the current value of id.
func (t *Table) Get(id int) (Value, bool) {
	if id < 0 || id >= Count {
		return Value{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.vals[id], true
}

// Snapshot returns a copy of all tags ordered by id.
func (t *Table) Snapshot() []Value {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Value, Count)
	copy(out, t.vals[:])
	return out
}

// Reset marks every tag Undefined.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.vals {
		t.vals[i] = Value{ID: i}
	}
}
