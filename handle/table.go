// Package handle keeps Go values reachable while native code holds an
// opaque reference to them, and wraps native object addresses so that a
// destroyed or null object is rejected before any native call.
//
// Native code never receives a Go pointer. It receives a table id, stored
// in its void* user-data slots, and the id is resolved back to the Go value
// when a callback arrives.
package handle

import (
	"sync"
)

// Table maps ids to Go values. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	entries map[uintptr]any
	nextID  uintptr
}

// Default is the process-wide table whose ids are handed to native code.
var Default = NewTable()

// NewTable creates an empty table. Ids start at 1 so 0 can mean "none".
func NewTable() *Table {
	return &Table{
		entries: make(map[uintptr]any),
		nextID:  1,
	}
}

// Register stores v and returns its id. The value stays reachable until
// Take or Delete removes it.
func (t *Table) Register(v any) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.entries[id] = v
	return id
}

// Lookup returns the value for id without removing it.
func (t *Table) Lookup(id uintptr) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[id]
	return v, ok
}

// Take removes and returns the value for id. Of several concurrent Take
// calls for one id, exactly one succeeds.
func (t *Table) Take(id uintptr) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return v, ok
}

// Delete removes id. Deleting an unknown id is a no-op.
func (t *Table) Delete(id uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
