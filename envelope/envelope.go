// Package envelope holds the state that travels with one native
// asynchronous call or one long-lived native hook.
//
// An envelope owns the Go callback target and is registered in a
// handle.Table; its id is the void* user data handed to native code. Firing
// a single-shot envelope removes it from the table before delivery, so a
// second fire for the same id finds nothing and never reaches the target.
// Persistent envelopes stay registered until released explicitly or reaped
// with their session.
package envelope

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/handle"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEnvelopeSpent is returned when firing an id that has already fired,
	// was released, or never existed.
	ErrEnvelopeSpent = errors.New("envelope already fired or released")

	// ErrNotEnvelope is returned when an id resolves to something else.
	ErrNotEnvelope = errors.New("handle does not refer to an envelope")

	// ErrRegistryClosed is returned when arming on a reaped registry.
	ErrRegistryClosed = errors.New("envelope registry closed")
)

// Kind tells how many times an envelope may fire.
type Kind int

const (
	SingleShot Kind = iota
	Persistent
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Persistent {
		return "persistent"
	}
	return "single-shot"
}

// State is the life cycle position of an envelope.
type State int32

const (
	Armed State = iota
	Fired
	Released
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	case Released:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Envelope carries one callback target.
type Envelope struct {
	id     uintptr
	name   string
	kind   Kind
	state  atomic.Int32
	target any
	owner  *Registry
}

// ID returns the user-data id handed to native code.
func (e *Envelope) ID() uintptr { return e.id }

// Name returns the callback name used in logs.
func (e *Envelope) Name() string { return e.name }

// Kind returns whether the envelope is single-shot or persistent.
func (e *Envelope) Kind() Kind { return e.kind }

// State returns the current state.
func (e *Envelope) State() State { return State(e.state.Load()) }

// Registry owns the envelopes created for one session and delivers through
// that session's bridge.
type Registry struct {
	bridge *bridge.Bridge
	table  *handle.Table

	mu     sync.Mutex
	owned  map[uintptr]*Envelope
	closed bool
}

// NewRegistry creates a registry. A nil table uses handle.Default.
func NewRegistry(b *bridge.Bridge, t *handle.Table) *Registry {
	if t == nil {
		t = handle.Default
	}
	return &Registry{bridge: b, table: t, owned: make(map[uintptr]*Envelope)}
}

// Arm creates a single-shot envelope for target and returns its id.
func (r *Registry) Arm(name string, target any) (uintptr, error) {
	return r.add(name, SingleShot, target)
}

// Persist creates a persistent envelope for target and returns its id.
func (r *Registry) Persist(name string, target any) (uintptr, error) {
	return r.add(name, Persistent, target)
}

func (r *Registry) add(name string, kind Kind, target any) (uintptr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, fmt.Errorf("%w: arming %s", ErrRegistryClosed, name)
	}
	e := &Envelope{name: name, kind: kind, target: target, owner: r}
	e.id = r.table.Register(e)
	r.owned[e.id] = e

	logrus.WithFields(logrus.Fields{
		"function": "Registry.add",
		"callback": name,
		"kind":     kind.String(),
		"id":       e.id,
	}).Debug("Envelope armed")
	return e.id, nil
}

// Get returns the envelope for id while it is still registered.
func (r *Registry) Get(id uintptr) (*Envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.owned[id]
	return e, ok
}

// Release drops an envelope without firing it. It is used for persistent
// teardown and for single-shot envelopes whose native call failed before
// the callback could be scheduled. It reports whether id was live.
func (r *Registry) Release(id uintptr) bool {
	r.mu.Lock()
	e, ok := r.owned[id]
	if ok {
		delete(r.owned, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.table.Delete(id)
	e.state.Store(int32(Released))
	return true
}

// Reap releases every envelope still owned and closes the registry. Armed
// single-shot envelopes at this point are orphans whose native call never
// completed; they are logged. It returns the number released.
func (r *Registry) Reap() int {
	r.mu.Lock()
	owned := r.owned
	r.owned = make(map[uintptr]*Envelope)
	r.closed = true
	r.mu.Unlock()

	orphans := 0
	for id, e := range owned {
		r.table.Delete(id)
		if e.kind == SingleShot && e.State() == Armed {
			orphans++
		}
		e.state.Store(int32(Released))
	}

	if orphans > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Registry.Reap",
			"orphans":  orphans,
			"released": len(owned),
		}).Warn("Reaped single-shot envelopes that never fired")
	}
	return len(owned)
}

// Outstanding returns the number of envelopes still owned.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owned)
}

func (r *Registry) forget(id uintptr) {
	r.mu.Lock()
	delete(r.owned, id)
	r.mu.Unlock()
}
