package handle

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidHandle is returned for a null native handle or one whose owner
// has been destroyed.
var ErrInvalidHandle = errors.New("invalid native handle")

// Native is a native object address with a liveness flag. The address is
// never dereferenced here; Ptr only hands it to the caller once the handle
// is known to be live.
type Native struct {
	kind  string
	addr  uintptr
	alive atomic.Bool
}

// NewNative wraps addr. A zero addr produces a handle that is never alive.
func NewNative(kind string, addr uintptr) *Native {
	n := &Native{kind: kind, addr: addr}
	n.alive.Store(addr != 0)
	return n
}

// Ptr returns the address, or ErrInvalidHandle when the handle is null or
// invalidated. A nil *Native is treated as null.
func (n *Native) Ptr() (uintptr, error) {
	if n == nil {
		return 0, fmt.Errorf("%w: nil", ErrInvalidHandle)
	}
	if !n.alive.Load() {
		if n.addr == 0 {
			return 0, fmt.Errorf("%w: null %s", ErrInvalidHandle, n.kind)
		}
		return 0, fmt.Errorf("%w: %s used after destroy", ErrInvalidHandle, n.kind)
	}
	return n.addr, nil
}

// Invalidate marks the handle dead. It reports whether this call did it.
func (n *Native) Invalidate() bool {
	if n == nil {
		return false
	}
	return n.alive.CompareAndSwap(true, false)
}

// Alive reports whether Ptr would succeed.
func (n *Native) Alive() bool {
	return n != nil && n.alive.Load()
}

// Kind returns the name given at creation.
func (n *Native) Kind() string {
	if n == nil {
		return ""
	}
	return n.kind
}
