package bridge

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	// ErrRuntimeClosed is returned by Attach after Shutdown.
	ErrRuntimeClosed = errors.New("runtime is shut down")

	// ErrAttachFailed wraps any error from Runtime.Attach.
	ErrAttachFailed = errors.New("thread attach failed")
)

// Runtime is the execution context a native thread must join before it may
// touch Go-side state. Attach and Detach are called at most once per
// outermost callback on a thread; nested callbacks reuse the attachment.
type Runtime interface {
	Attach(tid uint64) error
	Detach(tid uint64)
}

// GoRuntime is the default Runtime. The Go scheduler adopts foreign threads
// on its own, so GoRuntime only tracks attachments and refuses new ones once
// the owner has shut down.
type GoRuntime struct {
	closed   atomic.Bool
	attaches atomic.Int64
	detaches atomic.Int64

	mu       sync.Mutex
	attached map[uint64]int
}

// NewGoRuntime creates an open runtime.
func NewGoRuntime() *GoRuntime {
	return &GoRuntime{attached: make(map[uint64]int)}
}

// Attach records tid as attached.
func (r *GoRuntime) Attach(tid uint64) error {
	if r.closed.Load() {
		return ErrRuntimeClosed
	}
	r.mu.Lock()
	r.attached[tid]++
	r.mu.Unlock()
	r.attaches.Add(1)
	return nil
}

// Detach records tid as detached.
func (r *GoRuntime) Detach(tid uint64) {
	r.mu.Lock()
	if n := r.attached[tid]; n <= 1 {
		delete(r.attached, tid)
	} else {
		r.attached[tid] = n - 1
	}
	r.mu.Unlock()
	r.detaches.Add(1)
}

// Shutdown makes every later Attach fail.
func (r *GoRuntime) Shutdown() {
	if r.closed.CompareAndSwap(false, true) {
		logrus.WithFields(logrus.Fields{
			"function": "GoRuntime.Shutdown",
			"attached": r.Attached(),
		}).Info("Runtime shut down, further callbacks will be dropped")
	}
}

// Closed reports whether Shutdown was called.
func (r *GoRuntime) Closed() bool {
	return r.closed.Load()
}

// Attached returns the number of threads currently attached.
func (r *GoRuntime) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attached)
}

// Stats returns the total number of Attach and Detach calls.
func (r *GoRuntime) Stats() (attaches, detaches int64) {
	return r.attaches.Load(), r.detaches.Load()
}
