// Package bridge attaches the calling native thread to the Go-side runtime
// for the duration of one callback delivery.
//
// Every trampoline enters the bridge before touching any Go state. Entries
// nest: only the outermost entry on a thread attaches, and only its exit
// detaches. A failed attach drops that one delivery and is logged, since no
// error channel back to the native caller exists.
package bridge

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// Bridge tracks attachment depth per OS thread.
type Bridge struct {
	rt Runtime

	mu    sync.Mutex
	depth map[uint64]int
	anon  int
}

// New creates a bridge over rt. A nil rt uses a fresh GoRuntime.
func New(rt Runtime) *Bridge {
	if rt == nil {
		rt = NewGoRuntime()
	}
	return &Bridge{rt: rt, depth: make(map[uint64]int)}
}

// Runtime returns the runtime the bridge attaches to.
func (b *Bridge) Runtime() Runtime {
	return b.rt
}

// Scope is one entry into the bridge. Exit must be called exactly once;
// extra calls are ignored.
type Scope struct {
	b     *Bridge
	tid   uint64
	known bool
	done  bool
}

// Enter locks the goroutine to its OS thread and attaches the thread if it
// is not already attached.
func (b *Bridge) Enter() (*Scope, error) {
	runtime.LockOSThread()
	tid, known := currentThreadID()

	if !known {
		// Without a thread id nesting cannot be detected, so every entry
		// attaches and detaches on its own.
		if err := b.rt.Attach(0); err != nil {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: %v", ErrAttachFailed, err)
		}
		b.mu.Lock()
		b.anon++
		b.mu.Unlock()
		return &Scope{b: b}, nil
	}

	b.mu.Lock()
	d := b.depth[tid]
	b.mu.Unlock()

	// Only this thread changes its own depth entry, so the read above
	// cannot go stale before the update below.
	if d == 0 {
		if err := b.rt.Attach(tid); err != nil {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: thread %d: %v", ErrAttachFailed, tid, err)
		}
	}

	b.mu.Lock()
	b.depth[tid] = d + 1
	b.mu.Unlock()

	return &Scope{b: b, tid: tid, known: true}, nil
}

// Exit leaves the scope, detaching the thread if this was the outermost entry.
func (s *Scope) Exit() {
	if s == nil || s.done {
		return
	}
	s.done = true
	defer runtime.UnlockOSThread()

	if !s.known {
		s.b.mu.Lock()
		s.b.anon--
		s.b.mu.Unlock()
		s.b.rt.Detach(0)
		return
	}

	s.b.mu.Lock()
	d := s.b.depth[s.tid] - 1
	if d <= 0 {
		delete(s.b.depth, s.tid)
	} else {
		s.b.depth[s.tid] = d
	}
	s.b.mu.Unlock()

	if d <= 0 {
		s.b.rt.Detach(s.tid)
	}
}

// Depth returns the attachment depth of the calling thread. It is only
// meaningful while the caller is locked to its thread. Without thread ids
// it returns the number of open scopes on any thread.
func (b *Bridge) Depth() int {
	tid, known := currentThreadID()
	b.mu.Lock()
	defer b.mu.Unlock()
	if !known {
		return b.anon
	}
	return b.depth[tid]
}

// ThreadID returns the OS thread id of the caller. The second result is
// false on platforms without a thread id source. The id only stays valid
// while the caller is locked to its thread.
func ThreadID() (uint64, bool) {
	return currentThreadID()
}

// Call runs fn inside an attached scope. A failed attach or a panic in fn
// is logged and swallowed. It reports whether fn ran to completion.
func (b *Bridge) Call(name string, fn func()) (delivered bool) {
	scope, err := b.Enter()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Bridge.Call",
			"callback": name,
			"error":    err.Error(),
		}).Error("Dropping callback delivery, thread could not be attached")
		return false
	}
	defer scope.Exit()

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Bridge.Call",
				"callback": name,
				"panic":    fmt.Sprint(r),
			}).Error("Recovered panic in callback target")
			delivered = false
		}
	}()

	fn()
	return true
}
