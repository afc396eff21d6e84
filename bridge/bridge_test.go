package bridge

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRuntime struct {
	attempts int
}

func (f *failingRuntime) Attach(uint64) error {
	f.attempts++
	return errors.New("runtime not initialized")
}

func (f *failingRuntime) Detach(uint64) {}

func requireThreadIDs(t *testing.T) {
	t.Helper()
	if _, ok := currentThreadID(); !ok {
		t.Skip("thread ids unavailable on this platform")
	}
}

// TestEnterExitAttachesOnce verifies nested entries attach and detach only
// at the outermost level
func TestEnterExitAttachesOnce(t *testing.T) {
	requireThreadIDs(t)
	rt := NewGoRuntime()
	b := New(rt)

	outer, err := b.Enter()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Depth())

	inner, err := b.Enter()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Depth())

	attaches, detaches := rt.Stats()
	assert.Equal(t, int64(1), attaches)
	assert.Equal(t, int64(0), detaches)

	inner.Exit()
	_, detaches = rt.Stats()
	assert.Equal(t, int64(0), detaches)
	assert.Equal(t, 1, rt.Attached())

	outer.Exit()
	attaches, detaches = rt.Stats()
	assert.Equal(t, int64(1), attaches)
	assert.Equal(t, int64(1), detaches)
	assert.Equal(t, 0, rt.Attached())
	assert.Equal(t, 0, b.Depth())
}

// TestScopeExitIdempotent verifies a second Exit is ignored
func TestScopeExitIdempotent(t *testing.T) {
	rt := NewGoRuntime()
	b := New(rt)

	s, err := b.Enter()
	require.NoError(t, err)
	s.Exit()
	s.Exit()

	_, detaches := rt.Stats()
	assert.Equal(t, int64(1), detaches)

	var nilScope *Scope
	nilScope.Exit()
}

// TestAttachFailureContained verifies a failed attach drops the delivery
// without running the target or panicking
func TestAttachFailureContained(t *testing.T) {
	rt := &failingRuntime{}
	b := New(rt)

	_, err := b.Enter()
	assert.ErrorIs(t, err, ErrAttachFailed)

	ran := false
	delivered := b.Call("activity.join", func() { ran = true })
	assert.False(t, delivered)
	assert.False(t, ran)
	assert.Equal(t, 2, rt.attempts)
}

// TestShutdownRuntimeDropsDelivery verifies a closed runtime refuses attachment
func TestShutdownRuntimeDropsDelivery(t *testing.T) {
	rt := NewGoRuntime()
	b := New(rt)
	rt.Shutdown()
	assert.True(t, rt.Closed())

	assert.ErrorIs(t, rt.Attach(1), ErrRuntimeClosed)
	assert.False(t, b.Call("log", func() { t.Fatal("must not run") }))
}

// TestCallRecoversPanic verifies a panicking target is contained and the
// thread is still detached
func TestCallRecoversPanic(t *testing.T) {
	rt := NewGoRuntime()
	b := New(rt)

	delivered := b.Call("user.update", func() { panic("boom") })
	assert.False(t, delivered)

	attaches, detaches := rt.Stats()
	assert.Equal(t, attaches, detaches)
	assert.Equal(t, 0, rt.Attached())
}

// TestCallNested verifies a callback delivered from inside another keeps
// the outer attachment
func TestCallNested(t *testing.T) {
	requireThreadIDs(t)
	rt := NewGoRuntime()
	b := New(rt)

	var depths []int
	b.Call("outer", func() {
		depths = append(depths, b.Depth())
		b.Call("inner", func() {
			depths = append(depths, b.Depth())
		})
	})

	assert.Equal(t, []int{1, 2}, depths)
	attaches, detaches := rt.Stats()
	assert.Equal(t, int64(1), attaches)
	assert.Equal(t, int64(1), detaches)
}

// TestCallConcurrent verifies deliveries from many threads balance out
func TestCallConcurrent(t *testing.T) {
	rt := NewGoRuntime()
	b := New(rt)

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Call("log", func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
	attaches, detaches := rt.Stats()
	assert.Equal(t, attaches, detaches)
	assert.Equal(t, 0, rt.Attached())
}

// TestNewDefaultsRuntime verifies a nil runtime is replaced
func TestNewDefaultsRuntime(t *testing.T) {
	b := New(nil)
	_, ok := b.Runtime().(*GoRuntime)
	assert.True(t, ok)
}

// TestThreadIDDistinguishesThreads verifies two goroutines locked to their
// own threads see different ids, and a locked goroutine keeps its id
func TestThreadIDDistinguishesThreads(t *testing.T) {
	requireThreadIDs(t)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	mine, ok := ThreadID()
	require.True(t, ok)
	again, _ := ThreadID()
	assert.Equal(t, mine, again)

	other := make(chan uint64)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		id, _ := ThreadID()
		other <- id
	}()
	assert.NotEqual(t, mine, <-other)
}
