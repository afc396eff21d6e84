package handle

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTableRegisterLookup verifies ids are nonzero, unique and resolvable
func TestTableRegisterLookup(t *testing.T) {
	tbl := NewTable()
	a := tbl.Register("a")
	b := tbl.Register("b")

	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, tbl.Len())

	v, ok := tbl.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = tbl.Lookup(0)
	assert.False(t, ok)
}

// TestTableTakeOnce verifies Take releases an entry exactly once
func TestTableTakeOnce(t *testing.T) {
	tbl := NewTable()
	id := tbl.Register(42)

	v, ok := tbl.Take(id)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = tbl.Take(id)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}

// TestTableConcurrentTake verifies only one of many concurrent takers wins
func TestTableConcurrentTake(t *testing.T) {
	tbl := NewTable()
	id := tbl.Register("once")

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := tbl.Take(id); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

// TestTableDelete verifies Delete is idempotent
func TestTableDelete(t *testing.T) {
	tbl := NewTable()
	id := tbl.Register(struct{}{})
	tbl.Delete(id)
	tbl.Delete(id)
	assert.Equal(t, 0, tbl.Len())
}

// TestNativeHandle verifies null and destroyed handles are rejected
func TestNativeHandle(t *testing.T) {
	tests := []struct {
		name       string
		handle     *Native
		invalidate bool
		wantErr    bool
	}{
		{name: "live", handle: NewNative("core", 0x1000)},
		{name: "null", handle: NewNative("core", 0), wantErr: true},
		{name: "nil wrapper", handle: nil, wantErr: true},
		{name: "destroyed", handle: NewNative("lobby_manager", 0x2000), invalidate: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.invalidate {
				assert.True(t, tt.handle.Invalidate())
				assert.False(t, tt.handle.Invalidate())
			}
			ptr, err := tt.handle.Ptr()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHandle)
				assert.Zero(t, ptr)
				assert.False(t, tt.handle.Alive())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uintptr(0x1000), ptr)
			assert.True(t, tt.handle.Alive())
		})
	}
}
