//go:build (darwin || linux || freebsd || windows) && (amd64 || arm64)

package real

import (
	"errors"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenMissingLibrary verifies a bad path is reported as a LoadError
func TestOpenMissingLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discord_game_sdk.missing")

	lib, err := Open(path)
	require.Error(t, err)
	assert.Nil(t, lib)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)

	var symErr *SymbolError
	assert.False(t, errors.As(err, &symErr))
}

// interface structs must stay on the heap while their address is held as uintptr
var ifaces [][]uintptr

func newIface(n int) []uintptr {
	iface := make([]uintptr, n)
	ifaces = append(ifaces, iface)
	return iface
}

func newTestLibrary(unloads *int) *Library {
	return &Library{
		path:   "test",
		unload: func() error { *unloads++; return nil },
		refs:   1,
	}
}

// TestReleaseRefcount verifies the library unloads once on the last release
func TestReleaseRefcount(t *testing.T) {
	unloads := 0
	lib := newTestLibrary(&unloads)

	lib.Acquire()
	require.NoError(t, lib.Release())
	assert.Equal(t, 0, unloads)
	assert.True(t, lib.open())

	require.NoError(t, lib.Release())
	assert.Equal(t, 1, unloads)
	assert.False(t, lib.open())

	assert.ErrorIs(t, lib.Release(), ErrLibraryClosed)
	assert.Equal(t, 1, unloads)
}

// TestCallAfterClose verifies no native call is attempted once unloaded
func TestCallAfterClose(t *testing.T) {
	unloads := 0
	lib := newTestLibrary(&unloads)
	require.NoError(t, lib.Release())

	_, err := lib.Call(1, abi.CoreRunCallbacks)
	assert.ErrorIs(t, err, ErrLibraryClosed)

	var out uintptr
	_, err = lib.Create(abi.Version, &abi.CreateParams{}, &out)
	assert.ErrorIs(t, err, ErrLibraryClosed)
}

// TestCallResolvesSlots verifies method lookup through an interface struct
func TestCallResolvesSlots(t *testing.T) {
	unloads := 0
	lib := newTestLibrary(&unloads)

	iface := newIface(4)
	iface[0] = 0xdead
	h := uintptr(unsafe.Pointer(&iface[0]))

	fn, err := method(h, abi.CoreDestroy)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0xdead), fn)

	_, err = lib.Call(h, abi.CoreRunCallbacks)
	var symErr *SymbolError
	require.True(t, errors.As(err, &symErr))
	assert.Equal(t, "core.run_callbacks", symErr.Symbol)

	_, err = lib.Call(0, abi.CoreRunCallbacks)
	require.True(t, errors.As(err, &symErr))
}

// TestByValueGate verifies by-value methods are refused where the platform
// passes records in registers
func TestByValueGate(t *testing.T) {
	unloads := 0
	lib := newTestLibrary(&unloads)

	iface := newIface(3)
	h := uintptr(unsafe.Pointer(&iface[0]))

	_, err := lib.Call(h, abi.ImageGetDimensions, 0, 0)
	if abi.AggregatesByReference {
		var symErr *SymbolError
		assert.True(t, errors.As(err, &symErr))
		assert.NotErrorIs(t, err, ErrUnsupportedABI)
	} else {
		assert.ErrorIs(t, err, ErrUnsupportedABI)
	}
}

func callbackA(a uintptr) uintptr { return a }
func callbackB(a uintptr) uintptr { return a + 1 }

// TestNewCallbackCachesPerFunction verifies each function gets one pointer
func TestNewCallbackCachesPerFunction(t *testing.T) {
	made := 0
	saved := makeCallback
	makeCallback = func(fn any) uintptr {
		made++
		return uintptr(0x1000 + made)
	}
	t.Cleanup(func() { makeCallback = saved })

	callbackMu.Lock()
	savedCache := callbacks
	callbacks = make(map[uintptr]uintptr)
	callbackMu.Unlock()
	t.Cleanup(func() {
		callbackMu.Lock()
		callbacks = savedCache
		callbackMu.Unlock()
	})

	lib := &Library{}
	a1 := lib.NewCallback(callbackA)
	a2 := lib.NewCallback(callbackA)
	b := lib.NewCallback(callbackB)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.Equal(t, 2, made)
}

// TestErrorMessages verifies both error types name what failed
func TestErrorMessages(t *testing.T) {
	load := &LoadError{Path: "/opt/sdk.so", Err: errors.New("no such file")}
	assert.Contains(t, load.Error(), "/opt/sdk.so")
	assert.ErrorContains(t, load, "no such file")

	sym := &SymbolError{Symbol: "DiscordCreate", Err: errNullEntry}
	assert.Contains(t, sym.Error(), "DiscordCreate")
	assert.ErrorIs(t, sym, errNullEntry)
}
