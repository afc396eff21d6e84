//go:build (darwin || linux || freebsd || windows) && (amd64 || arm64)

package real

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/sirupsen/logrus"
)

const createSymbol = "DiscordCreate"

// Library is the shared library backend. It implements interfaces.Library
// with purego: interface methods are reached through the function pointer
// tables the SDK hands out, and Go trampolines become C function pointers
// with purego.NewCallback.
type Library struct {
	path   string
	create uintptr
	unload func() error

	mu   sync.Mutex
	refs int
}

var _ interfaces.Library = (*Library)(nil)

// Open loads the shared library at path and resolves DiscordCreate. The
// returned library holds one reference owned by the caller.
func Open(path string) (*Library, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Open",
		"path":     path,
	}).Info("Loading native SDK library")

	lib, err := dlopen(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	create, err := dlsym(lib, createSymbol)
	if err == nil && create == 0 {
		err = errNullEntry
	}
	if err != nil {
		_ = dlclose(lib)
		return nil, &SymbolError{Symbol: createSymbol, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Open",
		"path":     path,
	}).Info("Native SDK library loaded")

	return &Library{
		path:   path,
		create: create,
		unload: func() error { return dlclose(lib) },
		refs:   1,
	}, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Create implements interfaces.Library.Create.
func (l *Library) Create(version int32, params *abi.CreateParams, core *uintptr) (int32, error) {
	if !l.open() {
		return 0, ErrLibraryClosed
	}
	r, _, _ := purego.SyscallN(l.create,
		uintptr(version),
		uintptr(unsafe.Pointer(params)),
		uintptr(unsafe.Pointer(core)))
	return int32(r), nil
}

// Call implements interfaces.Library.Call. h points at the interface struct
// of the object; the method is the function pointer at slot.Index.
func (l *Library) Call(h uintptr, slot abi.Slot, args ...uintptr) (uintptr, error) {
	if slot.ByValue && !abi.AggregatesByReference {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedABI, slot)
	}
	if !l.open() {
		return 0, ErrLibraryClosed
	}
	fn, err := method(h, slot)
	if err != nil {
		return 0, err
	}
	full := make([]uintptr, 0, len(args)+1)
	full = append(full, h)
	full = append(full, args...)
	r, _, _ := purego.SyscallN(fn, full...)
	return r, nil
}

func method(h uintptr, slot abi.Slot) (uintptr, error) {
	if h == 0 {
		return 0, &SymbolError{Symbol: slot.String(), Err: fmt.Errorf("null %s object", slot.Iface)}
	}
	entry := unsafe.Add(unsafe.Pointer(h), uintptr(slot.Index)*unsafe.Sizeof(uintptr(0)))
	fn := *(*uintptr)(entry)
	if fn == 0 {
		return 0, &SymbolError{Symbol: slot.String(), Err: errNullEntry}
	}
	return fn, nil
}

var (
	callbackMu   sync.Mutex
	callbacks    = make(map[uintptr]uintptr)
	makeCallback = purego.NewCallback
)

// NewCallback implements interfaces.Library.NewCallback. purego never frees
// callbacks, so pointers are cached per function for the process lifetime.
func (l *Library) NewCallback(fn any) uintptr {
	key := reflect.ValueOf(fn).Pointer()

	callbackMu.Lock()
	defer callbackMu.Unlock()

	if p, ok := callbacks[key]; ok {
		return p
	}
	p := makeCallback(fn)
	callbacks[key] = p
	return p
}

// Acquire implements interfaces.Library.Acquire.
func (l *Library) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refs++
}

// Release implements interfaces.Library.Release.
func (l *Library) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.refs == 0 {
		return ErrLibraryClosed
	}
	l.refs--
	if l.refs > 0 {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "Library.Release",
		"path":     l.path,
	}).Info("Unloading native SDK library")

	if l.unload == nil {
		return nil
	}
	if err := l.unload(); err != nil {
		return &LoadError{Path: l.path, Err: err}
	}
	return nil
}

// IsSimulation implements interfaces.Library.IsSimulation
func (l *Library) IsSimulation() bool {
	return false
}

func (l *Library) open() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs > 0
}
