//go:build !((darwin || linux || freebsd || windows) && (amd64 || arm64))

package real

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/interfaces"
)

// Library is unavailable on this platform. Open always fails.
type Library struct{}

var _ interfaces.Library = (*Library)(nil)

// Open fails with a LoadError wrapping ErrUnsupportedPlatform.
func Open(path string) (*Library, error) {
	return nil, &LoadError{Path: path, Err: ErrUnsupportedPlatform}
}

// Path returns "".
func (l *Library) Path() string { return "" }

// Create always fails with ErrUnsupportedPlatform.
func (l *Library) Create(int32, *abi.CreateParams, *uintptr) (int32, error) {
	return 0, ErrUnsupportedPlatform
}

// Call always fails with ErrUnsupportedPlatform.
func (l *Library) Call(uintptr, abi.Slot, ...uintptr) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

// NewCallback returns 0.
func (l *Library) NewCallback(any) uintptr { return 0 }

// Acquire does nothing.
func (l *Library) Acquire() {}

// Release reports ErrLibraryClosed.
func (l *Library) Release() error { return ErrLibraryClosed }

// IsSimulation returns false.
func (l *Library) IsSimulation() bool { return false }
