package interfaces

import "github.com/opd-ai/gamesdk/abi"

// Library defines the operations a session needs from the native SDK.
// This abstraction allows switching between the loaded shared library and
// an in-process simulation.
type Library interface {
	// Create calls DiscordCreate. It returns the native result code and
	// stores the core handle in core on success. The error is reserved for
	// failures that happen before the native call, such as a missing
	// symbol.
	Create(version int32, params *abi.CreateParams, core *uintptr) (int32, error)

	// Call invokes the method at slot on the native object h with h as the
	// first argument followed by args, and returns the raw return register.
	Call(h uintptr, slot abi.Slot, args ...uintptr) (uintptr, error)

	// NewCallback returns a C function pointer for fn. fn must take only
	// uintptr arguments and return one uintptr. Repeated calls with the
	// same function return the same pointer.
	NewCallback(fn any) uintptr

	// Acquire adds a reference to the library. Every session holds one.
	Acquire()

	// Release drops a reference. The library is unloaded when the last
	// reference is dropped.
	Release() error

	// IsSimulation returns true if this is a simulation implementation
	IsSimulation() bool
}

// LibraryConfig holds configuration for library implementations
type LibraryConfig struct {
	// Path is the shared library path. Empty means search the default
	// locations.
	Path string

	// UseSimulation determines whether to use the simulation or the real
	// shared library
	UseSimulation bool
}
