package real

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedABI is returned for methods that take a record by value
	// on platforms where such records travel in registers.
	ErrUnsupportedABI = errors.New("by-value record arguments are not supported on this platform")
	// ErrLibraryClosed is returned after the last reference was released.
	ErrLibraryClosed = errors.New("native library is closed")
	// ErrUnsupportedPlatform is wrapped by LoadError where no loader exists.
	ErrUnsupportedPlatform = errors.New("native loading is not supported on this platform")
)

// LoadError reports a shared library that could not be opened.
type LoadError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load native library %q: %v", e.Path, e.Err)
}

// Unwrap returns the loader error.
func (e *LoadError) Unwrap() error { return e.Err }

// SymbolError reports an exported symbol or interface method that could
// not be resolved.
type SymbolError struct {
	Symbol string
	Err    error
}

// Error implements error.
func (e *SymbolError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the lookup error.
func (e *SymbolError) Unwrap() error { return e.Err }

var errNullEntry = errors.New("null function pointer")
