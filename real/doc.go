// Package real loads the native SDK shared library and implements
// interfaces.Library on top of it without cgo.
//
// Loading uses purego.Dlopen on unix systems and x/sys/windows on Windows.
// Interface methods are reached the way C code reaches them: every native
// object handle points at a struct of function pointers, so a call reads
// the pointer at the method's slot and invokes it with purego.SyscallN,
// passing the handle as the first argument.
//
// # Errors
//
// Failures are typed so callers can tell a missing library from a library
// of the wrong version:
//
//	lib, err := real.Open(path)
//	var loadErr *real.LoadError
//	var symErr *real.SymbolError
//	switch {
//	case errors.As(err, &loadErr):
//	    // file missing or not a shared library
//	case errors.As(err, &symErr):
//	    // DiscordCreate not exported
//	}
//
// Methods that take a record by value are refused with ErrUnsupportedABI on
// platforms whose C ABI passes such records in registers, because SyscallN
// can only pass scalar arguments. On arm64 and Windows amd64 the record is
// passed as a pointer to a copy, which is exactly what the binding does.
//
// # Lifetime
//
// Open returns a library holding one reference. Each session created on it
// acquires another and releases it on destroy. The library is closed when
// the last reference goes away. C callback pointers created by NewCallback
// are never freed and are cached per function.
package real
