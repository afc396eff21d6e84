package codec

import (
	"bytes"
	"unsafe"

	"github.com/opd-ai/gamesdk/limits"
)

// PutString writes s into the fixed-size native field dst. At most
// len(dst)-1 bytes are copied, a NUL follows, and the rest of dst is zeroed.
// Longer strings are truncated silently at the byte cap, which can split a
// multi-byte rune. It returns the number of text bytes kept.
func PutString(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}
	n := copy(dst[:len(dst)-1], s)
	clear(dst[n:])
	return n
}

// String decodes a fixed-size native field, stopping at the first NUL or at
// the end of the buffer.
func String(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// CString reads a NUL-terminated string owned by native code. The scan stops
// after limits.MaxCStringScan bytes. A zero pointer yields "".
func CString(p uintptr) string {
	if p == 0 {
		return ""
	}
	base := unsafe.Pointer(p)
	n := 0
	for n < limits.MaxCStringScan && *(*byte)(unsafe.Add(base, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(base), n))
}

// CStringBytes returns s as a NUL-terminated buffer for passing a
// const char* argument. Interior NULs end the string early on the native side.
func CStringBytes(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
