package codec

import (
	"fmt"
	"unsafe"

	"github.com/opd-ai/gamesdk/limits"
)

// Bytes copies exactly n bytes of native memory at p into a new Go slice.
// n == 0 yields an empty, non-nil slice without touching p.
func Bytes(p uintptr, n uint32) ([]byte, error) {
	if err := limits.ValidateNativeLength(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	if p == 0 {
		return nil, fmt.Errorf("%w: %d bytes at nil pointer", ErrNullPointer, n)
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
	return out, nil
}

// Truncate returns the first n bytes of buf, or buf when n exceeds its length.
// It trims a caller-sized buffer to the count native code reported as valid.
func Truncate(buf []byte, n uint64) []byte {
	if n >= uint64(len(buf)) {
		return buf
	}
	return buf[:n]
}
