// Package limits provides the fixed buffer caps of the native SDK records and
// the size checks applied before data crosses into or out of native memory.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxShortString is the capacity of the common fixed-size string fields
	// (activity text, asset keys, party id, secrets, avatar hash, lobby secret).
	// At most MaxShortString-1 bytes of text survive; the last byte is NUL.
	MaxShortString = 128

	// MaxUsername is the capacity of the username field of a user record.
	MaxUsername = 256

	// MaxDiscriminator is the capacity of the discriminator field of a user record.
	MaxDiscriminator = 8

	// MaxShortcut is the capacity of the push-to-talk shortcut of an input mode.
	MaxShortcut = 256

	// MaxMetadataKey is the capacity of a lobby or member metadata key.
	MaxMetadataKey = 256

	// MaxMetadataValue is the capacity of a lobby or member metadata value.
	MaxMetadataValue = 4096

	// MaxCStringScan bounds the scan for the terminator of a native C string
	// handed to a callback. Native strings are never longer than the largest
	// fixed field, so a longer scan means the pointer is bad.
	MaxCStringScan = MaxMetadataValue

	// MaxImageData is the largest image buffer a caller may request
	// (a 4096x4096 RGBA image).
	MaxImageData = 4096 * 4096 * 4

	// MaxProcessingBuffer is the absolute maximum for any byte payload copied
	// out of native memory (lobby messages, network messages, image data).
	MaxProcessingBuffer = MaxImageData
)

var (
	// ErrBufferEmpty indicates an empty buffer was provided
	ErrBufferEmpty = errors.New("empty buffer")

	// ErrBufferTooLarge indicates a buffer exceeds its maximum size
	ErrBufferTooLarge = errors.New("buffer too large")
)

// ValidateBufferSize validates a buffer length against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidateBufferSize(n, maxSize int) error {
	if n <= 0 {
		return ErrBufferEmpty
	}
	if n > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrBufferTooLarge, n, maxSize)
	}
	return nil
}

// ValidateMessage validates an outgoing lobby or network message.
func ValidateMessage(data []byte) error {
	if err := ValidateBufferSize(len(data), MaxProcessingBuffer); err != nil {
		return fmt.Errorf("message: %w", err)
	}
	return nil
}

// ValidateImageRequest validates the buffer size requested for image data.
func ValidateImageRequest(requested int) error {
	if err := ValidateBufferSize(requested, MaxImageData); err != nil {
		return fmt.Errorf("image request: %w", err)
	}
	return nil
}

// ValidateNativeLength validates a length reported by native code before a
// payload of that size is copied into Go memory. Zero is allowed.
func ValidateNativeLength(n uint32) error {
	if uint64(n) > MaxProcessingBuffer {
		return fmt.Errorf("%w: native length %d exceeds limit %d", ErrBufferTooLarge, n, MaxProcessingBuffer)
	}
	return nil
}
