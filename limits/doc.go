// Package limits provides centralized buffer caps and validation functions for
// data crossing the native SDK boundary.
//
// # Fixed Field Caps
//
// Native records carry strings in fixed-size, NUL-terminated character arrays.
// The caps mirror the C declarations:
//
//   - MaxShortString (128 bytes): activity text, asset keys, party id,
//     secrets, avatar hash and lobby secret.
//   - MaxUsername (256 bytes) and MaxDiscriminator (8 bytes): user records.
//   - MaxShortcut (256 bytes): voice input mode shortcut.
//   - MaxMetadataKey (256 bytes) and MaxMetadataValue (4096 bytes): lobby
//     and member metadata.
//
// Strings written into these fields are truncated silently at cap-1 bytes
// plus a NUL terminator. Truncation is accepted lossy behavior, not an error.
//
// # Validation Functions
//
// Variable-length payloads are checked before any copy:
//
//	if err := limits.ValidateMessage(data); err != nil {
//	    // ErrBufferEmpty or ErrBufferTooLarge
//	}
//
// ValidateNativeLength guards lengths reported by native callbacks so a
// corrupt length never turns into an unbounded read.
package limits
