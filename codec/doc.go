// Package codec converts between native SDK records and their Go
// representations in package model.
//
// Call-in encoding copies Go values into the fixed-layout mirrors of package
// abi. Strings longer than a field's capacity are truncated silently to
// capacity-1 bytes followed by a NUL; this is the documented policy of the
// native headers and is not reported as an error.
//
// Callback-out decoding reads records through pointers supplied by native
// code. Strings stop at the first NUL or the field bound. Byte payloads are
// copied to exactly the reported length. A nil record pointer decodes to a
// nil Go pointer, never to a zero record.
//
// Enumerations are translated through an Enum descriptor per enumeration,
// since the native numbering starts at 1 for some (LogLevel,
// ActivityActionType, LobbyType, LobbySearchCast), at -2 for
// LobbySearchComparison and at 0 for the rest.
package codec
