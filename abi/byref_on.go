//go:build arm64 || (windows && amd64)

package abi

// AggregatesByReference reports whether the platform C ABI passes records
// larger than 16 bytes by reference to a caller-owned copy. When true, a
// by-value record argument is passed as a pointer to a copy, and a by-value
// record handed to a callback arrives as a pointer.
const AggregatesByReference = true
