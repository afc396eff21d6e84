//go:build !arm64 && !(windows && amd64)

package abi

// AggregatesByReference is false where large records travel on the stack
// (System V amd64). Slots marked ByValue cannot be called there.
const AggregatesByReference = false
