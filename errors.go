package gamesdk

import (
	"errors"
	"fmt"

	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

var (
	// ErrNilLibrary is returned by Create without a backend.
	ErrNilLibrary = errors.New("gamesdk: nil library")

	// ErrInvalidClientID is returned by Create for a zero client id.
	ErrInvalidClientID = errors.New("gamesdk: client id must be nonzero")

	// ErrNilCallback is returned where a callback is required.
	ErrNilCallback = errors.New("gamesdk: nil callback")

	// ErrReentrantPump is returned when RunCallbacks is called from inside
	// a callback it is delivering.
	ErrReentrantPump = errors.New("gamesdk: RunCallbacks called from a callback")
)

// ResultError is a non-Ok native result. Result implements error, so
// errors.Is(err, ResultNotFound) matches a ResultError carrying it.
type ResultError struct {
	Op     string
	Result model.Result
}

// Error implements error.
func (e *ResultError) Error() string {
	return fmt.Sprintf("gamesdk: %s: %s", e.Op, e.Result)
}

// Unwrap returns the Result so errors.Is matches it.
func (e *ResultError) Unwrap() error {
	return e.Result
}

// check turns the return register of a native call that returns
// EDiscordResult into an error.
func check(op string, ret uintptr) error {
	r := codec.ResultOf(int32(ret))
	if r.Ok() {
		return nil
	}
	return &ResultError{Op: op, Result: r}
}
