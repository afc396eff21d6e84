package gamesdk

import (
	"runtime"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/handle"
	"github.com/opd-ai/gamesdk/model"
)

// frame keeps the Go memory passed to native calls pinned until release.
type frame struct {
	pinner runtime.Pinner
}

func ref[T any](f *frame, v *T) uintptr {
	f.pinner.Pin(v)
	return uintptr(unsafe.Pointer(v))
}

func (f *frame) cstr(s string) uintptr {
	b := codec.CStringBytes(s)
	return ref(f, &b[0])
}

// bytes returns the address and length of a copy of b.
func (f *frame) bytes(b []byte) (uintptr, uintptr) {
	if len(b) == 0 {
		return 0, 0
	}
	c := append([]byte(nil), b...)
	return ref(f, &c[0]), uintptr(len(c))
}

func (f *frame) release() {
	f.pinner.Unpin()
}

func cbool(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

// manager is a native manager or transaction object owned by a Core.
type manager struct {
	core   *Core
	native *handle.Native
}

func (m manager) call(slot abi.Slot, args ...uintptr) (uintptr, error) {
	return m.core.invoke(m.native, slot, args...)
}

// check calls a slot that returns EDiscordResult.
func (m manager) check(slot abi.Slot, args ...uintptr) error {
	ret, err := m.call(slot, args...)
	if err != nil {
		return err
	}
	return check(slot.String(), ret)
}

// async arms a single-shot envelope for target and calls slot with args
// followed by the envelope id and the trampoline fn. The envelope is
// released when the call fails before native code could schedule it.
func (m manager) async(slot abi.Slot, fn uintptr, target any, args ...uintptr) error {
	id, err := m.core.envelopes.Arm(slot.String(), target)
	if err != nil {
		return err
	}
	if _, err := m.call(slot, append(args, id, fn)...); err != nil {
		m.core.envelopes.Release(id)
		return err
	}
	return nil
}

func resultFunc(cb func(model.Result)) dispatch.ResultFunc {
	if cb == nil {
		return func(model.Result) {}
	}
	return cb
}

func lobbyResultFunc(cb func(model.Result, *model.Lobby)) dispatch.LobbyResultFunc {
	if cb == nil {
		return func(model.Result, *model.Lobby) {}
	}
	return cb
}
