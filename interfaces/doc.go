// Package interfaces defines the boundary between a session and the native
// SDK it drives.
//
// [Library] is implemented by the purego backend in package real and by the
// simulation in package testing. A session only ever talks to the native
// side through it:
//
//	lib, err := real.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer lib.Release()
//	core, err := gamesdk.Create(lib, gamesdk.CreateParams{ClientID: id})
//
// Native objects are addressed by opaque handles. A method is identified by
// an [abi.Slot]; the backend decides how to reach it. The real backend reads
// the function pointer from the object's interface struct, the simulation
// dispatches on the slot directly.
package interfaces
