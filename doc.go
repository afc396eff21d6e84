// Package gamesdk binds the Discord Game SDK shared library to Go without
// cgo.
//
// A Core is one native session. Asynchronous operations take a Go closure
// that runs exactly once, and push events go to EventHandler listeners.
// Neither ever runs on its own: native code delivers them while the
// program calls RunCallbacks, normally once per frame.
//
// Example:
//
//	lib, err := real.Open(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Release()
//
//	core, err := gamesdk.Create(lib, gamesdk.CreateParams{
//	    ClientID: 123456789,
//	    Flags:    gamesdk.CreateFlagsNoRequireDiscord,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer core.Destroy()
//
//	core.ActivityManager().UpdateActivity(gamesdk.Activity{
//	    State:   "In a match",
//	    Details: "Ranked",
//	}, func(r gamesdk.Result) {
//	    log.Printf("activity update: %s", r)
//	})
//
//	for range time.Tick(16 * time.Millisecond) {
//	    if err := core.RunCallbacks(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Results that are not Ok come back as *ResultError. Result implements
// error, so errors.Is(err, gamesdk.ResultNotFound) works on them.
//
// The image and voice input mode calls pass records by value, which purego
// can only do where the platform ABI passes such records by reference
// (arm64 and windows/amd64). See abi.AggregatesByReference.
//
// Calls into a session are serialized. A callback delivered on the thread
// that is pumping or calling may call back into the session; a callback on
// a native worker thread, such as the log hook, waits until the pump or
// call in progress returns.
//
// For tests, the testing package provides an in-memory backend that calls
// the registered callbacks the way the native library does.
//
// Native code receives Go memory as pinned uintptr addresses, and the
// trampolines turn those back into pointers. The race detector enables
// checkptr, which rejects such conversions, so race runs need it off:
//
//	go test -race -gcflags=all=-d=checkptr=0 ./...
package gamesdk
