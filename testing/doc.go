// Package testing provides an in-memory native SDK for deterministic tests
// of the binding.
//
// # Overview
//
// [SimulatedSDK] implements interfaces.Library without loading anything.
// It models the state behind every manager the binding wraps: users,
// activities, relationships, images, lobbies with transactions and search,
// peer to peer networking, the overlay and voice settings.
//
// The simulation behaves like native code at the boundary. Function
// pointers obtained from NewCallback are called with uintptr arguments.
// Records are passed as pointers to memory laid out like the C structs.
// Async results and events are queued and delivered during run_callbacks,
// and the log hook is called from a goroutine locked to a separate OS
// thread.
//
// # Usage
//
//	sim := testing.NewSimulatedSDK()
//	core, err := gamesdk.Create(sim, gamesdk.CreateParams{ClientID: 123456789})
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer core.Destroy()
//
//	sim.TriggerActivityJoin("abc123")
//	core.RunCallbacks() // delivers OnActivityJoin
//
// # Fault injection
//
// FailCreate and FailNext make the next creation or slot call report a
// chosen result, which lets tests drive the error paths of the binding:
//
//	sim.FailNext(abi.ActivityUpdateActivity, model.ResultInternalError)
//
// Every construction logs a warning so a simulation is never mistaken for
// a real session.
package testing
