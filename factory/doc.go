// Package factory picks the native SDK backend from configuration.
//
// The factory hides whether a session runs on the loaded shared library
// or on the in-memory simulation, so the same program can run in CI
// without the SDK installed.
//
// # Configuration
//
// NewSDKFactory(nil) reads config.Load, so GAMESDK_USE_SIMULATION and the
// other GAMESDK_* variables select the backend:
//
//	factory, err := factory.NewSDKFactory(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	core, err := factory.CreateCore(handler)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer core.Destroy()
//
// # Testing Support
//
// CreateSimulationForTesting returns the simulation whatever the mode, so
// a test can drive events on it:
//
//	sim := factory.CreateSimulationForTesting(factory.WithDiscordStopped())
//
// SwitchToSimulation and SwitchToReal change the mode at runtime.
package factory
