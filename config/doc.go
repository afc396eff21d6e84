// Package config reads session settings from GAMESDK_* environment
// variables and locates the native SDK shared library.
//
//	GAMESDK_CLIENT_ID        application id (required)
//	GAMESDK_LIBRARY_PATH     explicit library file
//	GAMESDK_USE_SIMULATION   use the in-memory backend
//	GAMESDK_LOG_LEVEL        logrus level, default info
//	GAMESDK_REQUIRE_DISCORD  fail creation without a running client, default true
//	GAMESDK_PUMP_INTERVAL    RunCallbacks period, default 16ms
package config
