package factory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/gamesdk"
	"github.com/opd-ai/gamesdk/config"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/model"
	"github.com/opd-ai/gamesdk/real"
	"github.com/opd-ai/gamesdk/testing"
	"github.com/sirupsen/logrus"
)

// ErrNilConfig is returned when a nil configuration is supplied.
var ErrNilConfig = errors.New("factory: config cannot be nil")

// SDKFactory creates native SDK backends and sessions from a
// configuration. It is safe for concurrent use.
type SDKFactory struct {
	mu     sync.RWMutex
	config config.Config
}

// SimulationOption customizes a simulation created for tests.
type SimulationOption func(*testing.SimulatedSDK)

// NewSDKFactory creates a factory for cfg. A nil cfg is read from the
// environment.
func NewSDKFactory(cfg *config.Config) (*SDKFactory, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewSDKFactory",
		"client_id":       cfg.ClientID,
		"use_simulation":  cfg.UseSimulation,
		"library_path":    cfg.LibraryPath,
		"require_discord": cfg.RequireDiscord,
	}).Info("Created SDK factory with configuration")

	return &SDKFactory{config: *cfg}, nil
}

// CreateLibrary returns the simulation or the loaded shared library,
// holding one reference the caller must Release.
func (f *SDKFactory) CreateLibrary() (interfaces.Library, error) {
	f.mu.RLock()
	cfg := f.config
	f.mu.RUnlock()

	lc := cfg.Library()
	if lc.UseSimulation {
		logrus.WithFields(logrus.Fields{
			"function": "CreateLibrary",
			"type":     "simulation",
		}).Info("Creating simulation backend")
		return testing.NewSimulatedSDK(), nil
	}

	path, err := config.ResolveLibrary(lc)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "CreateLibrary",
		"type":       "real",
		"configured": lc.Path,
		"path":       path,
	}).Info("Loading native SDK library")

	lib, err := real.Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// WithDiscordStopped makes creation without CreateFlagsNoRequireDiscord
// fail with ResultNotRunning.
func WithDiscordStopped() SimulationOption {
	return func(s *testing.SimulatedSDK) {
		s.SetDiscordRunning(false)
	}
}

// WithUsers makes extra users known to the simulation.
func WithUsers(users ...model.User) SimulationOption {
	return func(s *testing.SimulatedSDK) {
		for _, u := range users {
			s.AddUser(u)
		}
	}
}

// WithImageDimensions sets the avatar size of user id.
func WithImageDimensions(id int64, dims model.ImageDimensions) SimulationOption {
	return func(s *testing.SimulatedSDK) {
		s.SetImageDimensions(id, dims)
	}
}

// CreateSimulationForTesting returns a simulation regardless of the
// configured mode.
func (f *SDKFactory) CreateSimulationForTesting(opts ...SimulationOption) *testing.SimulatedSDK {
	sim := testing.NewSimulatedSDK()
	for _, opt := range opts {
		opt(sim)
	}

	logrus.WithFields(logrus.Fields{
		"function": "CreateSimulationForTesting",
		"options":  len(opts),
	}).Info("Creating simulation backend for testing")
	return sim
}

// CreateCore creates a library and starts a session on it with handler as
// first listener. The session keeps its own library reference, so the
// factory's reference is dropped before returning.
func (f *SDKFactory) CreateCore(handler gamesdk.EventHandler) (*gamesdk.Core, error) {
	f.mu.RLock()
	cfg := f.config
	f.mu.RUnlock()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lib, err := f.CreateLibrary()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lib.Release(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "CreateCore",
				"error":    err.Error(),
			}).Warn("Failed to release factory library reference")
		}
	}()

	core, err := gamesdk.Create(lib, gamesdk.CreateParams{
		ClientID: cfg.ClientID,
		Flags:    cfg.Flags(),
		Handler:  handler,
	})
	if err != nil {
		return nil, fmt.Errorf("factory: create core: %w", err)
	}
	return core, nil
}

// SwitchToSimulation makes later CreateLibrary calls use the simulation.
func (f *SDKFactory) SwitchToSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToSimulation",
		"previous": f.config.UseSimulation,
	}).Info("Switching factory to simulation mode")

	f.config.UseSimulation = true
}

// SwitchToReal makes later CreateLibrary calls load the shared library.
func (f *SDKFactory) SwitchToReal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToReal",
		"previous": f.config.UseSimulation,
	}).Info("Switching factory to real mode")

	f.config.UseSimulation = false
}

// IsUsingSimulation reports whether the factory is in simulation mode.
func (f *SDKFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.config.UseSimulation
}

// GetCurrentConfig returns a copy of the configuration.
func (f *SDKFactory) GetCurrentConfig() config.Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.config
}

// UpdateConfig replaces the configuration.
func (f *SDKFactory) UpdateConfig(cfg *config.Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_simulation": f.config.UseSimulation,
		"new_simulation": cfg.UseSimulation,
		"old_client_id":  f.config.ClientID,
		"new_client_id":  cfg.ClientID,
	}).Info("Updating factory configuration")

	f.config = *cfg
	return nil
}
