package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

// Bounds for the pump interval.
const (
	MinPumpInterval = time.Millisecond
	MaxPumpInterval = time.Second
)

var (
	// ErrMissingClientID is returned by Validate when no application id is
	// configured.
	ErrMissingClientID = errors.New("config: client id is required")

	// ErrLibraryNotFound is returned by ResolveLibraryPath when no candidate file
	// exists.
	ErrLibraryNotFound = errors.New("config: native SDK library not found")
)

// Config is the process level configuration of a session.
type Config struct {
	ClientID       int64         `env:"GAMESDK_CLIENT_ID"`
	LibraryPath    string        `env:"GAMESDK_LIBRARY_PATH"`
	UseSimulation  bool          `env:"GAMESDK_USE_SIMULATION" envDefault:"false"`
	LogLevel       string        `env:"GAMESDK_LOG_LEVEL"      envDefault:"info"`
	RequireDiscord bool          `env:"GAMESDK_REQUIRE_DISCORD" envDefault:"true"`
	PumpInterval   time.Duration `env:"GAMESDK_PUMP_INTERVAL"  envDefault:"16ms"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":        "config.Load",
		"client_id":       cfg.ClientID,
		"library_path":    cfg.LibraryPath,
		"use_simulation":  cfg.UseSimulation,
		"log_level":       cfg.LogLevel,
		"require_discord": cfg.RequireDiscord,
		"pump_interval":   cfg.PumpInterval.String(),
	}).Debug("Loaded configuration from environment")
	return cfg, nil
}

// Validate checks the values Load or a caller filled in.
func (c *Config) Validate() error {
	if c.ClientID <= 0 {
		return ErrMissingClientID
	}
	if c.PumpInterval < MinPumpInterval || c.PumpInterval > MaxPumpInterval {
		return fmt.Errorf("config: pump interval %s outside [%s, %s]", c.PumpInterval, MinPumpInterval, MaxPumpInterval)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Flags returns the session creation flags the configuration asks for.
func (c *Config) Flags() model.CreateFlags {
	if c.RequireDiscord {
		return model.CreateFlagsDefault
	}
	return model.CreateFlagsNoRequireDiscord
}

// ApplyLogLevel sets the logrus standard logger to LogLevel.
func (c *Config) ApplyLogLevel() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Library returns the backend configuration.
func (c *Config) Library() interfaces.LibraryConfig {
	return interfaces.LibraryConfig{
		Path:          c.LibraryPath,
		UseSimulation: c.UseSimulation,
	}
}

// LibraryFileName is the shared library name on the running OS.
func LibraryFileName() string {
	return libraryFileName(runtime.GOOS)
}

func libraryFileName(goos string) string {
	switch goos {
	case "windows":
		return "discord_game_sdk.dll"
	case "darwin":
		return "discord_game_sdk.dylib"
	default:
		return "discord_game_sdk.so"
	}
}

// ResolveLibraryPath returns the first existing library file among: the
// configured path, the working directory, the executable's directory and
// the executable's ../lib directory.
func (c *Config) ResolveLibraryPath() (string, error) {
	return ResolveLibrary(c.Library())
}

// ResolveLibrary is ResolveLibraryPath for a backend configuration.
func ResolveLibrary(lc interfaces.LibraryConfig) (string, error) {
	candidates := searchPath(lc.Path)
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			logrus.WithFields(logrus.Fields{
				"function": "ResolveLibrary",
				"path":     p,
			}).Debug("Found native SDK library")
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %v", ErrLibraryNotFound, candidates)
}

func searchPath(configured string) []string {
	name := LibraryFileName()
	var paths []string
	if configured != "" {
		paths = append(paths, configured)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, name))
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths, filepath.Join(dir, name), filepath.Join(dir, "..", "lib", name))
	}
	return paths
}
