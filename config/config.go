// Package config loads and saves the persistent settings a reil command
// invocation starts from: which solver binary to shell out to, the
// target architecture's address size, and the toggles for the lint,
// trace, and debugger front ends. The cmd package reads the solver path
// and arguments from here; the other settings are loaded and saved but no
// command consults them, and no command-line flag overrides a loaded value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the full set of persisted settings.
type Config struct {
	// Solver settings: how to reach the external SMT backend.
	Solver struct {
		Path    string   `toml:"path"`
		Args    []string `toml:"args"`
		Timeout uint     `toml:"timeout_seconds"`
	} `toml:"solver"`

	// Target settings: the architecture descriptor the translator uses.
	Target struct {
		Architecture string `toml:"architecture"`
		AddressSize  uint   `toml:"address_size"`
	} `toml:"target"`

	// Lint settings.
	Lint struct {
		Enabled          bool `toml:"enabled"`
		CheckUnknown     bool `toml:"check_unknown"`
		CheckUnreachable bool `toml:"check_unreachable"`
		CheckRegisterUse bool `toml:"check_register_use"`
		CheckWidths      bool `toml:"check_widths"`
		SuggestFixes     bool `toml:"suggest_fixes"`
		FailOnError      bool `toml:"fail_on_error"`
	} `toml:"lint"`

	// Trace settings: how much of each Translate call to log.
	Trace struct {
		Enabled     bool   `toml:"enabled"`
		OutputFile  string `toml:"output_file"`
		IncludeSMT  bool   `toml:"include_smt"`
		IncludeXRef bool   `toml:"include_xref"`
	} `toml:"trace"`

	// Debugger settings.
	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		ShowSSANames   bool `toml:"show_ssa_names"`
		ShowAssertions bool `toml:"show_assertions"`
	} `toml:"debugger"`

	// Server settings for the HTTP/websocket event API.
	Server struct {
		ListenAddr string `toml:"listen_addr"`
	} `toml:"server"`
}

// DefaultConfig returns a Config with conservative, immediately usable
// defaults: z3 on PATH in SMT-LIB interactive mode, x86-64 addressing,
// every lint check on, tracing off.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Solver.Path = "z3"
	cfg.Solver.Args = []string{"-in"}
	cfg.Solver.Timeout = 30

	cfg.Target.Architecture = "x86-64"
	cfg.Target.AddressSize = 64

	cfg.Lint.Enabled = true
	cfg.Lint.CheckUnknown = true
	cfg.Lint.CheckUnreachable = true
	cfg.Lint.CheckRegisterUse = true
	cfg.Lint.CheckWidths = true
	cfg.Lint.SuggestFixes = true
	cfg.Lint.FailOnError = false

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "reil-trace.log"
	cfg.Trace.IncludeSMT = true
	cfg.Trace.IncludeXRef = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSSANames = true
	cfg.Debugger.ShowAssertions = true

	cfg.Server.ListenAddr = "localhost:8766"

	return cfg
}

// GetConfigPath returns the platform-specific config file path:
// ~/.config/reil/config.toml on Linux and macOS, %APPDATA%\reil\config.toml
// on Windows, and config.toml in the working directory when the directory
// cannot be determined or created or the OS is another one.
// $XDG_CONFIG_HOME is not consulted.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "reil")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "reil")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads configuration from the default config file, returning
// DefaultConfig() untouched if no file exists yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads configuration from path, layering it over the defaults
// so a partial file only overrides the fields it sets.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to path, creating its parent directory if
// needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
