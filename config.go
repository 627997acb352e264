package lyn

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config carries the non-semantic defaults the CLI loads from an
// optional lyn.toml (the -config path, else DefaultConfigPath).
// Command-line flags always override values loaded from here; the
// compiler pipeline itself never reads a Config — it only takes a
// target name, which the CLI derives from flags+Config.
type Config struct {
	Compiler struct {
		DefaultTarget    string `toml:"default_target"`
		OptimizerPasses  int    `toml:"optimizer_passes"`
		OutputPathFormat string `toml:"output_path_format"`
	} `toml:"compiler"`

	Logging struct {
		Verbose bool `toml:"verbose"`
	} `toml:"logging"`
}

// DefaultConfig returns the configuration used when no lyn.toml is
// present or one of its sections is left unset.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Compiler.DefaultTarget = "x86_64"
	cfg.Compiler.OptimizerPasses = 1
	cfg.Compiler.OutputPathFormat = "output.s"
	cfg.Logging.Verbose = false
	return cfg
}

// LoadConfig reads and merges a TOML config file over DefaultConfig.
// A missing file is not an error — the defaults are returned as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, newResourceError("can't read config %q: %s", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the platform-specific location of a user
// lyn.toml, used when the CLI isn't given an explicit -config flag.
func DefaultConfigPath() string {
	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "lync")
	default:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "lyn.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "lync")
	}
	return filepath.Join(configDir, "lyn.toml")
}
