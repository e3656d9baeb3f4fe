package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jspreng/nodegrav/pkg/layout/force"
)

// Config is the TOML configuration file surface. Every field is optional;
// zero values fall back to built-in defaults.
//
// Example:
//
//	area = 1200.0
//
//	[force]
//	scale = 1.2
//	cooloff = 0.95
//
//	[gravity]
//	strength = 0.08
type Config struct {
	// Area is the square drawing-area side length used by batch commands.
	Area float64 `toml:"area"`

	// Force tunes the force-directed simulation.
	Force force.Params `toml:"force"`

	// Gravity tunes the center-gravity extra force.
	Gravity GravityConfig `toml:"gravity"`
}

// GravityConfig tunes the center-gravity extra force.
type GravityConfig struct {
	Strength float64 `toml:"strength"`
}

// loadConfig reads the TOML config from path, or from the default location
// when path is empty. A missing file is not an error; it yields defaults.
func (c *CLI) loadConfig() (Config, error) {
	cfg := Config{Area: defaultArea}

	path := c.config
	explicit := path != ""
	if !explicit {
		var err error
		path, err = configPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if cfg.Area <= 0 {
		cfg.Area = defaultArea
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// configPath returns the config file path using XDG standard
// (~/.config/nodegrav/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// newForce constructs a force-directed simulation from persisted state and
// the configured tuning, mirroring the registered builder but with config
// applied.
func newForce(state []byte, cfg Config) (*force.ForceDirected, error) {
	return force.New(state,
		force.WithParams(cfg.Force),
		force.WithExtra(force.NewCenterGravity(cfg.Gravity.Strength)),
	)
}
