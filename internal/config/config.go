// Package config loads and validates Filament YAML configuration.
// It applies defaults so commands can rely on fully populated values.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// RegistryConfig locates the principal registry document.
type RegistryConfig struct {
	Path string `yaml:"path"`
	// LockTimeout is how long a session waits for another one to finish.
	// Zero fails immediately.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Config mirrors the filament.yaml schema.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Registry RegistryConfig `yaml:"registry"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	applyDefaults(&c)
	return c
}

// Load reads a YAML config file, applies defaults, and validates it.
// A relative registry path is taken relative to the config file.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, errors.New("config path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	if !filepath.IsAbs(c.Registry.Path) {
		c.Registry.Path = filepath.Join(filepath.Dir(path), c.Registry.Path)
	}
	return c, nil
}

// applyDefaults populates zero-values with sane defaults.
func applyDefaults(c *Config) {
	c.Log.Level = strings.TrimSpace(c.Log.Level)
	c.Registry.Path = strings.TrimSpace(c.Registry.Path)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Registry.Path == "" {
		c.Registry.Path = "./filament.xml"
	}
}

// validate performs basic sanity checks. It does not mutate the config.
func validate(c *Config) error {
	if c.Log.Level == "" {
		return errors.New("log.level is required")
	}
	if c.Registry.Path == "" {
		return errors.New("registry.path is required")
	}
	if c.Registry.LockTimeout < 0 {
		return errors.New("registry.lock_timeout must not be negative")
	}
	return nil
}
