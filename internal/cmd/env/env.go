// Package env holds the wiring shared by the registry subcommands:
// config file, flag overrides, logger, access factory and facade.
package env

import (
	"context"
	"flag"
	"log/slog"
	"strings"

	"filament/internal/config"
	"filament/internal/instance"
	"filament/internal/logging"
	"filament/internal/xmlconfig"
)

// Flags are accepted by every subcommand. Non-empty values override the
// config file.
type Flags struct {
	ConfigPath string
	Registry   string
	LogLevel   string
}

// Register adds the shared flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "path to filament.yaml")
	fs.StringVar(&f.Registry, "registry", "", "registry document path (overrides config)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug|info|warning|error (overrides config)")
}

// Config loads the config file when one is given and applies the overrides.
func (f *Flags) Config() (config.Config, error) {
	c := config.Default()
	if f.ConfigPath != "" {
		var err error
		if c, err = config.Load(f.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}
	if v := strings.TrimSpace(f.Registry); v != "" {
		c.Registry.Path = v
	}
	if v := strings.TrimSpace(f.LogLevel); v != "" {
		c.Log.Level = v
	}
	return c, nil
}

// Env is an opened registry ready for commands.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Instance *instance.Instance
}

// Open builds the logger, the access factory and the facade. It fails if
// the registry cannot be opened.
func (f *Flags) Open(ctx context.Context) (*Env, error) {
	c, err := f.Config()
	if err != nil {
		return nil, err
	}
	lg, err := logging.New(logging.Options{Level: c.Log.Level})
	if err != nil {
		return nil, err
	}
	factory, err := xmlconfig.NewFactory(c.Registry.Path, xmlconfig.Options{
		LockTimeout: c.Registry.LockTimeout,
		Logger:      lg,
	})
	if err != nil {
		return nil, err
	}
	inst, err := instance.New(ctx, factory, lg)
	if err != nil {
		return nil, err
	}
	lg.Debug("registry opened", "path", c.Registry.Path)
	return &Env{Config: c, Logger: lg, Instance: inst}, nil
}
