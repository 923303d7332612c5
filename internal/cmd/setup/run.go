// Package setup implements the "filament setup" CLI subcommand.
// It writes an empty registry document for a new server.
package setup

import (
	"flag"

	"filament/internal/cmd/env"
	isetup "filament/internal/setup"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	var f env.Flags
	f.Register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := f.Config()
	if err != nil {
		return err
	}
	return isetup.Run(isetup.Options{RegistryPath: c.Registry.Path})
}
