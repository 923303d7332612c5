// Package passwd implements the "filament passwd" CLI subcommand.
// It replaces a user's stored password hash and salt.
package passwd

import (
	"context"
	"flag"
	"fmt"

	"filament/internal/auth"
	"filament/internal/cmd/env"
	"filament/internal/setup"
)

// Options captures CLI flags for a password change.
// Password and PasswordEnv are mutually exclusive.
type Options struct {
	Password    string
	PasswordEnv bool
}

func Run(args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	var (
		f   env.Flags
		opt Options
	)
	f.Register(fs)
	fs.StringVar(&opt.Password, "password", "", "set the password non-interactively")
	fs.BoolVar(&opt.PasswordEnv, "password-env", false, "read the password from "+setup.PasswordEnv)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := fs.Arg(0)
	if name == "" {
		return fmt.Errorf("passwd: missing user name")
	}
	return run(context.Background(), f, name, opt)
}

func run(ctx context.Context, f env.Flags, name string, opt Options) error {
	e, err := f.Open(ctx)
	if err != nil {
		return err
	}
	u, err := e.Instance.GetUser(ctx, name)
	if err != nil {
		return err
	}
	pass, err := setup.ResolvePassword("New password for "+name, opt.Password, opt.PasswordEnv)
	if err != nil {
		return err
	}
	hash, salt, err := auth.HashPassword(pass, auth.DefaultArgon2Params())
	if err != nil {
		return err
	}
	u.Security.PasswordHash = hash
	u.Security.PasswordSalt = salt
	if err := e.Instance.UpdateUser(ctx, u); err != nil {
		return err
	}
	e.Logger.Info("password changed", "user", name)
	return nil
}
