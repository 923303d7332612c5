// Package user implements the "filament user" CLI subcommand.
package user

import (
	"context"
	"os"

	"filament/internal/cmd/env"
	"filament/internal/instance"
	"filament/internal/principal"
)

var store = env.Store[principal.UserSecurityOptions]{
	Kind:   "user",
	New:    principal.NewUser,
	List:   (*instance.Instance).GetUsers,
	Exists: (*instance.Instance).UserExists,
	Get:    (*instance.Instance).GetUser,
	Add:    (*instance.Instance).AddUser,
	Update: (*instance.Instance).UpdateUser,
	Delete: (*instance.Instance).DeleteUser,
}

// Run dispatches a user action such as list, show or apply.
func Run(args []string) error {
	return store.Run(context.Background(), args, os.Stdout)
}
