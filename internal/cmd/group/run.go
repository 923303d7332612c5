// Package group implements the "filament group" CLI subcommand.
package group

import (
	"context"
	"os"

	"filament/internal/cmd/env"
	"filament/internal/instance"
	"filament/internal/principal"
)

var store = env.Store[principal.SecurityOptions]{
	Kind:   "group",
	New:    principal.NewUserGroup,
	List:   (*instance.Instance).GetUserGroups,
	Exists: (*instance.Instance).UserGroupExists,
	Get:    (*instance.Instance).GetUserGroup,
	Add:    (*instance.Instance).AddUserGroup,
	Update: (*instance.Instance).UpdateUserGroup,
	Delete: (*instance.Instance).DeleteUserGroup,
}

// Run dispatches a group action such as list, show or apply.
func Run(args []string) error {
	return store.Run(context.Background(), args, os.Stdout)
}
