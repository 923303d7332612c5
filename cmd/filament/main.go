// Command filament manages the users and groups of a Filament FTP server.
// It dispatches to subcommands like setup, group, user, and passwd.
package main

import (
	"fmt"
	"os"

	"filament/internal/cmd/group"
	"filament/internal/cmd/passwd"
	"filament/internal/cmd/setup"
	"filament/internal/cmd/user"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run dispatches argv[1] to its subcommand.
func run(argv []string) error {
	if len(argv) < 2 {
		usage()
		return fmt.Errorf("missing subcommand")
	}
	switch cmd, args := argv[1], argv[2:]; cmd {
	case "setup":
		return setup.Run(args)
	case "group":
		return group.Run(args)
	case "user":
		return user.Run(args)
	case "passwd":
		return passwd.Run(args)
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: filament <setup|group|user|passwd> [flags]")
	fmt.Fprintln(os.Stderr, "       filament group|user <list|show|add|apply|delete|enable|disable> [flags] [NAME|FILE]")
}
