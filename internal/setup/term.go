package setup

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func isTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

func readHidden(fd int) func() (string, error) {
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
}
