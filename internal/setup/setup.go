// Package setup prepares a registry for first use and reads passwords for
// the credential commands.
package setup

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"filament/internal/xmlconfig"
)

// PasswordEnv is read when a command is asked to take its password from the
// environment.
const PasswordEnv = "FILAMENT_PASSWORD"

type Options struct {
	RegistryPath string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// Run creates an empty registry document. It refuses to touch an existing file.
func Run(opt Options) error {
	if opt.RegistryPath == "" {
		return errors.New("registry path is required")
	}
	fs := opt.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(filepath.Dir(opt.RegistryPath), 0o700); err != nil {
		return err
	}
	if ok, err := afero.Exists(fs, opt.RegistryPath); err != nil {
		return err
	} else if ok {
		return errors.New("already initialized: " + opt.RegistryPath)
	}
	return xmlconfig.Create(fs, opt.RegistryPath)
}

// ResolvePassword picks the password from the flag, the environment or an
// interactive prompt, in that order of preference. Flag and env are
// mutually exclusive.
func ResolvePassword(label, flagValue string, fromEnv bool) (string, error) {
	if flagValue != "" && fromEnv {
		return "", errors.New("choose one of -password or -password-env")
	}
	if fromEnv {
		v := strings.TrimSpace(os.Getenv(PasswordEnv))
		if v == "" {
			return "", errors.New(PasswordEnv + " is empty")
		}
		return v, nil
	}
	if flagValue != "" {
		v := strings.TrimSpace(flagValue)
		if v == "" {
			return "", errors.New("password is empty")
		}
		return v, nil
	}
	return PromptPassword(label)
}

// PromptPassword asks for a password twice on stderr. On a terminal echo is
// suppressed; piped input is read line by line.
func PromptPassword(label string) (string, error) {
	read := readLine(bufio.NewReader(os.Stdin))
	if fd := int(os.Stdin.Fd()); isTerminal(fd) {
		read = readHidden(fd)
	}
	for {
		fmt.Fprintf(os.Stderr, "%s: ", label)
		p1, err := read()
		if err != nil {
			return "", err
		}
		fmt.Fprint(os.Stderr, "Confirm password: ")
		p2, err := read()
		if err != nil {
			return "", err
		}
		if p1 == "" {
			fmt.Fprintln(os.Stderr, "password cannot be empty")
			continue
		}
		if p1 != p2 {
			fmt.Fprintln(os.Stderr, "passwords do not match")
			continue
		}
		return p1, nil
	}
}

func readLine(r *bufio.Reader) func() (string, error) {
	return func() (string, error) {
		s, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
}
